// Package token provides source-position tracking shared by the AST and
// compiler packages. The lexer and parser that produce token streams and
// positions are external collaborators; this package only carries the
// position values they would attach to AST nodes.
package token

import (
	"fmt"
	stdtoken "go/token"
)

// Pos is a compact source position, valid only in the context of a FileSet.
// The zero value is NoPos: no position information is available.
type Pos = stdtoken.Pos

// NoPos is the zero value of Pos; a Pos value with no position information.
const NoPos = stdtoken.NoPos

// FileSet and File track the set of source files sharing a single Pos
// address space, exactly like the standard library's go/token package (which
// this package aliases rather than reimplementing: nenuphar's own scanner
// package already aliases go/scanner for the same reason).
type (
	FileSet  = stdtoken.FileSet
	File     = stdtoken.File
	Position = stdtoken.Position
)

// NewFileSet creates a new, empty FileSet.
func NewFileSet() *FileSet { return stdtoken.NewFileSet() }

// PosMode controls how a Pos is rendered by FormatPos.
type PosMode int

const (
	// PosNone renders positions as the empty string.
	PosNone PosMode = iota
	// PosRaw renders the raw numeric Pos value.
	PosRaw
	// PosOffsets renders the 0-based byte offset within the Pos' file.
	PosOffsets
	// PosLong renders "filename:line:col".
	PosLong
)

// FormatPos renders pos according to mode. withFilename controls whether the
// filename prefix is included in PosLong mode (it is always omitted for the
// other modes, which are file-relative or raw by definition).
func FormatPos(mode PosMode, fset *FileSet, pos Pos, withFilename bool) string {
	switch mode {
	case PosRaw:
		return fmt.Sprintf("%d", pos)
	case PosOffsets:
		if pos == NoPos {
			return "-"
		}
		return fmt.Sprintf("%d", fset.Position(pos).Offset)
	case PosLong:
		if pos == NoPos {
			return "-:-"
		}
		p := fset.Position(pos)
		if withFilename {
			return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
		}
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return ""
	}
}

// Spanner is implemented by AST nodes that know their own source extent.
type Spanner interface {
	Span() (start, end Pos)
}

// PosInside reports whether test's span is entirely contained within ref's
// span (inclusive of both ends).
func PosInside(ref, test Spanner) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return rs <= ts && te <= re
}
