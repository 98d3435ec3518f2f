// Package jsstring implements the compact, dual-encoded, reference-counted
// string type shared by every identifier and string value in the engine.
//
// A String is a small value handle (two pointer-sized words) to one of two
// representations: a heap-allocated, reference-counted record, or an entry
// in the process-wide static (interned) table. The two are distinguished by
// which internal pointer is non-nil, playing the role of the pointer-tag bit
// a systems-language implementation would use — Go's garbage collector
// already owns the allocation, so there is no benefit to reconstructing that
// tagging at the bit level, only at the type level.
package jsstring

import (
	"fmt"
	"strings"
)

// Encoding identifies the internal code-unit width of a string.
type Encoding uint8

const (
	// Latin1 stores one byte per code unit; every code unit is < 256.
	Latin1 Encoding = iota
	// UTF16 stores two bytes per code unit and may contain unpaired surrogates.
	UTF16
)

func (e Encoding) String() string {
	if e == Latin1 {
		return "latin1"
	}
	return "utf16"
}

// heapString is a reference-counted allocation. refcount is non-atomic: the
// string subsystem is single-threaded (spec.md §4.2.1, §5) and handles are
// not safe to share across goroutines.
type heapString struct {
	refcount int32
	encoding Encoding
	latin1   []byte   // valid when encoding == Latin1
	utf16    []uint16 // valid when encoding == UTF16
}

func (h *heapString) len() int {
	if h.encoding == Latin1 {
		return len(h.latin1)
	}
	return len(h.utf16)
}

func (h *heapString) at(i int) uint16 {
	if h.encoding == Latin1 {
		return uint16(h.latin1[i])
	}
	return h.utf16[i]
}

// staticEntry is a process-lifetime, read-only record in the interned table.
// Its refcount is conceptually infinite: Clone and Release are no-ops.
type staticEntry struct {
	idx      int
	encoding Encoding
	units    []uint16
}

func (s *staticEntry) len() int        { return len(s.units) }
func (s *staticEntry) at(i int) uint16 { return s.units[i] }

// String is a handle to an immutable sequence of 16-bit code units. The zero
// value is not a valid String; use Empty() to obtain the canonical empty
// string.
type String struct {
	heap *heapString
	stat *staticEntry
}

// Empty returns the canonical empty string. It is always a static handle.
func Empty() String {
	return internEmpty
}

func newHeapLatin1(b []byte) String {
	if e, ok := lookupStaticLatin1(b); ok {
		return String{stat: e}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return String{heap: &heapString{refcount: 1, encoding: Latin1, latin1: cp}}
}

func newHeapUTF16(u []uint16) String {
	if e, ok := lookupStaticUTF16(u); ok {
		return String{stat: e}
	}
	if lat, ok := narrowToLatin1(u); ok {
		return newHeapLatin1(lat)
	}
	cp := make([]uint16, len(u))
	copy(cp, u)
	return String{heap: &heapString{refcount: 1, encoding: UTF16, utf16: cp}}
}

// narrowToLatin1 reports whether every code unit of u fits in a byte, and if
// so returns the narrowed byte slice.
func narrowToLatin1(u []uint16) ([]byte, bool) {
	b := make([]byte, len(u))
	for i, cu := range u {
		if cu >= 256 {
			return nil, false
		}
		b[i] = byte(cu)
	}
	return b, true
}

// FromLatin1 constructs a string from a byte slice where every byte is a
// code unit value (< 256). The interner is consulted first (spec.md §4.2.4).
func FromLatin1(b []byte) String {
	if len(b) == 0 {
		return Empty()
	}
	return newHeapLatin1(b)
}

// FromUTF16 constructs a string from a slice of 16-bit code units, which may
// include unpaired surrogates. The interner is consulted first.
func FromUTF16(u []uint16) String {
	if len(u) == 0 {
		return Empty()
	}
	return newHeapUTF16(u)
}

// FromUTF8 decodes a host-native (UTF-8) string into code units and
// constructs a String, consulting the interner first.
func FromUTF8(s string) String {
	if s == "" {
		return Empty()
	}
	u := utf8ToUTF16(s)
	return newHeapUTF16(u)
}

// Len reports the number of code units (not bytes).
func (s String) Len() int {
	if s.stat != nil {
		return s.stat.len()
	}
	if s.heap == nil {
		return 0
	}
	return s.heap.len()
}

// IsEmpty reports whether the string has zero code units.
func (s String) IsEmpty() bool { return s.Len() == 0 }

// IsStatic reports whether s is backed by the interned table.
func (s String) IsStatic() bool { return s.stat != nil }

// Encoding reports the internal representation's code-unit width.
func (s String) Encoding() Encoding {
	if s.stat != nil {
		return s.stat.encoding
	}
	if s.heap == nil {
		return Latin1
	}
	return s.heap.encoding
}

// At returns the code unit at index i. It panics if i is out of range.
func (s String) At(i int) uint16 {
	if s.stat != nil {
		return s.stat.at(i)
	}
	return s.heap.at(i)
}

// CodeUnits copies out the full code-unit sequence.
func (s String) CodeUnits() []uint16 {
	n := s.Len()
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(i)
	}
	return out
}

// Clone returns a new handle to the same contents. For a heap string this
// increments the reference count; for a static string it is a no-op copy
// (spec.md §4.2.7). Unlike a systems-language implementation, a plain Go
// assignment of a String value does *not* itself bump the refcount — callers
// that intend to hold an independent, separately-released handle must call
// Clone explicitly, mirroring the explicit-clone discipline spec.md assumes.
func (s String) Clone() String {
	if s.heap != nil {
		if s.heap.refcount == 0 {
			panic("jsstring: clone of a freed heap string")
		}
		if s.heap.refcount == maxRefcount {
			panic("jsstring: refcount overflow")
		}
		s.heap.refcount++
	}
	return s
}

const maxRefcount = 1<<31 - 1

// Release decrements the reference count of a heap handle, freeing the
// backing allocation when it reaches zero. It is a no-op for static handles.
// Releasing an already-freed handle panics, mirroring a double-free.
func (s String) Release() {
	if s.heap == nil {
		return
	}
	if s.heap.refcount == 0 {
		panic("jsstring: release of an already-freed heap string")
	}
	s.heap.refcount--
	if s.heap.refcount == 0 {
		s.heap.latin1 = nil
		s.heap.utf16 = nil
	}
}

// RefCount reports the current reference count of a heap handle. For a
// static handle it returns -1, representing the spec's "infinite" refcount.
func (s String) RefCount() int32 {
	if s.heap == nil {
		return -1
	}
	return s.heap.refcount
}

// Equals reports whether s and o have the same code-unit sequence,
// independent of encoding (spec.md §3.4, §8.2 property 3).
func (s String) Equals(o String) bool {
	if s.stat != nil && o.stat != nil {
		return s.stat == o.stat
	}
	if s.Len() != o.Len() {
		return false
	}
	for i, n := 0, s.Len(); i < n; i++ {
		if s.At(i) != o.At(i) {
			return false
		}
	}
	return true
}

// Cmp returns -1, 0 or +1 according to code-unit lexicographic order.
func (s String) Cmp(o String) int {
	n, m := s.Len(), o.Len()
	for i := 0; i < n && i < m; i++ {
		a, b := s.At(i), o.At(i)
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	switch {
	case n < m:
		return -1
	case n > m:
		return 1
	default:
		return 0
	}
}

// Hash computes an FNV-1a hash over the code-unit sequence. Equal strings
// hash equal regardless of encoding (spec.md §4.2.1 "hash").
func (s String) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i, n := 0, s.Len(); i < n; i++ {
		cu := s.At(i)
		h ^= uint64(cu & 0xff)
		h *= prime64
		h ^= uint64(cu >> 8)
		h *= prime64
	}
	return h
}

// String implements fmt.Stringer for debugging: it renders the contents as a
// quoted, lossily-converted Go string. It is not part of the public string
// encoding boundary (see ToUTF8).
func (s String) String() string {
	out, _ := s.ToUTF8(Lossy)
	var b strings.Builder
	fmt.Fprintf(&b, "%q", out)
	return b.String()
}
