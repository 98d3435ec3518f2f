package compiler

import (
	"fmt"
	"go/scanner"

	"github.com/mna/ecmacore/lang/token"
)

// Error and ErrorList mirror the same go/scanner aliasing the rest of this
// module uses for diagnostics (lang/resolver): a compile error
// carries a source Position and a message, nothing compiler-specific.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// errorf records a single compile error at pos and returns it; callers
// propagate it up through the CompileExpr/CompileStmt error return rather
// than accumulating a list, since a syntactically valid AST stops compiling
// at the first unsupported construct.
func (c *Compiler) errorf(pos token.Pos, format string, args ...interface{}) error {
	return &Error{Pos: c.file.Position(pos), Msg: fmt.Sprintf(format, args...)}
}
