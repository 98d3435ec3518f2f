package resolver

import "go/scanner"

// Error is a single early-error diagnostic, consistent with the compiler
// package's own use of go/scanner's conventions (see compiler.Error).
type Error = scanner.Error

// ErrorList accumulates every Error found in one Check call; unlike the
// compiler, which surfaces a single terminal error, this pass legitimately
// wants to report more than one problem per file.
type ErrorList = scanner.ErrorList
