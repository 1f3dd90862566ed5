package isa

import "fmt"

// Error surfaces machine-build-time failures (SPEC_FULL §7): unknown
// space/form/field references, non-byte-aligned word width, unsupported
// enable operator, malformed selectors. The lexer/parser/validation
// errors named by original_source/isa/error.rs (Lexer, Parser,
// Validation, IncludeLoop) are out of scope per spec.md §1; only the
// Machine(reason) kind belongs to this package.
type Error struct {
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("isa: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("isa: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

func Machine(reason string) *Error { return &Error{Reason: reason} }

func MachineWrap(reason string, cause error) *Error {
	return &Error{Reason: reason, Cause: cause}
}
