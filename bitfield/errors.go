package bitfield

import "fmt"

// Error is the bitfield engine's error taxonomy (SPEC_FULL §7), grounded
// on original_source/src/soc/prog/types/bitfield.rs's BitFieldError enum.
type Error struct {
	Kind     ErrorKind
	Width    int
	Offset   int
	Bits     int
	Expected uint64
	Actual   uint64
	Container int
	Data     int
	Total    int
}

type ErrorKind uint8

const (
	ErrEmptySpec ErrorKind = iota
	ErrInvalidToken
	ErrInvalidNumber
	ErrInvalidLiteral
	ErrLiteralTooWide
	ErrZeroWidthSlice
	ErrSliceTooWide
	ErrSliceOutOfRange
	ErrDuplicatePad
	ErrPadExceedsContainer
	ErrContainerTooWide
	ErrTotalWidthExceeded
	ErrMissingSegments
	ErrPadBitsMismatch
	ErrLiteralMismatch
	ErrValueTooWide
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrEmptySpec:
		return "bitfield: empty spec"
	case ErrInvalidToken:
		return "bitfield: invalid token"
	case ErrInvalidNumber:
		return "bitfield: invalid number"
	case ErrInvalidLiteral:
		return "bitfield: invalid literal"
	case ErrLiteralTooWide:
		return fmt.Sprintf("bitfield: literal too wide (%d bits)", e.Width)
	case ErrZeroWidthSlice:
		return "bitfield: zero-width slice"
	case ErrSliceTooWide:
		return fmt.Sprintf("bitfield: slice too wide (%d bits)", e.Width)
	case ErrSliceOutOfRange:
		return fmt.Sprintf("bitfield: slice out of range (offset %d width %d)", e.Offset, e.Width)
	case ErrDuplicatePad:
		return "bitfield: duplicate pad directive"
	case ErrPadExceedsContainer:
		return fmt.Sprintf("bitfield: pad exceeds container (container %d data %d)", e.Container, e.Data)
	case ErrContainerTooWide:
		return fmt.Sprintf("bitfield: container too wide (%d bits)", e.Bits)
	case ErrTotalWidthExceeded:
		return fmt.Sprintf("bitfield: total width exceeds 64 bits (%d)", e.Bits)
	case ErrMissingSegments:
		return "bitfield: spec has no segments"
	case ErrPadBitsMismatch:
		return "bitfield: pad bits mismatch"
	case ErrLiteralMismatch:
		return fmt.Sprintf("bitfield: literal mismatch (expected %#x got %#x, width %d)", e.Expected, e.Actual, e.Width)
	case ErrValueTooWide:
		return fmt.Sprintf("bitfield: value too wide for %d of %d total bits", e.Bits, e.Total)
	default:
		return "bitfield: unknown error"
	}
}
