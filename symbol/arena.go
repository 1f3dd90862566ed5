// Package symbol implements the type-driven walker that decodes typed
// values out of bus memory (SPEC_FULL §4.F), grounded on
// original_source/src/soc/prog/symbols/walker.rs and the TypeArena shape
// sketched in spec.md §3 DATA MODEL.
package symbol

import "github.com/lancelot2112/soccore/bitfield"

// TypeID is a dense integer identifier into a TypeArena. Once issued it
// is stable for the life of the arena (spec.md §5).
type TypeID int

// Kind tags the variant a TypeRecord holds.
type Kind uint8

const (
	KindScalar Kind = iota
	KindEnum
	KindFixed
	KindPointer
	KindBitField
	KindSequence
	KindAggregate
	KindCallable
	KindDynamic
	KindOpaque
)

// ScalarEncoding distinguishes the primitive interpretation of a Scalar
// record's bytes.
type ScalarEncoding uint8

const (
	Unsigned ScalarEncoding = iota
	Signed
	Floating
	Utf8String
)

// Member is one named field of an Aggregate record, carried with its bit
// offset within the enclosing record — union members simply share
// OffsetBits. Sequences describe their elements through ElementType, not
// Member.
type Member struct {
	Name       string
	Type       TypeID
	OffsetBits int
}

// TypeRecord is one entry in a TypeArena. Only the fields relevant to
// Kind are meaningful; this mirrors the closed tagged-variant set of
// spec.md §3 (Scalar, Enum, Fixed, Pointer, BitField, Sequence,
// Aggregate, Callable/Dynamic/Opaque).
type TypeRecord struct {
	Kind Kind

	// Scalar
	ByteSize int
	Encoding ScalarEncoding

	// Enum / Fixed: byte size of the underlying storage.
	StorageBytes int

	// Pointer
	PointerBytes int
	Target       TypeID

	// BitField
	Spec *bitfield.Spec

	// Sequence
	ElementType TypeID
	Count       *int // nil => dynamic-count, skipped entirely by the walker
	StrideBytes int

	// Aggregate
	Members []Member
}

// ElementCount reports the sequence's element count, or false if
// dynamic (the walker must skip dynamic-count sequences entirely).
func (r *TypeRecord) ElementCount() (int, bool) {
	if r.Count == nil {
		return 0, false
	}
	return *r.Count, true
}

// TypeArena is a flat, append-only record store (spec.md §3, §9 "no
// global mutable state": once a TypeID is issued it is stable).
type TypeArena struct {
	records []TypeRecord
}

func NewTypeArena() *TypeArena { return &TypeArena{} }

// Add appends a record and returns its stable TypeID.
func (a *TypeArena) Add(r TypeRecord) TypeID {
	id := TypeID(len(a.records))
	a.records = append(a.records, r)
	return id
}

func (a *TypeArena) Record(id TypeID) *TypeRecord { return &a.records[id] }

// scalarBits returns the bit width backing a Scalar/Enum/Fixed/Pointer/
// BitField record, used to compute leaf bit_len for Enum and Fixed.
func scalarBits(a *TypeArena, id TypeID) int {
	r := a.Record(id)
	switch r.Kind {
	case KindScalar:
		return r.ByteSize * 8
	case KindEnum, KindFixed:
		return r.StorageBytes * 8
	case KindPointer:
		return r.PointerBytes * 8
	case KindBitField:
		return r.Spec.TotalWidth()
	default:
		return 0
	}
}
