package bitfield

// Builder accumulates segments before a container width is known,
// mirroring BitFieldSpecBuilder's .range/.literal/.pad/.signed/.finish
// chain from original_source/bitfield.rs.
type Builder struct {
	segments    []rawSegment
	pad         *Pad
	padSet      bool
	duplicatePad bool
	signed      bool
}

type rawSegment struct {
	kind     segKind
	lo, hi   int
	literal  uint64
	litWidth int
}

func NewBuilder() *Builder { return &Builder{} }

// Range adds a slice described in MSB-0 bit numbering [lo, hi] relative
// to the container width given at Build time.
func (b *Builder) Range(lo, hi int) *Builder {
	b.segments = append(b.segments, rawSegment{kind: segSlice, lo: lo, hi: hi})
	return b
}

// Literal adds a fixed-value segment of width bits contributing known
// bits to the logical value without occupying container space.
func (b *Builder) Literal(value uint64, width int) *Builder {
	b.segments = append(b.segments, rawSegment{kind: segLiteral, literal: value, litWidth: width})
	return b
}

func (b *Builder) Pad(kind PadKind, width int) *Builder {
	if b.padSet {
		b.duplicatePad = true
	}
	b.padSet = true
	b.pad = &Pad{Kind: kind, Width: uint8(width)}
	return b
}

// PadAuto adds a pad whose width is resolved at Build time to whatever
// bits remain in the container once every segment is accounted for —
// the behavior of the "?0"/"?1" string grammar tokens.
func (b *Builder) PadAuto(kind PadKind) *Builder {
	if b.padSet {
		b.duplicatePad = true
	}
	b.padSet = true
	b.pad = &Pad{Kind: kind, AutoWidth: true}
	return b
}

func (b *Builder) Signed() *Builder {
	b.signed = true
	return b
}

// Build finalizes the spec against a container of containerBits bits,
// converting each MSB-0 range into an LSB-0 (offset, width) pair via
// offset = containerBits - 1 - hi, width = hi - lo + 1.
func (b *Builder) Build(containerBits int) (*Spec, error) {
	if containerBits <= 0 || containerBits > maxBits {
		return nil, &Error{Kind: ErrContainerTooWide, Bits: containerBits}
	}
	if b.duplicatePad {
		return nil, &Error{Kind: ErrDuplicatePad}
	}
	if len(b.segments) == 0 {
		b.segments = append(b.segments, rawSegment{kind: segSlice, lo: 0, hi: containerBits - 1})
	}

	spec := &Spec{Signed: b.signed, containerBits: containerBits, Pad: b.pad}
	for _, rs := range b.segments {
		switch rs.kind {
		case segSlice:
			if rs.lo > rs.hi {
				return nil, &Error{Kind: ErrZeroWidthSlice}
			}
			if rs.hi >= containerBits || rs.lo < 0 {
				return nil, &Error{Kind: ErrSliceOutOfRange, Offset: rs.lo, Width: rs.hi - rs.lo + 1}
			}
			width := rs.hi - rs.lo + 1
			if width > maxBits {
				return nil, &Error{Kind: ErrSliceTooWide, Width: width}
			}
			offset := containerBits - 1 - rs.hi
			mask := maskWidth(width) << uint(offset)
			spec.Segments = append(spec.Segments, segment{
				kind:   segSlice,
				offset: uint16(offset),
				width:  uint8(width),
				mask:   mask,
			})
		case segLiteral:
			if rs.litWidth <= 0 {
				return nil, &Error{Kind: ErrZeroWidthSlice}
			}
			if rs.litWidth > maxBits {
				return nil, &Error{Kind: ErrLiteralTooWide, Width: rs.litWidth}
			}
			if rs.litWidth < 64 && rs.literal>>uint(rs.litWidth) != 0 {
				return nil, &Error{Kind: ErrInvalidLiteral}
			}
			spec.Segments = append(spec.Segments, segment{
				kind:    segLiteral,
				width:   uint8(rs.litWidth),
				literal: rs.literal,
			})
		}
	}

	if err := spec.rebuildCache(); err != nil {
		return nil, err
	}
	return spec, nil
}
