// Package bitfield implements the shared bit-packing primitive used
// uniformly for register fields, symbol-typed memory access, and
// instruction operand extraction (SPEC_FULL §4.B), grounded on
// original_source/src/soc/prog/types/bitfield.rs.
package bitfield

import "math/bits"

const maxBits = 64

type segKind uint8

const (
	segSlice segKind = iota
	segLiteral
)

// segment is one piece of a Spec's segment list. Slices read/write real
// container bits; literals contribute known, fixed bits to the logical
// value without ever touching the container.
type segment struct {
	kind    segKind
	offset  uint16 // LSB-0 offset within the container (slice only)
	width   uint8
	mask    uint64 // container mask (slice only)
	literal uint64
}

// PadKind selects how the top of a read value is extended beyond the
// segments' combined data width.
type PadKind uint8

const (
	PadZero PadKind = iota
	PadSign
)

// Pad describes the spec's optional top-extension. AutoWidth specs
// (the "?0"/"?1" string grammar) resolve Width to the container's
// remaining bits once every segment is known, at Build time.
type Pad struct {
	Kind      PadKind
	Width     uint8
	AutoWidth bool
}

// Spec is the compiled, immutable description of how a logical value is
// packed into a container of ContainerBits bits (SPEC_FULL §4.B / DATA
// MODEL §3).
type Spec struct {
	Segments      []segment
	Pad           *Pad
	Signed        bool
	containerBits int

	mask       uint64 // union of all slice masks
	valuePos   []int  // per-segment bit offset within the data value (MSB-first declaration order)
	sliceRank  []int  // per-segment rank_start (popcount of mask below slice.offset); slices only
	dataWidth  int
	totalWidth int
}

func maskWidth(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

func lowerMask(offsetBits uint16) uint64 {
	if offsetBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << offsetBits) - 1
}

// ContainerBits returns the container width this spec was built for.
func (s *Spec) ContainerBits() int { return s.containerBits }

// DataWidth returns the sum of all segment widths (slices + literals).
func (s *Spec) DataWidth() int { return s.dataWidth }

// TotalWidth returns DataWidth plus the pad width, if any.
func (s *Spec) TotalWidth() int { return s.totalWidth }

// Mask returns the union of all slice masks within the container.
func (s *Spec) Mask() uint64 { return s.mask }

func (s *Spec) rebuildCache() error {
	dataWidth := 0
	for _, seg := range s.Segments {
		dataWidth += int(seg.width)
	}
	if dataWidth > maxBits {
		return &Error{Kind: ErrTotalWidthExceeded, Bits: dataWidth}
	}
	padWidth := 0
	if s.Pad != nil {
		if s.Pad.AutoWidth {
			if dataWidth > s.containerBits {
				return &Error{Kind: ErrPadExceedsContainer, Container: s.containerBits, Data: dataWidth}
			}
			padWidth = s.containerBits - dataWidth
			s.Pad.Width = uint8(padWidth)
		} else {
			padWidth = int(s.Pad.Width)
		}
	}
	total := dataWidth + padWidth
	if total > maxBits {
		return &Error{Kind: ErrTotalWidthExceeded, Bits: total}
	}
	if s.containerBits > 0 && total > s.containerBits {
		return &Error{Kind: ErrPadExceedsContainer, Container: s.containerBits, Data: dataWidth}
	}

	pos := dataWidth
	valuePos := make([]int, len(s.Segments))
	for i, seg := range s.Segments {
		pos -= int(seg.width)
		valuePos[i] = pos
	}

	mask := uint64(0)
	for _, seg := range s.Segments {
		if seg.kind == segSlice {
			mask |= seg.mask
		}
	}

	rank := make([]int, len(s.Segments))
	for i, seg := range s.Segments {
		if seg.kind == segSlice {
			rank[i] = bits.OnesCount64(mask & lowerMask(seg.offset))
		}
	}

	s.valuePos = valuePos
	s.mask = mask
	s.sliceRank = rank
	s.dataWidth = dataWidth
	s.totalWidth = total
	return nil
}

// FromRange builds a single-slice spec equivalent to FromSpecStr's
// "@(lo..hi)" form, a convenience used heavily by the ISA machine for
// ad-hoc bit specs that aren't named form subfields.
func FromRange(containerBits, lo, hi int) (*Spec, error) {
	return NewBuilder().Range(lo, hi).Build(containerBits)
}

// ReadBits extracts the logical (value, width) pair from container, per
// §4.B's read semantics: each segment contributes its bits from
// most-significant to least-significant in declaration order, then pad
// is applied on top.
func (s *Spec) ReadBits(container uint64) (value uint64, width int, err error) {
	data := extractDataPortable(s, container)
	parallel := extractDataParallel(s, container)
	if data != parallel {
		// The BMI2-style fast path must be semantically identical to the
		// portable path (SPEC_FULL §9); a mismatch is an engine bug, not
		// a user-facing condition.
		panic("bitfield: parallel/portable extraction disagree")
	}
	value = applyReadPad(s, data)
	return value, s.totalWidth, nil
}

// ReadFrom extracts the value and sign/zero-extends it to an int64
// according to Signed / a Sign pad.
func (s *Spec) ReadFrom(container uint64) (int64, error) {
	value, width, err := s.ReadBits(container)
	if err != nil {
		return 0, err
	}
	if s.Signed || (s.Pad != nil && s.Pad.Kind == PadSign) {
		return signExtend(value, width), nil
	}
	return int64(value), nil
}

func signExtend(value uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(value)
	}
	signBit := uint64(1) << uint(width-1)
	if value&signBit != 0 {
		return int64(value | (^uint64(0) << uint(width)))
	}
	return int64(value)
}

func extractDataPortable(s *Spec, container uint64) uint64 {
	var data uint64
	for i, seg := range s.Segments {
		var chunk uint64
		if seg.kind == segSlice {
			chunk = (container & seg.mask) >> seg.offset
		} else {
			chunk = seg.literal
		}
		data |= chunk << uint(s.valuePos[i])
	}
	return data
}

// extractDataParallel mirrors the BMI2 PEXT fast path: gather every
// slice's bits out of the container with a single masked extract, then
// redistribute each slice's bits to its value position using its
// precomputed rank. Go has no portable PEXT intrinsic without cgo/asm
// (DESIGN.md), so pext itself is a bit-loop fallback; the rank-based
// gather/scatter shape is still the one being exercised and validated
// against the portable path above.
func extractDataParallel(s *Spec, container uint64) uint64 {
	gathered := pext(container, s.mask)
	var data uint64
	for i, seg := range s.Segments {
		if seg.kind != segSlice {
			data |= seg.literal << uint(s.valuePos[i])
			continue
		}
		chunk := (gathered >> uint(s.sliceRank[i])) & maskWidth(int(seg.width))
		data |= chunk << uint(s.valuePos[i])
	}
	return data
}

func pext(src, mask uint64) uint64 {
	var result uint64
	var rpos uint
	m := mask
	for m != 0 {
		tz := bits.TrailingZeros64(m)
		if src&(uint64(1)<<uint(tz)) != 0 {
			result |= uint64(1) << rpos
		}
		rpos++
		m &= m - 1
	}
	return result
}

func pdep(src, mask uint64) uint64 {
	var result uint64
	var spos uint
	m := mask
	for m != 0 {
		tz := bits.TrailingZeros64(m)
		if src&(uint64(1)<<spos) != 0 {
			result |= uint64(1) << uint(tz)
		}
		spos++
		m &= m - 1
	}
	return result
}

func applyReadPad(s *Spec, data uint64) uint64 {
	if s.Pad == nil {
		return data
	}
	if s.Pad.Kind == PadZero || s.dataWidth == 0 {
		return data
	}
	topBit := uint64(1) << uint(s.dataWidth-1)
	if data&topBit == 0 {
		return data
	}
	extBits := uint64(s.totalWidth - s.dataWidth)
	extMask := maskWidth(int(extBits)) << uint(s.dataWidth)
	return data | extMask
}

// EncodeConstant builds the (mask, value) pair an instruction pattern
// accumulates for a fixed operand value, per §4.G's "build_pattern":
// mask covers every container bit this spec's slices occupy, value is
// those bits as they would be written for the given logical value.
func (s *Spec) EncodeConstant(value uint64) (mask uint64, encoded uint64, err error) {
	container, err := s.WriteTo(0, value)
	if err != nil {
		return 0, 0, err
	}
	return s.mask, container & s.mask, nil
}

// WriteTo writes value into container according to the spec's segments
// and pad, per §4.B's write semantics.
func (s *Spec) WriteTo(container uint64, value uint64) (uint64, error) {
	if s.totalWidth < 64 && value>>uint(s.totalWidth) != 0 {
		return 0, &Error{Kind: ErrValueTooWide, Bits: s.totalWidth, Total: s.totalWidth}
	}
	if s.Pad != nil {
		if err := checkPadBits(s, value); err != nil {
			return 0, err
		}
	}

	portable, err := writeToPortable(s, container, value)
	if err != nil {
		return 0, err
	}
	parallel, perr := writeToParallel(s, container, value)
	if perr != nil {
		return 0, perr
	}
	if portable != parallel {
		panic("bitfield: parallel/portable write disagree")
	}
	return portable, nil
}

func checkPadBits(s *Spec, value uint64) error {
	if s.totalWidth == s.dataWidth {
		return nil
	}
	extBits := uint64(s.totalWidth - s.dataWidth)
	extMask := maskWidth(int(extBits)) << uint(s.dataWidth)
	ext := value & extMask
	switch s.Pad.Kind {
	case PadZero:
		if ext != 0 {
			return &Error{Kind: ErrPadBitsMismatch}
		}
	case PadSign:
		if s.dataWidth == 0 {
			return nil
		}
		topBit := (value >> uint(s.dataWidth-1)) & 1
		var want uint64
		if topBit != 0 {
			want = extMask
		}
		if ext != want {
			return &Error{Kind: ErrPadBitsMismatch}
		}
	}
	return nil
}

func writeToPortable(s *Spec, container uint64, value uint64) (uint64, error) {
	for i, seg := range s.Segments {
		chunk := (value >> uint(s.valuePos[i])) & maskWidth(int(seg.width))
		if seg.kind == segLiteral {
			if chunk != seg.literal {
				return 0, &Error{Kind: ErrLiteralMismatch, Expected: seg.literal, Actual: chunk, Width: int(seg.width)}
			}
			continue
		}
		container &^= seg.mask
		container |= chunk << seg.offset
	}
	return container, nil
}

func writeToParallel(s *Spec, container uint64, value uint64) (uint64, error) {
	// Build the deposit-source word by packing each slice's chunk at its
	// rank position, then scatter it into the container in one PDEP-style
	// operation (portable fallback, see pdep above).
	var depositSrc uint64
	for i, seg := range s.Segments {
		chunk := (value >> uint(s.valuePos[i])) & maskWidth(int(seg.width))
		if seg.kind == segLiteral {
			if chunk != seg.literal {
				return 0, &Error{Kind: ErrLiteralMismatch, Expected: seg.literal, Actual: chunk, Width: int(seg.width)}
			}
			continue
		}
		depositSrc |= chunk << uint(s.sliceRank[i])
	}
	scattered := pdep(depositSrc, s.mask)
	return (container &^ s.mask) | scattered, nil
}
