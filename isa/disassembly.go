package isa

import "fmt"

// DecodedInstruction is one disassembled instruction (spec.md §4.H /
// §8 scenario 1's expected {address, mnemonic, operands, display}
// shape). A selected-but-unmatched word decodes to Mnemonic "unknown"
// with its raw hex value as its sole operand and no Display (§4.G:169,
// §7:240).
type DecodedInstruction struct {
	Address  uint64
	Space    string
	Mnemonic string
	Operands []string
	Display  string
	Length   int
}

// Disassembly is the thin harness over a compiled MachineDescription
// (SPEC_FULL §4.H), grounded on original_source/src/soc/isa/machine/
// disassembly.rs's Disassembler::run loop.
type Disassembly struct {
	Machine *MachineDescription
	// OnlySpace, if non-empty, restricts decoding to the named Logic
	// space instead of walking LogicOrder — the CLI's "-space" flag.
	OnlySpace string
}

func NewDisassembly(m *MachineDescription) *Disassembly { return &Disassembly{Machine: m} }

// DisassembleFrom walks data starting at baseAddr. At each position,
// selectSpace commits to the first Logic space (in ascending word-width
// order) whose word fits in the remaining bytes and whose Enable
// predicate accepts it — space *selection* never looks at whether any
// instruction pattern matches. Once a space is selected, decodeOne
// either matches a pattern within it or emits the "unknown" fallback;
// either way the loop advances by that space's word width. If no space
// can be selected (every Logic space rejects the word, or the remaining
// bytes are too few for any space's whole word), the loop stops and
// returns the partial listing — never an error (spec.md §4.G:164,
// §7:238; original_source's disassembly.rs:74 `break`s the same way).
func (d *Disassembly) DisassembleFrom(data []byte, baseAddr uint64) ([]DecodedInstruction, error) {
	var out []DecodedInstruction
	addr := baseAddr
	pos := 0
	for pos < len(data) {
		space, nBytes, err := d.selectSpace(data[pos:])
		if err != nil {
			return nil, err
		}
		if space == "" {
			break
		}
		decoded, err := d.decodeOne(space, nBytes, data[pos:pos+nBytes], addr)
		if err != nil {
			return nil, err
		}
		out = append(out, *decoded)
		pos += nBytes
		addr += uint64(nBytes)
	}
	return out, nil
}

// selectSpace picks the first Logic space (in ascending word-width
// order) for which len(data) covers a whole word and whose Enable
// predicate, if any, accepts that word. Pattern matching plays no part
// in this choice (SPEC_FULL §4.G, original_source's select_space at
// disassembly.rs:199-211).
func (d *Disassembly) selectSpace(data []byte) (string, int, error) {
	for _, spaceName := range d.Machine.LogicOrder {
		if d.OnlySpace != "" && spaceName != d.OnlySpace {
			continue
		}
		space := d.Machine.Spaces[spaceName]
		nBytes := space.WordBits / 8
		if nBytes <= 0 || nBytes > len(data) {
			continue
		}
		if space.Enable != nil {
			word := decodeWord(data[:nBytes], space.Endian)
			ok, err := space.Enable.Evaluate(word)
			if err != nil {
				return "", 0, err
			}
			if !ok {
				continue
			}
		}
		return spaceName, nBytes, nil
	}
	return "", 0, nil
}

// decodeOne matches data (exactly nBytes, the already-selected space's
// word width) against space's instruction patterns, falling back to an
// "unknown" entry when nothing matches (§4.G:169, §7:240, original
// disassembly.rs:92-100).
func (d *Disassembly) decodeOne(spaceName string, nBytes int, data []byte, addr uint64) (*DecodedInstruction, error) {
	space := d.Machine.Spaces[spaceName]
	word := decodeWord(data, space.Endian)
	pattern := matchPattern(d.Machine.Patterns[spaceName], word)
	if pattern == nil {
		return &DecodedInstruction{
			Address:  addr,
			Space:    spaceName,
			Mnemonic: "unknown",
			Operands: []string{fmt.Sprintf("0x%0*X", nBytes*2, word)},
			Length:   nBytes,
		}, nil
	}
	instr := d.Machine.Instructions[pattern.InstructionIdx]
	var form *FormInfo
	if instr.Form != "" {
		form = space.Forms[instr.Form]
	}
	operandValues := make([]string, len(pattern.OperandNames))
	for i, name := range pattern.OperandNames {
		if form == nil {
			continue
		}
		fe, ok := form.Subfield(name)
		if !ok {
			continue
		}
		val, err := d.Machine.formatOperand(fe, word)
		if err != nil {
			return nil, err
		}
		operandValues[i] = val
	}
	renderer := newDisplayRenderer(d.Machine, form, pattern, word, operandValues)
	display, err := renderer.Render()
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{
		Address:  addr,
		Space:    spaceName,
		Mnemonic: instr.Name,
		Operands: operandValues,
		Display:  display,
		Length:   nBytes,
	}, nil
}

// matchPattern returns the first (highest-specificity, per
// buildPatterns' sort) pattern whose mask/value matches word.
func matchPattern(patterns []*InstructionPattern, word uint64) *InstructionPattern {
	for _, p := range patterns {
		if word&p.Mask == p.Value {
			return p
		}
	}
	return nil
}

// decodeWord folds nBytes raw bytes into a uint64 per the space's
// declared endianness.
func decodeWord(b []byte, endian Endianness) uint64 {
	var v uint64
	if endian == Big {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
