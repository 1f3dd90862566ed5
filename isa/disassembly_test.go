package isa

import "testing"

// buildSingleSpaceMachine compiles one 16-bit Logic space with a single
// instruction pattern matching opcode bits(0..3)==0b0001, for exercising
// DisassembleFrom's unmatched/short-tail behavior in isolation from the
// internal/coredef PowerPC fixture.
func buildSingleSpaceMachine(t *testing.T) *MachineDescription {
	t.Helper()
	docs := []*Document{{
		Path: "test.isa",
		Items: []Item{
			{Kind: ItemSpace, Space: &SpaceDecl{Name: "test", Kind: KindLogic, WordBits: 16, Endian: Big}},
			{Kind: ItemInstruction, Instruction: &InstructionDecl{
				Space: "test", Name: "known",
				Mask: &InstructionMask{Fields: []MaskField{
					{Selector: MaskFieldSelector{BitExpr: "@(0..3)"}, Value: 1},
				}},
			}},
		},
	}}
	m, err := FromDocuments(docs)
	if err != nil {
		t.Fatalf("FromDocuments: %v", err)
	}
	return m
}

// TestDisassembleFromUnknownWord exercises §4.G:169/§7:240: a word that
// is selected into a space (passes the enable-less width check) but
// matches no instruction pattern decodes to an "unknown" entry, and the
// loop continues past it rather than stopping.
func TestDisassembleFromUnknownWord(t *testing.T) {
	m := buildSingleSpaceMachine(t)
	d := NewDisassembly(m)

	// First word: opcode nibble 0b0001 matches "known". Second word:
	// opcode nibble 0b1111 matches nothing.
	data := []byte{0x10, 0x00, 0xF0, 0x00}
	listing, err := d.DisassembleFrom(data, 0x100)
	if err != nil {
		t.Fatalf("DisassembleFrom: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(listing), listing)
	}
	if listing[0].Mnemonic != "known" {
		t.Errorf("entry 0: mnemonic = %q, want %q", listing[0].Mnemonic, "known")
	}
	unk := listing[1]
	if unk.Mnemonic != "unknown" {
		t.Fatalf("entry 1: mnemonic = %q, want %q", unk.Mnemonic, "unknown")
	}
	if unk.Address != 0x102 {
		t.Errorf("entry 1: address = 0x%X, want 0x102", unk.Address)
	}
	if len(unk.Operands) != 1 || unk.Operands[0] != "0xF000" {
		t.Errorf("entry 1: operands = %v, want [0xF000]", unk.Operands)
	}
	if unk.Display != "" {
		t.Errorf("entry 1: display = %q, want empty", unk.Display)
	}
}

// TestDisassembleFromShortTailTerminates exercises §4.G:164/§7:238: a
// trailing partial word (too short for any Logic space's word width)
// ends the loop and returns the partial listing, never an error.
func TestDisassembleFromShortTailTerminates(t *testing.T) {
	m := buildSingleSpaceMachine(t)
	d := NewDisassembly(m)

	// One whole matching word, then one trailing byte short of a
	// full 16-bit word.
	data := []byte{0x10, 0x00, 0xFF}
	listing, err := d.DisassembleFrom(data, 0x200)
	if err != nil {
		t.Fatalf("DisassembleFrom: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 entry (trailing short word dropped), got %d: %+v", len(listing), listing)
	}
	if listing[0].Mnemonic != "known" || listing[0].Address != 0x200 {
		t.Errorf("entry 0: got %+v", listing[0])
	}
}

// TestDisassembleFromNoSpaceSelectedTerminates exercises the same
// terminate-not-error contract when every Logic space's enable
// predicate rejects the remaining data outright (rather than merely
// being too short for it).
func TestDisassembleFromNoSpaceSelectedTerminates(t *testing.T) {
	docs := []*Document{{
		Items: []Item{
			{Kind: ItemSpace, Space: &SpaceDecl{
				Name: "gated", Kind: KindLogic, WordBits: 16, Endian: Big,
				Enable: &SemanticExpr{
					Kind: ExprBinary, Op: OpEq,
					LHS: &SemanticExpr{Kind: ExprBitField, BitSpec: "@(0..3)"},
					RHS: &SemanticExpr{Kind: ExprLiteral, Literal: 0xF},
				},
			}},
			{Kind: ItemInstruction, Instruction: &InstructionDecl{Space: "gated", Name: "op"}},
		},
	}}
	m, err := FromDocuments(docs)
	if err != nil {
		t.Fatalf("FromDocuments: %v", err)
	}
	d := NewDisassembly(m)

	listing, err := d.DisassembleFrom([]byte{0x00, 0x00}, 0x300)
	if err != nil {
		t.Fatalf("DisassembleFrom: %v", err)
	}
	if len(listing) != 0 {
		t.Fatalf("expected an empty listing, got %+v", listing)
	}
}
