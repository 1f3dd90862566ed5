package isa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFromDocumentsLogicOrderAndSpecificity exercises the structural
// properties of a compiled MachineDescription: Logic-kind spaces are
// ordered narrowest-word-first (SPEC_FULL §4.G mixed-width decoding),
// and patterns within a space are sorted most-specific mask first.
func TestFromDocumentsLogicOrderAndSpecificity(t *testing.T) {
	docs := []*Document{{
		Path: "test.isa",
		Items: []Item{
			{Kind: ItemSpace, Space: &SpaceDecl{Name: "wide", Kind: KindLogic, WordBits: 32}},
			{Kind: ItemSpace, Space: &SpaceDecl{Name: "narrow", Kind: KindLogic, WordBits: 16}},
			{Kind: ItemInstruction, Instruction: &InstructionDecl{
				Space: "wide", Name: "op.broad", Operands: nil,
				Mask: &InstructionMask{Fields: []MaskField{
					{Selector: MaskFieldSelector{BitExpr: "@(0..1)"}, Value: 0b10},
				}},
			}},
			{Kind: ItemInstruction, Instruction: &InstructionDecl{
				Space: "wide", Name: "op.specific", Operands: nil,
				Mask: &InstructionMask{Fields: []MaskField{
					{Selector: MaskFieldSelector{BitExpr: "@(0..5)"}, Value: 0b101010},
				}},
			}},
		},
	}}

	m, err := FromDocuments(docs)
	require.NoError(t, err)
	require.Equal(t, []string{"narrow", "wide"}, m.LogicOrder)

	require.Len(t, m.Patterns["wide"], 2)
	require.Equal(t, "op.specific", m.Instructions[m.Patterns["wide"][0].InstructionIdx].Name)
	require.Greater(t, m.Patterns["wide"][0].Specificity, m.Patterns["wide"][1].Specificity)
}

// TestFromDocumentsRejectsUnknownSpace exercises the error path when an
// instruction references a space that was never declared.
func TestFromDocumentsRejectsUnknownSpace(t *testing.T) {
	docs := []*Document{{
		Items: []Item{
			{Kind: ItemInstruction, Instruction: &InstructionDecl{Space: "ghost", Name: "op"}},
		},
	}}
	_, err := FromDocuments(docs)
	require.Error(t, err)
}
