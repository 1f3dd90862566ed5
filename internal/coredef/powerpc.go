// Package coredef hand-builds a small PowerPC/VLE ISA document set
// directly against the isa package's AST types, standing in for the
// external lexer/parser/include-resolver scope.md §1 places out of
// bounds for this module. It exists to exercise isa.FromDocuments and
// Disassembly end to end against spec.md §8 scenario 1, grounded on
// original_source/coredefs/powerpc.isa's "addi"/"se_b" declarations
// (the bit layouts below are transcribed from the PowerPC and VLE
// Programming Environments Manuals referenced by that file's header
// comment).
package coredef

import "github.com/lancelot2112/soccore/isa"

// PowerPC returns the compiled machine description for the two logic
// spaces exercised by the mixed 32-bit/16-bit instruction stream in
// spec.md §8 scenario 1: the base 32-bit PowerPC space ("addi") and
// the 16-bit VLE extension space ("se_b"), plus the shared GPR
// register-name space both forms bind "rD"/"rA" through.
func PowerPC() (*isa.MachineDescription, error) {
	doc := &isa.Document{
		Path: "coredef/powerpc.isa",
		Items: []isa.Item{
			{Kind: isa.ItemSpace, Space: &isa.SpaceDecl{
				Name: "GPR",
				Kind: isa.KindRegisterSpace,
			}},
			{Kind: isa.ItemField, Field: &isa.FieldDecl{
				Space: "GPR", Name: "GPR", Start: 0, End: 31, Display: "r%d",
			}},

			{Kind: isa.ItemSpace, Space: &isa.SpaceDecl{
				Name:     "PowerPC",
				Kind:     isa.KindLogic,
				WordBits: 32,
				Endian:   isa.Big,
				// Base 32-bit PowerPC words never carry 0b1110 in their top
				// 4 bits; that nibble is reserved to the VLE 16-bit
				// encoding below, so it discriminates the two word widths
				// the way e200.coredef's space enables do.
				Enable: &isa.SemanticExpr{
					Kind: isa.ExprBinary, Op: isa.OpNe,
					LHS:  &isa.SemanticExpr{Kind: isa.ExprBitField, BitSpec: "@(0..3)"},
					RHS:  &isa.SemanticExpr{Kind: isa.ExprLiteral, Literal: 14},
				},
			}},
			{Kind: isa.ItemForm, Form: &isa.FormDecl{
				Space: "PowerPC",
				Name:  "addi",
				SubFields: []isa.SubFieldDecl{
					{Name: "rD", BitSpec: "@(6..10)", Operations: []isa.SubFieldOp{{Kind: isa.OpRegister, Subtype: "GPR"}}},
					{Name: "rA", BitSpec: "@(11..15)", Operations: []isa.SubFieldOp{{Kind: isa.OpRegister, Subtype: "GPR"}}},
					{Name: "SIMM", BitSpec: "@(16..31)", Operations: []isa.SubFieldOp{{Kind: isa.OpImmediate}}},
				},
			}},
			{Kind: isa.ItemInstruction, Instruction: &isa.InstructionDecl{
				Space: "PowerPC",
				Name:  "addi",
				Form:  "addi",
				Mask: &isa.InstructionMask{Fields: []isa.MaskField{
					{Selector: isa.MaskFieldSelector{BitExpr: "@(0..5)"}, Value: 14},
				}},
			}},

			{Kind: isa.ItemSpace, Space: &isa.SpaceDecl{
				Name:     "VLE",
				Kind:     isa.KindLogic,
				WordBits: 16,
				Endian:   isa.Big,
				// 16-bit VLE instructions carry 0b1110 in their top 4 bits
				// (se_b's opcode 58 == 0b111010); any other value is the
				// first half-word of a 32-bit base PowerPC instruction.
				Enable: &isa.SemanticExpr{
					Kind: isa.ExprBinary, Op: isa.OpEq,
					LHS:  &isa.SemanticExpr{Kind: isa.ExprBitField, BitSpec: "@(0..3)"},
					RHS:  &isa.SemanticExpr{Kind: isa.ExprLiteral, Literal: 14},
				},
			}},
			{Kind: isa.ItemForm, Form: &isa.FormDecl{
				Space: "VLE",
				Name:  "se_b",
				SubFields: []isa.SubFieldDecl{
					{Name: "imm10", BitSpec: "@(6..15)", Operations: []isa.SubFieldOp{{Kind: isa.OpImmediate}}},
				},
			}},
			{Kind: isa.ItemInstruction, Instruction: &isa.InstructionDecl{
				Space: "VLE",
				Name:  "se_b",
				Form:  "se_b",
				Mask: &isa.InstructionMask{Fields: []isa.MaskField{
					{Selector: isa.MaskFieldSelector{BitExpr: "@(0..5)"}, Value: 58},
				}},
			}},
		},
	}

	return isa.FromDocuments([]*isa.Document{doc})
}
