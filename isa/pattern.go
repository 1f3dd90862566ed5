package isa

import (
	"fmt"
	"math/bits"
)

// Instruction is one compiled instruction declaration.
type Instruction struct {
	Space    string
	Name     string
	Form     string
	Operands []string
	Display  string
	Operator string
}

// InstructionPattern is the mask/value entry the decode loop matches
// candidate words against (SPEC_FULL §4.G).
type InstructionPattern struct {
	InstructionIdx int
	Space          string
	Form           string
	Mask           uint64
	Value          uint64
	OperandNames   []string
	Display        string
	Operator       string
	Specificity    int
}

// buildPattern resolves each MaskField against either a named form
// subfield or an ad-hoc bit spec, accumulating (mask, value). A later
// field overlapping earlier mask bits with a different literal warns
// and honors the last writer (SPEC_FULL §4.G), grounded on
// original_source/isa/machine.rs's build_pattern / isa/machine/
// disassembly.rs's identical accumulation logic (the "xo_masks_overlap"
// PowerPC test exercises exactly this path).
func buildPattern(instrIdx int, instr *InstructionDecl, form *FormInfo, wordBits int) (*InstructionPattern, error) {
	var mask, value uint64
	if instr.Mask != nil {
		for _, mf := range instr.Mask.Fields {
			fieldMask, fieldValue, err := resolveMaskField(mf, form, wordBits)
			if err != nil {
				return nil, err
			}
			if overlap := mask & fieldMask; overlap != 0 {
				if (value & overlap) != (fieldValue & overlap) {
					logger.Printf("isa: instruction %q: mask field overrides previously set bits; treating as alias", instr.Name)
				}
			}
			mask |= fieldMask
			value = (value &^ fieldMask) | (fieldValue & fieldMask)
		}
	}

	var operandNames []string
	if form != nil {
		operandNames = form.OperandOrder
	} else {
		operandNames = instr.Operands
	}

	display := instr.Display
	if display == "" && form != nil {
		display = form.Display
	}

	return &InstructionPattern{
		InstructionIdx: instrIdx,
		Space:          instr.Space,
		Form:           instr.Form,
		Mask:           mask,
		Value:          value,
		OperandNames:   operandNames,
		Display:        display,
		Operator:       instr.Operator,
		Specificity:    bits.OnesCount64(mask),
	}, nil
}

func resolveMaskField(mf MaskField, form *FormInfo, wordBits int) (mask uint64, value uint64, err error) {
	if mf.Selector.FieldName != "" {
		if form == nil {
			return 0, 0, Machine(fmt.Sprintf("mask field %q: instruction has no form", mf.Selector.FieldName))
		}
		fe, ok := form.Subfield(mf.Selector.FieldName)
		if !ok {
			return 0, 0, Machine(fmt.Sprintf("mask field: unknown form subfield %q", mf.Selector.FieldName))
		}
		return fe.Spec.EncodeConstant(mf.Value)
	}
	if mf.Selector.BitExpr != "" {
		spec, err := specFromAdHoc(wordBits, mf.Selector.BitExpr)
		if err != nil {
			return 0, 0, err
		}
		return spec.EncodeConstant(mf.Value)
	}
	return 0, 0, Machine("mask field: empty selector")
}
