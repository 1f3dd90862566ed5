package isa

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// MachineDescription is the compiled, ready-to-decode form of a set of
// parsed ISA Documents (SPEC_FULL §4.G), grounded on
// original_source/src/soc/isa/machine.rs's Machine::from_specification
// build pipeline: register spaces, then forms (parent-before-child),
// then register fields, then instructions/patterns, then the logic
// decode-space ordering the disassembler walks.
type MachineDescription struct {
	Spaces       map[string]*SpaceInfo
	LogicOrder   []string
	Patterns     map[string][]*InstructionPattern
	Instructions []*Instruction
}

// FromDocuments compiles docs into a MachineDescription. Documents are
// merged in argument order; within that merged stream, spaces are
// registered before forms/fields/instructions are resolved against
// them (the caller is expected to hand documents in a dependency-safe
// order, matching how original_source's include resolver flattens
// files before handing them to Machine::build).
func FromDocuments(docs []*Document) (*MachineDescription, error) {
	m := &MachineDescription{
		Spaces:   map[string]*SpaceInfo{},
		Patterns: map[string][]*InstructionPattern{},
	}

	var forms []FormDecl
	var fields []FieldDecl
	var instrs []InstructionDecl

	for _, doc := range docs {
		for _, item := range doc.Items {
			switch item.Kind {
			case ItemSpace:
				decl := item.Space
				if _, exists := m.Spaces[decl.Name]; exists {
					return nil, Machine(fmt.Sprintf("duplicate space %q", decl.Name))
				}
				space := newSpaceInfo(decl)
				if decl.Kind == KindLogic && decl.WordBits%8 != 0 {
					return nil, Machine(fmt.Sprintf("space %q: word size %d is not byte-aligned", decl.Name, decl.WordBits))
				}
				if decl.Enable != nil {
					if _, err := space.wordBitsChecked(); err != nil {
						return nil, err
					}
					pred, err := NewEnablePredicate(decl.WordBits, decl.Enable)
					if err != nil {
						return nil, MachineWrap(fmt.Sprintf("space %q: invalid enable expression", decl.Name), err)
					}
					space.Enable = pred
				}
				m.Spaces[decl.Name] = space
			case ItemForm:
				forms = append(forms, *item.Form)
			case ItemField:
				fields = append(fields, *item.Field)
			case ItemInstruction:
				instrs = append(instrs, *item.Instruction)
			}
		}
	}

	for _, decl := range forms {
		space, ok := m.Spaces[decl.Space]
		if !ok {
			return nil, Machine(fmt.Sprintf("form %q: unknown space %q", decl.Name, decl.Space))
		}
		if _, err := space.wordBitsChecked(); err != nil {
			return nil, err
		}
		if err := space.addForm(decl); err != nil {
			return nil, err
		}
	}

	for _, decl := range fields {
		space, ok := m.Spaces[decl.Space]
		if !ok {
			return nil, Machine(fmt.Sprintf("field %q: unknown space %q", decl.Name, decl.Space))
		}
		if err := space.addRegisterField(decl); err != nil {
			return nil, err
		}
	}

	if err := m.buildPatterns(instrs); err != nil {
		return nil, err
	}
	m.buildLogicOrder()
	return m, nil
}

// buildPatterns resolves every instruction concurrently (one goroutine
// per declaration, fanned in via errgroup) since pattern compilation
// only reads the already-finalized space/form tables; SPEC_FULL §12
// wires golang.org/x/sync/errgroup here the way the teacher's own
// concurrent subsystems use errgroup.WithContext for fan-out-fan-in
// with first-error cancellation.
func (m *MachineDescription) buildPatterns(instrs []InstructionDecl) error {
	patterns := make([]*InstructionPattern, len(instrs))
	built := make([]*Instruction, len(instrs))

	g, _ := errgroup.WithContext(context.Background())
	for i := range instrs {
		i := i
		decl := instrs[i]
		g.Go(func() error {
			space, ok := m.Spaces[decl.Space]
			if !ok {
				return Machine(fmt.Sprintf("instruction %q: unknown space %q", decl.Name, decl.Space))
			}
			var form *FormInfo
			if decl.Form != "" {
				form, ok = space.Forms[decl.Form]
				if !ok {
					return Machine(fmt.Sprintf("instruction %q: unknown form %q", decl.Name, decl.Form))
				}
			}
			pattern, err := buildPattern(i, &decl, form, space.WordBits)
			if err != nil {
				return err
			}
			patterns[i] = pattern
			built[i] = &Instruction{
				Space:    decl.Space,
				Name:     decl.Name,
				Form:     decl.Form,
				Operands: decl.Operands,
				Display:  decl.Display,
				Operator: decl.Operator,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.Instructions = built
	for _, p := range patterns {
		m.Patterns[p.Space] = append(m.Patterns[p.Space], p)
	}
	for space, ps := range m.Patterns {
		sorted := append([]*InstructionPattern{}, ps...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Specificity > sorted[j].Specificity })
		m.Patterns[space] = sorted
	}
	return nil
}

// buildLogicOrder sorts Logic-kind spaces by word width then name, the
// order DisassembleFrom walks to pick a decode space for each word
// (SPEC_FULL §4.G/§4.H).
func (m *MachineDescription) buildLogicOrder() {
	for name, space := range m.Spaces {
		if space.Kind == KindLogic {
			m.LogicOrder = append(m.LogicOrder, name)
		}
	}
	sort.Slice(m.LogicOrder, func(i, j int) bool {
		si, sj := m.Spaces[m.LogicOrder[i]], m.Spaces[m.LogicOrder[j]]
		if si.WordBits != sj.WordBits {
			return si.WordBits < sj.WordBits
		}
		return m.LogicOrder[i] < m.LogicOrder[j]
	})
}
