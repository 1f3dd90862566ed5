package isa

import (
	"fmt"
	"strings"

	"github.com/lancelot2112/soccore/bitfield"
)

// OperandKind classifies how a decoded subfield value should be
// formatted (SPEC_FULL §4.G operand decoding).
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandOther
)

// RegisterBinding ties a form subfield to a named register family in a
// (possibly different) Register-kind space, covering both the
// "$space::field" and legacy "reg(Subtype)" reference styles.
type RegisterBinding struct {
	Space string
	Field string
}

// FieldEncoding is one compiled form subfield.
type FieldEncoding struct {
	Name         string
	Spec         *bitfield.Spec
	Operations   []SubFieldOp
	Register     *RegisterBinding
	Kind         OperandKind
	FunctionOnly bool
}

func (f *FieldEncoding) isFunctionOnly() bool { return f.FunctionOnly }

// FormInfo is a reusable field layout shared by several instructions
// (SPEC_FULL §4.G).
type FormInfo struct {
	Name         string
	Fields       []*FieldEncoding
	FieldIndex   map[string]int
	OperandOrder []string
	Display      string
}

func newFormInfo(name string) *FormInfo {
	return &FormInfo{Name: name, FieldIndex: map[string]int{}}
}

// clone returns a deep-enough copy for parent-form inheritance: a child
// form starts as a clone of its parent's encoding map and operand list.
func (f *FormInfo) clone() *FormInfo {
	out := newFormInfo(f.Name)
	out.Fields = append([]*FieldEncoding{}, f.Fields...)
	for k, v := range f.FieldIndex {
		out.FieldIndex[k] = v
	}
	out.OperandOrder = append([]string{}, f.OperandOrder...)
	out.Display = f.Display
	return out
}

func (f *FormInfo) pushField(fe *FieldEncoding) error {
	if _, exists := f.FieldIndex[fe.Name]; exists {
		return Machine(fmt.Sprintf("form %q: duplicate subfield %q", f.Name, fe.Name))
	}
	f.FieldIndex[fe.Name] = len(f.Fields)
	f.Fields = append(f.Fields, fe)
	if !fe.isFunctionOnly() {
		f.OperandOrder = append(f.OperandOrder, fe.Name)
	}
	return nil
}

// Subfield looks up a named subfield.
func (f *FormInfo) Subfield(name string) (*FieldEncoding, bool) {
	idx, ok := f.FieldIndex[name]
	if !ok {
		return nil, false
	}
	return f.Fields[idx], true
}

// RegisterInfo is one architectural register (or ranged register
// family, e.g. GPR0..GPR31) declared in a Register-kind space.
type RegisterInfo struct {
	Name    string
	Lo, Hi  int
	Display string
}

// Format renders value using Display's directive grammar if set
// (SPEC_FULL §13), else the default "{name}{value}" for a ranged family
// or plain "{name}" for a single register.
func (r *RegisterInfo) Format(value uint64) string {
	if r.Display != "" {
		return FormatRegisterDisplay(r.Display, value)
	}
	if r.Hi > r.Lo {
		return fmt.Sprintf("%s%d", r.Name, value)
	}
	return r.Name
}

// SpaceInfo is the compiled form of a SpaceDecl.
type SpaceInfo struct {
	Name      string
	Kind      SpaceKind
	WordBits  int
	Endian    Endianness
	Forms     map[string]*FormInfo
	FormOrder []string
	Registers map[string]*RegisterInfo
	Enable    *EnablePredicate
}

func newSpaceInfo(decl *SpaceDecl) *SpaceInfo {
	return &SpaceInfo{
		Name:      decl.Name,
		Kind:      decl.Kind,
		WordBits:  decl.WordBits,
		Endian:    decl.Endian,
		Forms:     map[string]*FormInfo{},
		Registers: map[string]*RegisterInfo{},
	}
}

// wordBitsChecked errors if WordSize was never declared.
func (s *SpaceInfo) wordBitsChecked() (int, error) {
	if s.WordBits == 0 {
		return 0, Machine(fmt.Sprintf("space %q: missing WordSize attribute", s.Name))
	}
	return s.WordBits, nil
}

func (s *SpaceInfo) addForm(decl FormDecl) error {
	var form *FormInfo
	if decl.Parent != "" {
		parent, ok := s.Forms[decl.Parent]
		if !ok {
			return Machine(fmt.Sprintf("form %q: unknown parent form %q", decl.Name, decl.Parent))
		}
		form = parent.clone()
		form.Name = decl.Name
	} else {
		form = newFormInfo(decl.Name)
	}
	if decl.Display != "" {
		form.Display = decl.Display
	}
	for _, sf := range decl.SubFields {
		spec, err := bitfield.FromSpecStr(s.WordBits, sf.BitSpec)
		if err != nil {
			return MachineWrap(fmt.Sprintf("form %q subfield %q: invalid bit spec", decl.Name, sf.Name), err)
		}
		binding := deriveRegisterBinding(sf)
		fe := &FieldEncoding{
			Name:         sf.Name,
			Spec:         spec,
			Operations:   sf.Operations,
			Register:     binding,
			Kind:         classifyOperandKind(binding, sf.Operations),
			FunctionOnly: sf.FunctionOnly,
		}
		if err := form.pushField(fe); err != nil {
			return err
		}
	}
	if form.Display == "" {
		if tmpl := defaultDisplayTemplate(form); tmpl != "" {
			form.Display = tmpl
		}
	}
	s.Forms[decl.Name] = form
	s.FormOrder = append(s.FormOrder, decl.Name)
	return nil
}

func (s *SpaceInfo) addRegisterField(decl FieldDecl) error {
	if s.Kind != KindRegisterSpace {
		return Machine(fmt.Sprintf("field %q declared outside a Register space", decl.Name))
	}
	s.Registers[decl.Name] = &RegisterInfo{Name: decl.Name, Lo: decl.Start, Hi: decl.End, Display: decl.Display}
	return nil
}

// deriveRegisterBinding tries the "$space::field" context-style
// reference first, then the legacy "reg(Subtype)" form, where Subtype
// names both the target space and the register family within it.
func deriveRegisterBinding(sf SubFieldDecl) *RegisterBinding {
	for _, op := range sf.Operations {
		if op.Kind != OpRegister {
			continue
		}
		if idx := strings.Index(op.Subtype, "::"); idx >= 0 {
			return &RegisterBinding{Space: op.Subtype[:idx], Field: op.Subtype[idx+2:]}
		}
		if op.Subtype != "" {
			return &RegisterBinding{Space: op.Subtype, Field: op.Subtype}
		}
	}
	return nil
}

func classifyOperandKind(binding *RegisterBinding, ops []SubFieldOp) OperandKind {
	if binding != nil {
		return OperandRegister
	}
	for _, op := range ops {
		if op.Kind == OpRegister {
			return OperandRegister
		}
		if op.Kind == OpImmediate || strings.HasPrefix(strings.ToLower(op.Subtype), "imm") {
			return OperandImmediate
		}
	}
	return OperandOther
}

// defaultDisplayTemplate renders "#a, #b, #c" for a form's operand
// order when no explicit display template was given.
func defaultDisplayTemplate(form *FormInfo) string {
	if len(form.OperandOrder) == 0 {
		return ""
	}
	parts := make([]string, len(form.OperandOrder))
	for i, name := range form.OperandOrder {
		parts[i] = "#" + name
	}
	return strings.Join(parts, ", ")
}
