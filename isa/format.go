package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRegisterDisplay renders a RegisterInfo.Display directive
// template against a decoded register value. The grammar is a small
// printf-alike: "%d" decimal, "%x"/"%X" lower/upper hex, an optional
// "0" flag plus width before the verb zero-pads ("%02x"), and "%%" is
// a literal percent. Grounded on original_source/isa/machine.rs's
// format_number/next_display_fragment (SPEC_FULL §13).
func FormatRegisterDisplay(template string, value uint64) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '%' {
			b.WriteByte(template[i])
			i++
			continue
		}
		frag, consumed := nextDisplayFragment(template[i:], value)
		b.WriteString(frag)
		i += consumed
	}
	return b.String()
}

func nextDisplayFragment(s string, value uint64) (string, int) {
	j := 1
	if j < len(s) && s[j] == '%' {
		return "%", 2
	}
	zeroPad := false
	width := 0
	if j < len(s) && s[j] == '0' {
		zeroPad = true
		j++
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			width = width*10 + int(s[j]-'0')
			j++
		}
	}
	if j >= len(s) {
		return s[:j], j
	}
	verb := s[j]
	j++
	switch verb {
	case 'd':
		return formatNumber(value, 10, false, width, zeroPad), j
	case 'x':
		return formatNumber(value, 16, false, width, zeroPad), j
	case 'X':
		return formatNumber(value, 16, true, width, zeroPad), j
	default:
		return s[:j], j
	}
}

func formatNumber(value uint64, base int, upper bool, width int, zeroPad bool) string {
	s := strconv.FormatUint(value, base)
	if upper {
		s = strings.ToUpper(s)
	}
	if zeroPad && len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// FormatImmediate renders an immediate operand as "0x"-prefixed hex,
// zero-padded to ceil(dataWidth/4) digits, masked down to dataWidth
// bits first so stray high bits from a wider container never leak
// into the display (SPEC_FULL §13, original_source/isa/machine.rs's
// format_immediate).
func FormatImmediate(value uint64, dataWidth int) string {
	if dataWidth <= 0 {
		return "0x0"
	}
	if dataWidth < 64 {
		value &= (uint64(1) << uint(dataWidth)) - 1
	}
	digits := (dataWidth + 3) / 4
	return fmt.Sprintf("0x%0*X", digits, value)
}

// DisplayRenderer expands an instruction's display template against a
// decoded word, resolving "#op", "#<operand-name>" (looked up against
// the pattern's rendered operand strings), and "##" as a literal "#".
// A token naming an unrendered form subfield falls back to reading it
// straight out of bits and formatting it on the spot. Grounded on
// original_source/isa/machine.rs's DisplayRenderer::render /
// next_display_fragment.
type DisplayRenderer struct {
	machine       *MachineDescription
	form          *FormInfo
	pattern       *InstructionPattern
	bits          uint64
	operandValues []string
}

func newDisplayRenderer(m *MachineDescription, form *FormInfo, pattern *InstructionPattern, bits uint64, operandValues []string) *DisplayRenderer {
	return &DisplayRenderer{machine: m, form: form, pattern: pattern, bits: bits, operandValues: operandValues}
}

// Render expands the pattern's display template.
func (r *DisplayRenderer) Render() (string, error) {
	template := r.pattern.Display
	var b strings.Builder
	i := 0
	for i < len(template) {
		c := template[i]
		if c != '#' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(template) && template[i+1] == '#' {
			b.WriteByte('#')
			i += 2
			continue
		}
		j := i + 1
		for j < len(template) && isIdentChar(template[j]) {
			j++
		}
		ident := template[i+1 : j]
		i = j
		tok, err := r.resolveToken(ident)
		if err != nil {
			return "", err
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

func (r *DisplayRenderer) resolveToken(ident string) (string, error) {
	if ident == "op" {
		return r.pattern.Operator, nil
	}
	for idx, name := range r.pattern.OperandNames {
		if name == ident && idx < len(r.operandValues) {
			return r.operandValues[idx], nil
		}
	}
	if r.form != nil {
		if fe, ok := r.form.Subfield(ident); ok {
			return r.machine.formatOperand(fe, r.bits)
		}
	}
	return "#" + ident, nil
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// formatOperand reads fe's bits out of word and renders them per its
// operand kind: a bound register family is formatted via its
// RegisterInfo.Format, an unbound "reg" operation falls back to
// "r<value>", an immediate renders as hex, and any other kind renders as
// plain decimal.
func (m *MachineDescription) formatOperand(fe *FieldEncoding, word uint64) (string, error) {
	value, _, err := fe.Spec.ReadBits(word)
	if err != nil {
		return "", MachineWrap(fmt.Sprintf("subfield %q: decode failed", fe.Name), err)
	}
	switch fe.Kind {
	case OperandRegister:
		if fe.Register != nil {
			space, ok := m.Spaces[fe.Register.Space]
			if !ok {
				return "", Machine(fmt.Sprintf("subfield %q: unknown register space %q", fe.Name, fe.Register.Space))
			}
			reg, ok := space.Registers[fe.Register.Field]
			if !ok {
				return "", Machine(fmt.Sprintf("subfield %q: unknown register family %q", fe.Name, fe.Register.Field))
			}
			return reg.Format(value), nil
		}
		return fmt.Sprintf("r%d", value), nil
	case OperandImmediate:
		return FormatImmediate(value, fe.Spec.DataWidth()), nil
	default:
		return strconv.FormatUint(value, 10), nil
	}
}
