package isa

import "testing"

func TestFormatRegisterDisplay(t *testing.T) {
	cases := []struct {
		template string
		value    uint64
		want     string
	}{
		{"r%d", 5, "r5"},
		{"0x%04x", 0xAB, "0x00ab"},
		{"0x%04X", 0xAB, "0x00AB"},
		{"100%%", 0, "100%"},
	}
	for _, c := range cases {
		if got := FormatRegisterDisplay(c.template, c.value); got != c.want {
			t.Errorf("FormatRegisterDisplay(%q, %d) = %q, want %q", c.template, c.value, got, c.want)
		}
	}
}

func TestFormatImmediate(t *testing.T) {
	cases := []struct {
		value     uint64
		dataWidth int
		want      string
	}{
		{0, 16, "0x0000"},
		{0x1234, 16, "0x1234"},
		{0x3FF, 10, "0x3FF"},  // width ceil(10/4)=3 digits
		{0xFFFF, 10, "0x3FF"}, // high bits above 10 masked off
	}
	for _, c := range cases {
		if got := FormatImmediate(c.value, c.dataWidth); got != c.want {
			t.Errorf("FormatImmediate(%#x, %d) = %q, want %q", c.value, c.dataWidth, got, c.want)
		}
	}
}

func TestEnablePredicateShortCircuitAnd(t *testing.T) {
	expr := &SemanticExpr{
		Kind: ExprBinary, Op: OpLogicalAnd,
		LHS: &SemanticExpr{Kind: ExprIdentifier, Ident: "false"},
		RHS: &SemanticExpr{Kind: ExprBitField, BitSpec: "@(0..31)"},
	}
	pred, err := NewEnablePredicate(32, expr)
	if err != nil {
		t.Fatalf("NewEnablePredicate: %v", err)
	}
	ok, err := pred.Evaluate(0xFFFFFFFF)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ok {
		t.Fatalf("expected false && <anything> to short-circuit to false")
	}
}

func TestEnablePredicateRejectsUnsupportedOperator(t *testing.T) {
	expr := &SemanticExpr{
		Kind: ExprBinary, Op: BinaryOp(99),
		LHS: &SemanticExpr{Kind: ExprLiteral, Literal: 1},
		RHS: &SemanticExpr{Kind: ExprLiteral, Literal: 1},
	}
	if _, err := NewEnablePredicate(32, expr); err == nil {
		t.Fatalf("expected an error for an unsupported operator")
	}
}
