package isa

import "github.com/lancelot2112/soccore/bitfield"

// EnableExprKind tags a compiled enable-expression node.
type EnableExprKind uint8

const (
	enLiteral EnableExprKind = iota
	enBool
	enBitField
	enBinary
)

// EnableExpr is the compiled form of a SemanticExpr, restricted to the
// grammar SPEC_FULL §4.G/§9 allow: literals, boolean identifiers, an
// ad-hoc bit-spec read, and Eq/Ne/LogicalAnd/LogicalOr binary nodes.
type EnableExpr struct {
	kind    EnableExprKind
	literal uint64
	boolean bool
	spec    *bitfield.Spec
	op      BinaryOp
	lhs     *EnableExpr
	rhs     *EnableExpr
}

// EnableValue is the result of evaluating an EnableExpr.
type EnableValue struct {
	IsBool bool
	Number uint64
	Bool   bool
}

// EnablePredicate wraps a compiled EnableExpr for a Logic space.
type EnablePredicate struct {
	expr *EnableExpr
}

// NewEnablePredicate compiles a parsed SemanticExpr against a decode
// word of wordBits bits, rejecting any operator outside
// Eq/Ne/LogicalAnd/LogicalOr.
func NewEnablePredicate(wordBits int, expr *SemanticExpr) (*EnablePredicate, error) {
	compiled, err := compileEnableExpr(wordBits, expr)
	if err != nil {
		return nil, err
	}
	return &EnablePredicate{expr: compiled}, nil
}

func compileEnableExpr(wordBits int, expr *SemanticExpr) (*EnableExpr, error) {
	switch expr.Kind {
	case ExprLiteral:
		return &EnableExpr{kind: enLiteral, literal: expr.Literal}, nil
	case ExprIdentifier:
		switch expr.Ident {
		case "true":
			return &EnableExpr{kind: enBool, boolean: true}, nil
		case "false":
			return &EnableExpr{kind: enBool, boolean: false}, nil
		default:
			return nil, Machine("enable expression: unsupported identifier " + expr.Ident)
		}
	case ExprBitField:
		spec, err := bitfield.FromSpecStr(wordBits, expr.BitSpec)
		if err != nil {
			return nil, MachineWrap("enable expression: invalid bit spec", err)
		}
		return &EnableExpr{kind: enBitField, spec: spec}, nil
	case ExprBinary:
		switch expr.Op {
		case OpEq, OpNe, OpLogicalAnd, OpLogicalOr:
		default:
			return nil, Machine("enable expression: unsupported operator")
		}
		lhs, err := compileEnableExpr(wordBits, expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := compileEnableExpr(wordBits, expr.RHS)
		if err != nil {
			return nil, err
		}
		return &EnableExpr{kind: enBinary, op: expr.Op, lhs: lhs, rhs: rhs}, nil
	default:
		return nil, Machine("enable expression: unsupported node")
	}
}

// Evaluate reports whether the predicate holds for the given masked
// decode word.
func (p *EnablePredicate) Evaluate(word uint64) (bool, error) {
	v, err := p.expr.evaluate(word)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

func (v EnableValue) truthy() bool {
	if v.IsBool {
		return v.Bool
	}
	return v.Number != 0
}

func (e *EnableExpr) evaluate(word uint64) (EnableValue, error) {
	switch e.kind {
	case enLiteral:
		return EnableValue{Number: e.literal}, nil
	case enBool:
		return EnableValue{IsBool: true, Bool: e.boolean}, nil
	case enBitField:
		value, _, err := e.spec.ReadBits(word)
		if err != nil {
			return EnableValue{}, err
		}
		return EnableValue{Number: value}, nil
	case enBinary:
		// short-circuit AND/OR
		if e.op == OpLogicalAnd {
			lhs, err := e.lhs.evaluate(word)
			if err != nil {
				return EnableValue{}, err
			}
			if !lhs.truthy() {
				return EnableValue{IsBool: true, Bool: false}, nil
			}
			rhs, err := e.rhs.evaluate(word)
			if err != nil {
				return EnableValue{}, err
			}
			return EnableValue{IsBool: true, Bool: rhs.truthy()}, nil
		}
		if e.op == OpLogicalOr {
			lhs, err := e.lhs.evaluate(word)
			if err != nil {
				return EnableValue{}, err
			}
			if lhs.truthy() {
				return EnableValue{IsBool: true, Bool: true}, nil
			}
			rhs, err := e.rhs.evaluate(word)
			if err != nil {
				return EnableValue{}, err
			}
			return EnableValue{IsBool: true, Bool: rhs.truthy()}, nil
		}
		lhs, err := e.lhs.evaluate(word)
		if err != nil {
			return EnableValue{}, err
		}
		rhs, err := e.rhs.evaluate(word)
		if err != nil {
			return EnableValue{}, err
		}
		eq := lhs.Number == rhs.Number && lhs.Bool == rhs.Bool && lhs.IsBool == rhs.IsBool
		if e.op == OpEq {
			return EnableValue{IsBool: true, Bool: eq}, nil
		}
		return EnableValue{IsBool: true, Bool: !eq}, nil
	}
	return EnableValue{}, Machine("enable expression: unreachable node")
}
