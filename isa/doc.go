// Package isa compiles parsed ISA documents into an executable decoder
// (SPEC_FULL §4.G) and provides the thin disassembly harness (§4.H).
// The lexer/parser/include resolver that produces these documents is an
// external collaborator, out of scope per spec.md §1; only the AST
// shapes it would hand to MachineDescription are defined here (spec.md
// §6 EXTERNAL INTERFACES), grounded on
// original_source/src/soc/isa/{machine.rs,machine/*.rs}.
package isa

// SpaceKind distinguishes the three kinds of named ISA scopes.
type SpaceKind uint8

const (
	KindLogic SpaceKind = iota
	KindRegisterSpace
	KindMemory
)

// Endianness mirrors device.Endian for ISA documents that don't import
// the device package directly (keeps this package's AST free-standing,
// matching how the original's parser output has no dependency on the
// runtime bus/device crates).
type Endianness uint8

const (
	Little Endianness = iota
	Big
)

// SpaceDecl is a parsed "space" declaration.
type SpaceDecl struct {
	Name       string
	Kind       SpaceKind
	WordBits   int
	Endian     Endianness
	AddrBits   int
	Enable     *SemanticExpr
}

// SubFieldOpKind tags a subfield operation entry.
type SubFieldOpKind uint8

const (
	OpRegister SubFieldOpKind = iota
	OpImmediate
	OpOther
)

// SubFieldOp is one operation annotation on a subfield declaration
// (e.g. "reg(GPR)" or "immediate").
type SubFieldOp struct {
	Kind    SubFieldOpKind
	Subtype string
}

// SubFieldDecl is one named bit slice inside a form.
type SubFieldDecl struct {
	Name        string
	BitSpec     string
	Operations  []SubFieldOp
	Description string
	// FunctionOnly excludes this subfield from operand_order (it
	// contributes to the encoding but is never rendered as an operand).
	FunctionOnly bool
}

// FormDecl is a reusable field layout shared by several instructions.
type FormDecl struct {
	Space     string
	Name      string
	Parent    string // empty if none
	SubFields []SubFieldDecl
	Display   string // empty if none
}

// MaskFieldSelector selects which bits of an instruction's fixed mask a
// MaskField constrains: by named form subfield, or by an ad-hoc bit
// spec string.
type MaskFieldSelector struct {
	FieldName string // non-empty selects a form subfield by name
	BitExpr   string // non-empty selects an ad-hoc "@(...)" bit spec
}

// MaskField is one fixed-bit constraint contributing to an
// instruction's pattern mask/value.
type MaskField struct {
	Selector MaskFieldSelector
	Value    uint64
}

// InstructionMask is the full set of fixed-bit constraints for one
// instruction.
type InstructionMask struct {
	Fields []MaskField
}

// InstructionDecl is a parsed instruction declaration.
type InstructionDecl struct {
	Space    string
	Name     string
	Form     string // empty if none
	Operands []string
	Display  string // empty if none
	Operator string // empty if none
	Mask     *InstructionMask
}

// FieldDecl is a parsed register-space field declaration.
type FieldDecl struct {
	Space     string
	Name      string
	Start     int
	End       int
	Display   string
	SubFields []SubFieldDecl
}

// ItemKind tags one entry of an IsaSpecification's item list.
type ItemKind uint8

const (
	ItemSpace ItemKind = iota
	ItemForm
	ItemInstruction
	ItemField
)

// Item is a single top-level or space-scoped declaration, matching
// spec.md §6's IsaItem/SpaceMemberDecl union.
type Item struct {
	Kind        ItemKind
	Space       *SpaceDecl
	Form        *FormDecl
	Instruction *InstructionDecl
	Field       *FieldDecl
}

// SemanticExprKind tags a parsed enable-expression node. The grammar is
// deliberately small (§4.G, §9): arithmetic and coercions beyond this
// set are rejected at machine-build time with a Machine error.
type SemanticExprKind uint8

const (
	ExprLiteral SemanticExprKind = iota
	ExprIdentifier
	ExprBitField
	ExprBinary
)

// BinaryOp is restricted to equality and logical connectives; any other
// operator is rejected when compiling an enable expression.
type BinaryOp uint8

const (
	OpEq BinaryOp = iota
	OpNe
	OpLogicalAnd
	OpLogicalOr
)

// SemanticExpr is the parsed (uncompiled) form of a space's "enable"
// expression.
type SemanticExpr struct {
	Kind SemanticExprKind

	Literal uint64 // ExprLiteral
	Ident   string // ExprIdentifier ("true"/"false")
	BitSpec string // ExprBitField: an ad-hoc "@(...)" spec over the decode word

	Op  BinaryOp      // ExprBinary
	LHS *SemanticExpr // ExprBinary
	RHS *SemanticExpr // ExprBinary
}

// Document is one parsed ISA document (spec.md §6 IsaSpecification).
type Document struct {
	Path  string
	Items []Item
}
