// Package ast defines EIR, the Expression Intermediate Representation: the
// typed, desugared tree the parser produces, the lowering pass rewrites,
// and the emitter/fallback consume. EIR is a tagged sum of plain structs,
// not a class hierarchy with a Visitor: every walk over it (lowering,
// emission, pretty-printing) is a single exhaustive type switch.
package ast

import (
	"fmt"

	"github.com/arborlang/evalc/file"
	"github.com/arborlang/evalc/types"
)

// Node is implemented by every EIR struct. Span and Type are both
// write-once-then-read: the parser sets Span at construction, and the type
// resolver (also part of parsing, per SPEC_FULL §4.A) sets Type before
// lowering ever sees the tree.
type Node interface {
	Location() file.Location
	SetLocation(file.Location)
	Type() types.Descriptor
	SetType(types.Descriptor)
	node()
}

// Base is embedded by every concrete node; it supplies Location/Type
// storage so leaf types only implement node().
type Base struct {
	Loc file.Location
	Typ types.Descriptor
}

func (b *Base) Location() file.Location        { return b.Loc }
func (b *Base) SetLocation(l file.Location)     { b.Loc = l }
func (b *Base) Type() types.Descriptor          { return b.Typ }
func (b *Base) SetType(t types.Descriptor)      { b.Typ = t }
func (*Base) node()                             {}

// ---- Literals ----

type IntLit struct {
	Base
	Value int32
}

type LongLit struct {
	Base
	Value int64
}

type ShortLit struct {
	Base
	Value int16
}

type ByteLit struct {
	Base
	Value int8
}

type DoubleLit struct {
	Base
	Value float64
}

type FloatLit struct {
	Base
	Value float32
}

type BoolLit struct {
	Base
	Value bool
}

type StringLit struct {
	Base
	Value string
}

type NullLit struct{ Base }

type CharLit struct {
	Base
	Value uint16
}

// BigDecimalLit and BigIntegerLit carry their literal text (arbitrary
// precision, so no Go numeric type holds them directly); the fallback path
// parses the text with math/big.
type BigDecimalLit struct {
	Base
	Text string
}

type BigIntegerLit struct {
	Base
	Text string
}

// TemporalDurationLit is the parser's representation of a literal like
// `12h30m`; Lowering folds it into a LongLit holding the total
// milliseconds (no Duration value or combinator call is produced), and
// this node never survives past lowering.
type TemporalDurationLit struct {
	Base
	Hours, Minutes, Seconds, Millis int64
}

type MapEntry struct {
	Key   Node
	Value Node
}

type MapLiteral struct {
	Base
	Entries []MapEntry
}

type ListLiteral struct {
	Base
	Elements []Node
}

// ---- References ----

type NameRef struct {
	Base
	Name string
}

type FieldGet struct {
	Base
	Scope Node
	Field string
}

type MethodCall struct {
	Base
	Scope Node // nil for a bare function-style call
	Name  string
	Args  []Node
}

type ObjectNew struct {
	Base
	TypeName string
	Args     []Node
}

type ArrayAccess struct {
	Base
	Scope Node
	Index Node
}

// ---- Operators ----

type Unary struct {
	Base
	Op    string // "!", "-", "~"
	Inner Node
}

type Binary struct {
	Base
	Op          string
	Left, Right Node
}

type Assign struct {
	Base
	Op     string // "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="
	Target Node   // always a NameRef in the supported subset
	Value  Node
}

type Cast struct {
	Base
	TargetType types.Descriptor
	Inner      Node
}

type Enclosed struct {
	Base
	Inner Node
}

// ---- Statements ----

type ExprStmt struct {
	Base
	Expr Node
}

type VarDecl struct {
	Base
	DeclaredType types.Descriptor // zero value if `var` with inferred type
	Inferred     bool
	Name         string
	Init         Node // nil if uninitialized
}

type If struct {
	Base
	Cond       Node
	Then       Node
	Else       Node // nil if no else branch
}

type Block struct {
	Base
	Stmts []Node
}

type Return struct {
	Base
	Expr Node // nil for bare `return;`
}

type Empty struct{ Base }

// ---- Desugaring targets (post-lowering only) ----

// NullSafeFieldGet and NullSafeMethodCall are what the parser produces for
// `a!.b` / `a!.m(args)`; Lowering rewrites both into a Conditional
// (`a != null ? a.b : null`) and they never reach the emitter. They are
// kept as EIR nodes (rather than lowered in the parser) so that
// idempotence of lowering — lower(lower(x)) == lower(x) — is meaningful:
// a tree containing one of these is "not yet lowered" by construction.
type NullSafeFieldGet struct {
	Base
	Scope Node
	Field string
}

type NullSafeMethodCall struct {
	Base
	Scope Node
	Name  string
	Args  []Node
}

// InlineCast is the parser's representation of `x#T`; Lowering rewrites it
// to a plain Cast.
type InlineCast struct {
	Base
	TargetType types.Descriptor
	Inner      Node
}

// Modify and With are the parser's representation of `modify(t){ stmts }`
// and `with(t){ stmts }`; Lowering flattens both into a Block. Names inside
// the block are not rebound to t as an implicit receiver. Modify
// additionally appends a t.update() call.
type Modify struct {
	Base
	Target Node
	Stmts  []Node
}

type With struct {
	Base
	Target Node
	Stmts  []Node
}

// Conditional is the ternary `cond ? a : b`, including its Elvis form
// `a ?: b` once Lowering has filled in Cond from the left operand.
type Conditional struct {
	Base
	Cond, Then, Else Node
}

// String renders a node back to DSL-like source text. It is used in
// diagnostics (emit's Rejection text and compile/evaluation error
// messages), and is intentionally not a full round-trip pretty-printer
// (see Print in package fallback for that).
func String(n Node) string {
	if n == nil {
		return "<nil>"
	}
	switch v := n.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", v.Value)
	case *LongLit:
		return fmt.Sprintf("%dL", v.Value)
	case *StringLit:
		return fmt.Sprintf("%q", v.Value)
	case *NameRef:
		return v.Name
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", String(v.Left), v.Op, String(v.Right))
	default:
		return fmt.Sprintf("<%T>", n)
	}
}
