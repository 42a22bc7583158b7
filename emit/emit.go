// Package emit is the direct emitter: SPEC_FULL §4.C's "try to produce a
// Program without invoking the fallback compiler" path. It is grounded on
// blastbao-expr/compiler.compiler — same emit/patchJump bookkeeping, same
// addConstant-style pool deduplication — retargeted from a
// bytecode-and-arguments VM instruction stream to this module's
// bytecode.Program.
package emit

import (
	"fmt"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/bytecode"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/errs"
)

// MaxChainDepth bounds how many chained reflective method calls the
// emitter will resolve before giving up and falling back (spec's Open
// Question on chained-call depth, resolved here as a fixed constant
// rather than a cache-on-demand scheme: the reflection cache in
// internal/reflectcache already amortizes the cost per (type, name,
// arity), so raising this bound has no correctness upside, only a
// compile-time one).
const MaxChainDepth = 2

// Rejection is a structured reason the direct emitter declined a tree,
// used by evalc.CompileTraced's Trace to explain itself without
// constructing a full Program first.
type Rejection struct {
	Node   ast.Node
	Reason string
}

func (r Rejection) String() string {
	if r.Node == nil {
		return r.Reason
	}
	return fmt.Sprintf("%s: %s", ast.String(r.Node), r.Reason)
}

// CanEmit reports whether the direct emitter supports every construct in
// n, without emitting anything. It is the capability gate SPEC_FULL §4.C
// requires Compile to consult before attempting direct emission.
func CanEmit(n ast.Node) bool {
	return diagnose(n) == nil
}

// DiagnoseRejection returns the first unsupported construct found in n,
// or nil if CanEmit(n) would return true. It exists so evalc.CompileTraced's
// Trace can report *why* a tree fell back, not just that it did.
func DiagnoseRejection(n ast.Node) *Rejection {
	return diagnose(n)
}

func diagnose(n ast.Node) *Rejection {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.IntLit, *ast.LongLit, *ast.ShortLit, *ast.ByteLit, *ast.DoubleLit,
		*ast.FloatLit, *ast.BoolLit, *ast.StringLit, *ast.NullLit, *ast.CharLit,
		*ast.NameRef, *ast.Empty:
		return nil
	case *ast.BigDecimalLit, *ast.BigIntegerLit:
		return &Rejection{Node: n, Reason: "arbitrary-precision literal requires the fallback path"}
	case *ast.TemporalDurationLit:
		return &Rejection{Node: n, Reason: "temporal duration literal must be lowered before emission"}
	case *ast.MapLiteral, *ast.ListLiteral:
		return &Rejection{Node: n, Reason: "collection literal factory calls are fallback-only"}
	case *ast.NullSafeFieldGet, *ast.NullSafeMethodCall, *ast.InlineCast, *ast.Modify, *ast.With:
		return &Rejection{Node: n, Reason: "desugaring target reached the emitter unlowered"}
	case *ast.ArrayAccess:
		return &Rejection{Node: n, Reason: "generic-erased collection indexing requires the fallback path"}
	case *ast.ObjectNew:
		if len(v.Args) > 1 {
			return &Rejection{Node: n, Reason: "constructors of arity > 1 are fallback-only"}
		}
		return nil
	case *ast.FieldGet:
		return diagnose(v.Scope)
	case *ast.MethodCall:
		if d := diagnose(v.Scope); d != nil {
			return d
		}
		if depth := chainDepth(v); depth > MaxChainDepth {
			return &Rejection{Node: n, Reason: fmt.Sprintf("chained call depth %d exceeds the emitter's bound of %d", depth, MaxChainDepth)}
		}
		for _, a := range v.Args {
			if d := diagnose(a); d != nil {
				return d
			}
		}
		return nil
	case *ast.Unary:
		return diagnose(v.Inner)
	case *ast.Binary:
		if d := diagnose(v.Left); d != nil {
			return d
		}
		return diagnose(v.Right)
	case *ast.Assign:
		if d := diagnose(v.Target); d != nil {
			return d
		}
		return diagnose(v.Value)
	case *ast.Cast:
		return diagnose(v.Inner)
	case *ast.Enclosed:
		return diagnose(v.Inner)
	case *ast.Conditional:
		if d := diagnose(v.Cond); d != nil {
			return d
		}
		if d := diagnose(v.Then); d != nil {
			return d
		}
		return diagnose(v.Else)
	case *ast.ExprStmt:
		return diagnose(v.Expr)
	case *ast.VarDecl:
		return diagnose(v.Init)
	case *ast.If:
		if d := diagnose(v.Cond); d != nil {
			return d
		}
		if d := diagnose(v.Then); d != nil {
			return d
		}
		return diagnose(v.Else)
	case *ast.Block:
		for _, s := range v.Stmts {
			if d := diagnose(s); d != nil {
				return d
			}
		}
		return nil
	case *ast.Return:
		return diagnose(v.Expr)
	default:
		return &Rejection{Node: n, Reason: fmt.Sprintf("unrecognized node type %T", n)}
	}
}

func chainDepth(n ast.Node) int {
	depth := 1
	for {
		mc, ok := n.(*ast.MethodCall)
		if !ok || mc.Scope == nil {
			return depth
		}
		if _, ok := mc.Scope.(*ast.MethodCall); !ok {
			return depth
		}
		depth++
		n = mc.Scope
	}
}

// frame tracks local-slot assignment for one Emit call, the retarget of
// blastbao-expr's compiler.variables/scopes bookkeeping onto a flat slot
// table (this module has no nested-scope shadowing to support: every
// `var` statement or assignment target gets its own permanent slot, and
// a Table declaration is read from the context until it is assigned).
type frame struct {
	table decl.Table
	slots map[string]int
	prog  *bytecode.Program
}

// Emit attempts to directly emit n (already parsed, type-annotated, and
// lowered) against table. It returns a CompileError of KindCompile when
// the tree is outside the emitter's supported subset; the caller
// (package evalc) is expected to fall back to package fallback in that
// case rather than treat this as fatal.
func Emit(n ast.Node, table decl.Table, source string) (*bytecode.Program, error) {
	if rej := diagnose(n); rej != nil {
		return nil, errs.NewCompileError("direct emitter cannot handle this tree", "", rej.String(), nil)
	}
	f := &frame{table: table, slots: map[string]int{}, prog: &bytecode.Program{SourceText: source}}

	body, isBlock := n.(*ast.Block)
	if isBlock {
		if err := f.emitBlock(body); err != nil {
			return nil, err
		}
		f.prog.Emit(bytecode.OpNull, f.prog.AddConstant(nil))
		f.prog.Emit(bytecode.OpReturn, 0)
		return f.prog, nil
	}

	if err := f.emitExpr(n); err != nil {
		return nil, err
	}
	f.prog.Emit(bytecode.OpReturn, 0)
	return f.prog, nil
}

func (f *frame) emitBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := f.emitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) emitStmt(n ast.Node) error {
	switch v := n.(type) {
	case *ast.ExprStmt:
		if err := f.emitExpr(v.Expr); err != nil {
			return err
		}
		f.prog.Emit(bytecode.OpPop, 0)
		return nil
	case *ast.VarDecl:
		slot := f.allocSlot(v.Name)
		if v.Init != nil {
			if err := f.emitExpr(v.Init); err != nil {
				return err
			}
		} else {
			f.prog.Emit(bytecode.OpNull, f.prog.AddConstant(nil))
		}
		f.prog.Emit(bytecode.OpStoreVar, slot)
		return nil
	case *ast.If:
		return f.emitIf(v)
	case *ast.Return:
		if v.Expr == nil {
			f.prog.Emit(bytecode.OpNull, f.prog.AddConstant(nil))
		} else if err := f.emitExpr(v.Expr); err != nil {
			return err
		}
		f.prog.Emit(bytecode.OpReturn, 0)
		return nil
	case *ast.Block:
		return f.emitBlock(v)
	case *ast.Empty:
		return nil
	default:
		// an expression used as a statement in source with no ExprStmt
		// wrapper from the parser; treat it like one.
		if err := f.emitExpr(v); err != nil {
			return err
		}
		f.prog.Emit(bytecode.OpPop, 0)
		return nil
	}
}

func (f *frame) allocSlot(name string) int {
	if s, ok := f.slots[name]; ok {
		return s
	}
	s := f.prog.NumSlots
	f.prog.NumSlots++
	f.slots[name] = s
	return s
}

// endsInReturn reports whether every path through n terminates in a
// Return, the condition under which emitIf omits the trailing jump past
// the else branch (SPEC_FULL §4.C: "omission of the trailing goto when
// both branches return").
func endsInReturn(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Return:
		return true
	case *ast.Block:
		if len(v.Stmts) == 0 {
			return false
		}
		return endsInReturn(v.Stmts[len(v.Stmts)-1])
	case *ast.If:
		return v.Else != nil && endsInReturn(v.Then) && endsInReturn(v.Else)
	default:
		return false
	}
}

func (f *frame) emitIf(n *ast.If) error {
	if err := f.emitExpr(n.Cond); err != nil {
		return err
	}
	elseJump := f.prog.Emit(bytecode.OpJumpIfFalsePop, 0)
	if err := f.emitStmt(n.Then); err != nil {
		return err
	}
	thenReturns := endsInReturn(n.Then)

	if n.Else == nil {
		f.prog.Patch(elseJump, f.prog.Here())
		return nil
	}

	var endJump int
	if !thenReturns {
		endJump = f.prog.Emit(bytecode.OpJump, 0)
	}
	f.prog.Patch(elseJump, f.prog.Here())
	if err := f.emitStmt(n.Else); err != nil {
		return err
	}
	if !thenReturns {
		f.prog.Patch(endJump, f.prog.Here())
	}
	return nil
}
