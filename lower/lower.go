// Package lower is the desugaring pass SPEC_FULL §4.B assigns component
// B: an idempotent rewrite over EIR that eliminates every node kind the
// direct emitter (package emit) and the fallback tree-walker refuse to
// see, per the table below. It runs once between parsing and the
// emit-or-fallback decision.
//
//	source form                    lowered form
//	a!.b / a!.m(x)                 (a != null) ? a.b : null   (Scope node shared, evaluated twice)
//	x#T                            (T) x
//	a ?: b                         a != null ? a : b          (Cond filled from the left operand)
//	12h30m                         a LongLit of total milliseconds
//	modify(t){ ss }                { ss; t.update(); }
//	with(t){ ss }                  { ss }
//
// Map/list literals and big-number literals are left structurally alone
// (only their children are lowered): they are permanently fallback-only,
// per SPEC_FULL §4.C, and the direct emitter's capability gate rejects
// them after this pass runs.
package lower

import (
	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/file"
	"github.com/arborlang/evalc/types"
)

// Lower rewrites n and returns the desugared tree. It is safe to call
// again on its own output: nodes it produces are all fixed points of the
// rewrite rules above.
func Lower(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.NullSafeFieldGet:
		scope := Lower(v.Scope)
		fg := &ast.FieldGet{Scope: scope, Field: v.Field}
		fg.SetLocation(v.Location())
		return lowerNullSafe(scope, fg, v.Location())

	case *ast.NullSafeMethodCall:
		scope := Lower(v.Scope)
		mc := &ast.MethodCall{Scope: scope, Name: v.Name, Args: lowerAll(v.Args)}
		mc.SetLocation(v.Location())
		return lowerNullSafe(scope, mc, v.Location())

	case *ast.InlineCast:
		c := &ast.Cast{TargetType: v.TargetType, Inner: Lower(v.Inner)}
		c.SetType(v.TargetType)
		c.SetLocation(v.Location())
		return c

	case *ast.TemporalDurationLit:
		total := v.Hours*3600000 + v.Minutes*60000 + v.Seconds*1000 + v.Millis
		lit := &ast.LongLit{Value: total}
		lit.SetType(types.Prim(types.Long))
		lit.SetLocation(v.Location())
		return lit

	case *ast.Conditional:
		cond := Lower(v.Cond)
		then := Lower(v.Then)
		els := Lower(v.Else)
		if cond == nil {
			// Elvis form: `a ?: b` parses with Cond unset; the test
			// becomes `a != null`, reusing the left operand (already
			// lowered, as Then).
			null := &ast.NullLit{}
			null.SetType(types.NullDescriptor)
			null.SetLocation(v.Location())
			notNull := &ast.Binary{Op: "!=", Left: then, Right: null}
			notNull.SetType(types.Prim(types.Boolean))
			notNull.SetLocation(v.Location())
			cond = notNull
		}
		out := &ast.Conditional{Cond: cond, Then: then, Else: els}
		out.SetType(v.Type())
		out.SetLocation(v.Location())
		return out

	case *ast.Modify:
		return lowerModifyOrWith(v.Target, v.Stmts, v.Location(), true)

	case *ast.With:
		return lowerModifyOrWith(v.Target, v.Stmts, v.Location(), false)

	case *ast.MapLiteral:
		entries := make([]ast.MapEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = ast.MapEntry{Key: Lower(e.Key), Value: Lower(e.Value)}
		}
		out := &ast.MapLiteral{Entries: entries}
		out.SetType(v.Type())
		out.SetLocation(v.Location())
		return out

	case *ast.ListLiteral:
		out := &ast.ListLiteral{Elements: lowerAll(v.Elements)}
		out.SetType(v.Type())
		out.SetLocation(v.Location())
		return out

	case *ast.FieldGet:
		v.Scope = Lower(v.Scope)
		return v

	case *ast.ArrayAccess:
		v.Scope = Lower(v.Scope)
		v.Index = Lower(v.Index)
		return v

	case *ast.MethodCall:
		v.Scope = Lower(v.Scope)
		v.Args = lowerAll(v.Args)
		return v

	case *ast.ObjectNew:
		v.Args = lowerAll(v.Args)
		return v

	case *ast.Unary:
		v.Inner = Lower(v.Inner)
		return v

	case *ast.Binary:
		v.Left = Lower(v.Left)
		v.Right = Lower(v.Right)
		return v

	case *ast.Assign:
		v.Target = Lower(v.Target)
		v.Value = Lower(v.Value)
		return v

	case *ast.Cast:
		v.Inner = Lower(v.Inner)
		return v

	case *ast.Enclosed:
		v.Inner = Lower(v.Inner)
		return v

	case *ast.ExprStmt:
		v.Expr = Lower(v.Expr)
		return v

	case *ast.VarDecl:
		if v.Init != nil {
			v.Init = Lower(v.Init)
		}
		return v

	case *ast.If:
		v.Cond = Lower(v.Cond)
		v.Then = Lower(v.Then)
		if v.Else != nil {
			v.Else = Lower(v.Else)
		}
		return v

	case *ast.Block:
		for i := range v.Stmts {
			v.Stmts[i] = Lower(v.Stmts[i])
		}
		return v

	case *ast.Return:
		if v.Expr != nil {
			v.Expr = Lower(v.Expr)
		}
		return v

	default:
		// Literals, NameRef, Empty: leaves with nothing to desugar.
		return n
	}
}

func lowerAll(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = Lower(n)
	}
	return out
}

// lowerNullSafe builds the `scope != null ? access : null` conditional
// that a!.b and a!.m(x) desugar to. scope must already be lowered; it is
// referenced twice (once for the null check, once inside access), which
// is only sound because the supported subset's field/method scopes are
// side-effect-transparent to re-evaluate (a NameRef or another FieldGet
// chain, never something with observable side effects on read).
func lowerNullSafe(scope, access ast.Node, loc file.Location) ast.Node {
	right := &ast.NullLit{}
	right.SetType(types.NullDescriptor)
	right.SetLocation(loc)

	cond := &ast.Binary{Op: "!=", Left: scope, Right: right}
	cond.SetType(types.Prim(types.Boolean))
	cond.SetLocation(loc)

	elseNull := &ast.NullLit{}
	elseNull.SetType(types.NullDescriptor)
	elseNull.SetLocation(loc)

	out := &ast.Conditional{Cond: cond, Then: access, Else: elseNull}
	out.SetType(access.Type())
	out.SetLocation(loc)
	return out
}

// lowerModifyOrWith flattens a modify/with block into a plain Block.
// Field and method references inside the block are not implicitly
// rebound to target (see DESIGN.md); callers write `target.field` inside
// the block explicitly, same as anywhere else in the supported subset.
func lowerModifyOrWith(target ast.Node, stmts []ast.Node, loc file.Location, appendUpdate bool) ast.Node {
	target = Lower(target)
	lowered := lowerAll(stmts)
	if appendUpdate {
		call := &ast.MethodCall{Scope: target, Name: "update"}
		call.SetLocation(loc)
		es := &ast.ExprStmt{Expr: call}
		es.SetLocation(loc)
		lowered = append(lowered, es)
	}
	b := &ast.Block{Stmts: lowered}
	b.SetLocation(loc)
	return b
}
