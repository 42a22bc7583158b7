package lower

import (
	"testing"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/types"
)

func name(n string, t types.Descriptor) *ast.NameRef {
	r := &ast.NameRef{Name: n}
	r.SetType(t)
	return r
}

func TestLowerNullSafeFieldGetBecomesConditional(t *testing.T) {
	scope := name("a", types.Ref("pkg.A", nil))
	in := &ast.NullSafeFieldGet{Scope: scope, Field: "b"}

	out := Lower(in)

	cond, ok := out.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected *ast.Conditional, got %T", out)
	}
	binCond, ok := cond.Cond.(*ast.Binary)
	if !ok || binCond.Op != "!=" {
		t.Fatalf("expected a != null guard, got %#v", cond.Cond)
	}
	fg, ok := cond.Then.(*ast.FieldGet)
	if !ok || fg.Field != "b" {
		t.Fatalf("expected Then to be a.b, got %#v", cond.Then)
	}
	if _, ok := cond.Else.(*ast.NullLit); !ok {
		t.Fatalf("expected Else to be null, got %#v", cond.Else)
	}
}

func TestLowerElvisFillsConditionFromLeftOperand(t *testing.T) {
	left := name("a", types.Ref("pkg.A", nil))
	right := name("b", types.Ref("pkg.A", nil))
	in := &ast.Conditional{Cond: nil, Then: left, Else: right}

	out := Lower(in).(*ast.Conditional)

	cond, ok := out.Cond.(*ast.Binary)
	if !ok || cond.Op != "!=" || cond.Left != out.Then {
		t.Fatalf("expected Elvis lowering to test the left operand against null, got %#v", out.Cond)
	}
	if _, ok := cond.Right.(*ast.NullLit); !ok {
		t.Fatalf("expected the Elvis test to compare against null, got %#v", cond.Right)
	}
}

func TestLowerInlineCastBecomesCast(t *testing.T) {
	target := types.Ref("pkg.T", nil)
	in := &ast.InlineCast{TargetType: target, Inner: name("x", types.Descriptor{})}

	out := Lower(in)

	cast, ok := out.(*ast.Cast)
	if !ok {
		t.Fatalf("expected *ast.Cast, got %T", out)
	}
	if !cast.TargetType.Equal(target) {
		t.Fatalf("expected target type to be preserved")
	}
}

func TestLowerDurationLiteralFoldsToMilliseconds(t *testing.T) {
	in := &ast.TemporalDurationLit{Hours: 1, Minutes: 30}

	out := Lower(in)

	lit, ok := out.(*ast.LongLit)
	if !ok {
		t.Fatalf("expected *ast.LongLit, got %T", out)
	}
	want := int64(1*3600000 + 30*60000)
	if lit.Value != want {
		t.Fatalf("expected %d milliseconds, got %d", want, lit.Value)
	}
}

func TestLowerModifyAppendsUpdateCall(t *testing.T) {
	target := name("t", types.Ref("pkg.T", nil))
	stmt := &ast.ExprStmt{Expr: name("x", types.Descriptor{})}
	in := &ast.Modify{Target: target, Stmts: []ast.Node{stmt}}

	out := Lower(in)

	block, ok := out.(*ast.Block)
	if !ok {
		t.Fatalf("expected *ast.Block, got %T", out)
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected original statement plus appended update() call, got %d stmts", len(block.Stmts))
	}
	last, ok := block.Stmts[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected the appended statement to be an ExprStmt, got %T", block.Stmts[1])
	}
	call, ok := last.Expr.(*ast.MethodCall)
	if !ok || call.Name != "update" {
		t.Fatalf("expected an update() call, got %#v", last.Expr)
	}
}

func TestLowerWithDoesNotAppendUpdateCall(t *testing.T) {
	target := name("t", types.Ref("pkg.T", nil))
	stmt := &ast.ExprStmt{Expr: name("x", types.Descriptor{})}
	in := &ast.With{Target: target, Stmts: []ast.Node{stmt}}

	out := Lower(in).(*ast.Block)

	if len(out.Stmts) != 1 {
		t.Fatalf("expected with() to leave the statement list untouched, got %d stmts", len(out.Stmts))
	}
}

func TestLowerIsIdempotent(t *testing.T) {
	scope := name("a", types.Ref("pkg.A", nil))
	in := &ast.NullSafeFieldGet{Scope: scope, Field: "b"}

	once := Lower(in)
	twice := Lower(once)

	if ast.String(twice) != ast.String(once) {
		t.Fatalf("lowering an already-lowered tree changed its shape")
	}
}
