package parser

import (
	"testing"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/types"
)

func tableWith(vars ...decl.Declaration) decl.Table {
	return decl.Table{Kind: decl.MAP, Vars: vars}
}

func TestParseExpressionResolvesDeclaredName(t *testing.T) {
	table := tableWith(decl.Declaration{Name: "a", Type: types.Prim(types.Int)})
	n, err := ParseExpression("a", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nr, ok := n.(*ast.NameRef)
	if !ok || nr.Name != "a" {
		t.Fatalf("expected *ast.NameRef(a), got %#v", n)
	}
	if nr.Type().IsUnknown() {
		t.Fatalf("expected the declared type to be resolved onto the NameRef")
	}
}

func TestParseExpressionRejectsUndeclaredName(t *testing.T) {
	table := tableWith()
	_, err := ParseExpression("doesNotExist", table, nil)
	if err == nil {
		t.Fatalf("expected an error for an undeclared bare name")
	}
}

func TestParseExpressionBinaryPrecedence(t *testing.T) {
	table := tableWith(
		decl.Declaration{Name: "a", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "b", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "c", Type: types.Prim(types.Int)},
	)
	n, err := ParseExpression("a + b * c", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := n.(*ast.Binary)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", n)
	}
	if _, ok := top.Left.(*ast.NameRef); !ok {
		t.Fatalf("expected left operand to be the bare name a, got %#v", top.Left)
	}
	mul, ok := top.Right.(*ast.Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected right operand to be b * c, got %#v", top.Right)
	}
}

func TestParseExpressionTrailingSemicolonTolerated(t *testing.T) {
	table := tableWith(decl.Declaration{Name: "a", Type: types.Prim(types.Boolean)})
	if _, err := ParseExpression("a;", table, nil); err != nil {
		t.Fatalf("unexpected error for a single trailing semicolon: %v", err)
	}
}

func TestParseExpressionRejectsTrailingGarbage(t *testing.T) {
	table := tableWith(decl.Declaration{Name: "a", Type: types.Prim(types.Boolean)})
	if _, err := ParseExpression("a a", table, nil); err == nil {
		t.Fatalf("expected an error for trailing input after the expression")
	}
}

func TestParseBlockProducesStatementSequence(t *testing.T) {
	table := tableWith(
		decl.Declaration{Name: "a", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "b", Type: types.Prim(types.Int)},
	)
	n, err := ParseBlock("a = a + 1; b = b * 2; return a + b;", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	block, ok := n.(*ast.Block)
	if !ok {
		t.Fatalf("expected *ast.Block, got %T", n)
	}
	if len(block.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(block.Stmts))
	}
	if _, ok := block.Stmts[2].(*ast.Return); !ok {
		t.Fatalf("expected the last statement to be a return, got %T", block.Stmts[2])
	}
}

func TestParseVarDeclInfersTypeFromInitializer(t *testing.T) {
	table := tableWith()
	n, err := ParseBlock("var x = 5; return x;", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	block := n.(*ast.Block)
	decl0, ok := block.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", block.Stmts[0])
	}
	if decl0.Type().Primitive != types.Int {
		t.Fatalf("expected x to infer type int, got %#v", decl0.Type())
	}
	ret := block.Stmts[1].(*ast.Return)
	nr, ok := ret.Expr.(*ast.NameRef)
	if !ok || nr.Type().Primitive != types.Int {
		t.Fatalf("expected the later reference to x to resolve to int, got %#v", ret.Expr)
	}
}

func TestParseNumericLiteralSuffixes(t *testing.T) {
	table := tableWith()
	cases := []struct {
		src  string
		want types.PrimitiveTag
	}{
		{"5", types.Int},
		{"5L", types.Long},
		{"5.5", types.Double},
		{"5.5f", types.Float},
		{"5.5d", types.Double},
		{"5s", types.Short},
	}
	for _, c := range cases {
		n, err := ParseExpression(c.src, table, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if n.Type().Primitive != c.want {
			t.Fatalf("%s: expected primitive %v, got %v", c.src, c.want, n.Type().Primitive)
		}
	}
}

func TestParseBigLiterals(t *testing.T) {
	table := tableWith()
	n, err := ParseExpression("10B", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := n.(*ast.BigDecimalLit); !ok {
		t.Fatalf("expected *ast.BigDecimalLit, got %T", n)
	}

	n, err = ParseExpression("10I", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := n.(*ast.BigIntegerLit); !ok {
		t.Fatalf("expected *ast.BigIntegerLit, got %T", n)
	}
}

func TestParseArrayAccess(t *testing.T) {
	table := tableWith(decl.Declaration{Name: "foos", Type: types.GenericRef("java.util.List")})
	n, err := ParseExpression("foos[0]", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aa, ok := n.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("expected *ast.ArrayAccess, got %T", n)
	}
	if _, ok := aa.Index.(*ast.IntLit); !ok {
		t.Fatalf("expected index to be an int literal, got %#v", aa.Index)
	}
}

func TestParseDurationLiteral(t *testing.T) {
	table := tableWith()
	n, err := ParseExpression("1h30m", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dur, ok := n.(*ast.TemporalDurationLit)
	if !ok {
		t.Fatalf("expected *ast.TemporalDurationLit, got %T", n)
	}
	if dur.Hours != 1 || dur.Minutes != 30 {
		t.Fatalf("expected 1h30m, got %+v", dur)
	}
}

func TestParseInstanceOf(t *testing.T) {
	table := tableWith(decl.Declaration{Name: "a", Type: types.Ref("java.lang.Object", nil)})
	n, err := ParseExpression("a instanceof String", table, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != "instanceof" {
		t.Fatalf("expected an instanceof Binary, got %#v", n)
	}
}
