package emit_test

import (
	"testing"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/emit"
	"github.com/arborlang/evalc/lower"
	"github.com/arborlang/evalc/parser"
	"github.com/arborlang/evalc/types"
	"github.com/arborlang/evalc/vm"
)

func mapTable(vars ...decl.Declaration) decl.Table {
	return decl.Table{Kind: decl.MAP, Vars: vars}
}

func runExpr(t *testing.T, source string, table decl.Table, ctx any) any {
	t.Helper()
	tree, err := parser.ParseExpression(source, table, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tree = lower.Lower(tree)
	prog, err := emit.Emit(tree, table, source)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	result, err := vm.Run(prog, ctx)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return result
}

// TestScenario1BooleanLogic is end-to-end scenario 1 of the spec's seed
// test suite: MAP context, three declarations, a boolean expression.
func TestScenario1BooleanLogic(t *testing.T) {
	table := mapTable(
		decl.Declaration{Name: "influence", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "atWar", Type: types.Prim(types.Boolean)},
		decl.Declaration{Name: "stability", Type: types.Prim(types.Int)},
	)
	source := "influence > 50 && !atWar && stability > 30"

	cases := []struct {
		ctx  map[string]any
		want bool
	}{
		{map[string]any{"influence": int32(75), "atWar": false, "stability": int32(50)}, true},
		{map[string]any{"influence": int32(75), "atWar": true, "stability": int32(50)}, false},
		{map[string]any{"influence": int32(25), "atWar": false, "stability": int32(50)}, false},
	}
	for _, c := range cases {
		got := runExpr(t, source, table, c.ctx)
		if got != c.want {
			t.Errorf("influence=%v atWar=%v stability=%v: got %v, want %v",
				c.ctx["influence"], c.ctx["atWar"], c.ctx["stability"], got, c.want)
		}
	}
}

// TestScenario2IntegerAddition is end-to-end scenario 2.
func TestScenario2IntegerAddition(t *testing.T) {
	table := mapTable(
		decl.Declaration{Name: "a", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "b", Type: types.Prim(types.Int)},
	)
	got := runExpr(t, "a + b", table, map[string]any{"a": int32(10), "b": int32(32)})
	if got != int32(42) {
		t.Fatalf("a + b: got %v, want 42", got)
	}
}

// TestScenario3BlockMutatesBothVariables is end-to-end scenario 3.
func TestScenario3BlockMutatesBothVariables(t *testing.T) {
	table := mapTable(
		decl.Declaration{Name: "a", Type: types.Prim(types.Int)},
		decl.Declaration{Name: "b", Type: types.Prim(types.Int)},
	)
	source := "a = a + 1; b = b * 2; return a + b;"

	tree, err := parser.ParseBlock(source, table, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tree = lower.Lower(tree)
	prog, err := emit.Emit(tree, table, source)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	result, err := vm.Run(prog, map[string]any{"a": int32(3), "b": int32(4)})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != int32(12) {
		t.Fatalf("a=3,b=4 after `a=a+1;b=b*2;return a+b;`: got %v, want 12", result)
	}
}

func TestWideningPromotesIntPlusDoubleToDouble(t *testing.T) {
	table := mapTable(decl.Declaration{Name: "a", Type: types.Prim(types.Int)})
	got := runExpr(t, "a + 1.5", table, map[string]any{"a": int32(2)})
	if got != float64(3.5) {
		t.Fatalf("int + double: got %v (%T), want 3.5", got, got)
	}
}

func TestShortCircuitDoesNotEvaluateRightOperandOfOr(t *testing.T) {
	table := mapTable(decl.Declaration{Name: "a", Type: types.Prim(types.Boolean)})
	got := runExpr(t, "a || (1/0 > 0)", table, map[string]any{"a": true})
	if got != true {
		t.Fatalf("a || (1/0 > 0) with a=true: got %v, want true (no division-by-zero panic)", got)
	}
}

func TestCanEmitRejectsBigDecimalLiteral(t *testing.T) {
	lit := &ast.BigDecimalLit{Text: "0"}
	if emit.CanEmit(lit) {
		t.Fatalf("expected CanEmit to reject a BigDecimal literal (permanent fallback category)")
	}
	rej := emit.DiagnoseRejection(lit)
	if rej == nil {
		t.Fatalf("expected a non-nil Rejection")
	}
}

func TestCanEmitRejectsGenericListIndexing(t *testing.T) {
	n := &ast.ArrayAccess{Scope: &ast.NameRef{Name: "foos"}, Index: &ast.IntLit{Value: 0}}
	if emit.CanEmit(n) {
		t.Fatalf("expected CanEmit to reject ArrayAccess (generic-erasure permanent fallback category)")
	}
}

func TestCanEmitRejectsChainedCallsPastMaxDepth(t *testing.T) {
	inner := &ast.NameRef{Name: "x"}
	var n ast.Node = inner
	for i := 0; i <= emit.MaxChainDepth; i++ {
		n = &ast.MethodCall{Scope: n, Name: "m"}
	}
	if emit.CanEmit(n) {
		t.Fatalf("expected CanEmit to reject a call chain deeper than MaxChainDepth=%d", emit.MaxChainDepth)
	}
}
