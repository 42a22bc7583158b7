package fallback

import (
	"testing"

	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/lower"
	"github.com/arborlang/evalc/parser"
	"github.com/arborlang/evalc/types"
)

func compileBlock(t *testing.T, source string, table decl.Table) *Program {
	t.Helper()
	tree, err := parser.ParseBlock(source, table, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Compile(lower.Lower(tree), table)
}

func compileExpr(t *testing.T, source string, table decl.Table) *Program {
	t.Helper()
	tree, err := parser.ParseExpression(source, table, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Compile(lower.Lower(tree), table)
}

// TestScenario4BigDecimalAccumulation is end-to-end scenario 4 of the
// spec's seed suite: repeated compound assignment against a BigDecimal
// local widens the literal operand and accumulates exactly.
func TestScenario4BigDecimalAccumulation(t *testing.T) {
	table := decl.Table{Kind: decl.MAP}
	prog := compileBlock(t, "var s = 0B; s += 1; s += 1; return s;", table)

	result, err := prog.Eval(map[string]any{})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if got := toDisplayString(result); got != "2" {
		t.Fatalf("expected accumulated BigDecimal to render \"2\", got %q", got)
	}
}

// TestScenario5GenericListFieldConcat is end-to-end scenario 5: indexing
// into a generic-erased List and concatenating a string field off each
// element, a construct emit.CanEmit permanently rejects.
func TestScenario5GenericListFieldConcat(t *testing.T) {
	table := decl.Table{
		Kind: decl.MAP,
		Vars: []decl.Declaration{
			{Name: "foos", Type: types.GenericRef("java.util.List")},
		},
	}
	prog := compileExpr(t, `foos[0].name + foos[1].name`, table)

	ctx := map[string]any{
		"foos": []any{
			map[string]any{"name": "Alice"},
			map[string]any{"name": "Bob"},
		},
	}
	result, err := prog.Eval(ctx)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != "AliceBob" {
		t.Fatalf("expected \"AliceBob\", got %v", result)
	}
}

func TestStringConcatWithNonStringOperand(t *testing.T) {
	table := decl.Table{Kind: decl.MAP, Vars: []decl.Declaration{
		{Name: "a", Type: types.Prim(types.Int)},
	}}
	prog := compileExpr(t, `"count: " + a`, table)

	result, err := prog.Eval(map[string]any{"a": int32(7)})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != "count: 7" {
		t.Fatalf("expected \"count: 7\", got %q", result)
	}
}

func TestEvalWithBindsNamedLocalAndContext(t *testing.T) {
	table := decl.Table{
		Kind: decl.POJO,
		Vars: []decl.Declaration{
			{Name: "t", Type: types.Ref("test.Box", nil)},
		},
		With: "t",
	}
	prog := compileExpr(t, `t`, table)

	type box struct{ V int32 }
	b := &box{V: 9}
	result, err := prog.EvalWith(b)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != b {
		t.Fatalf("expected EvalWith to bind the with-target under its declared local name")
	}

	field := compileExpr(t, `V`, decl.Table{
		Kind: decl.POJO,
		Vars: []decl.Declaration{
			{Name: "t", Type: types.Ref("test.Box", nil)},
			{Name: "V", Type: types.Prim(types.Int)},
		},
		With: "t",
	})
	v, err := field.EvalWith(b)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if v != int32(9) {
		t.Fatalf("expected EvalWith to bind the with-target as the POJO context, got %v", v)
	}
}

func TestEvalWithFailsWithoutDeclaredTarget(t *testing.T) {
	table := decl.Table{Kind: decl.MAP}
	prog := compileExpr(t, `1`, table)

	if _, err := prog.EvalWith(map[string]any{}); err == nil {
		t.Fatalf("expected EvalWith to fail when no With target is declared")
	}
}

func TestShortCircuitAndDoesNotEvaluateRightOperand(t *testing.T) {
	table := decl.Table{Kind: decl.MAP, Vars: []decl.Declaration{
		{Name: "a", Type: types.Prim(types.Boolean)},
	}}
	prog := compileExpr(t, `a && (1/0 > 0)`, table)

	result, err := prog.Eval(map[string]any{"a": false})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != false {
		t.Fatalf("expected short-circuit && to skip the right operand, got %v", result)
	}
}
