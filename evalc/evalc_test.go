package evalc

import (
	"testing"

	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/evalconf"
	"github.com/arborlang/evalc/registry"
	"github.com/arborlang/evalc/types"
)

func mustTable(t *testing.T, spec evalconf.TableSpec) decl.Table {
	t.Helper()
	table, err := evalconf.BuildTable(spec)
	if err != nil {
		t.Fatalf("BuildTable error: %v", err)
	}
	return table
}

// TestScenario1And2UseTheDirectEmitter exercises end-to-end scenarios 1
// and 2 through the public facade, asserting the direct emitter (not the
// fallback interpreter) handled them.
func TestScenario1And2UseTheDirectEmitter(t *testing.T) {
	table := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{
			evalconf.Prim("influence", types.Int),
			evalconf.Prim("atWar", types.Boolean),
			evalconf.Prim("stability", types.Int),
		},
	})

	var trace Trace
	evaluator, err := CompileTraced(CompilerRequest{
		Source: "influence > 50 && !atWar && stability > 30",
		Kind:   Expression,
		Table:  table,
		Config: evalconf.Default(),
	}, &trace)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if trace.UsedFallback {
		t.Fatalf("expected the direct emitter to handle scenario 1, fell back: %s", trace.Rejection)
	}
	result, err := evaluator.Eval(map[string]any{"influence": int32(75), "atWar": false, "stability": int32(50)})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}

	sumTable := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{evalconf.Prim("a", types.Int), evalconf.Prim("b", types.Int)},
	})
	var sumTrace Trace
	sum, err := CompileTraced(CompilerRequest{Source: "a + b", Kind: Expression, Table: sumTable, Config: evalconf.Default()}, &sumTrace)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if sumTrace.UsedFallback {
		t.Fatalf("expected the direct emitter to handle scenario 2, fell back: %s", sumTrace.Rejection)
	}
	result, err = sum.Eval(map[string]any{"a": int32(10), "b": int32(32)})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != int32(42) {
		t.Fatalf("expected 42, got %v", result)
	}
}

// TestScenario6RepeatedCompileDedupsInRegistry is end-to-end scenario 6:
// compiling the same source twice defines exactly one registry entry.
func TestScenario6RepeatedCompileDedupsInRegistry(t *testing.T) {
	table := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{
			evalconf.Prim("a", types.Int),
			evalconf.Prim("b", types.Int),
		},
	})
	req := CompilerRequest{
		Source: "a + b + 1",
		Kind:   Expression,
		Table:  table,
		Config: evalconf.Default(),
	}

	before := Registry().Size()
	if _, err := Compile(req); err != nil {
		t.Fatalf("first Compile error: %v", err)
	}
	afterFirst := Registry().Size()
	if _, err := Compile(req); err != nil {
		t.Fatalf("second Compile error: %v", err)
	}
	afterSecond := Registry().Size()

	if afterFirst != before+1 {
		t.Fatalf("expected exactly one new entry after the first Compile, got delta %d", afterFirst-before)
	}
	if afterSecond != afterFirst {
		t.Fatalf("expected the second Compile of identical source to dedup, registry grew from %d to %d", afterFirst, afterSecond)
	}
}

// TestDirectEmitterDisabledForcesFallback asserts Config.DirectEmitterEnabled
// = false routes even an emittable expression through package fallback.
func TestDirectEmitterDisabledForcesFallback(t *testing.T) {
	table := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{evalconf.Prim("a", types.Int)},
	})

	var trace Trace
	evaluator, err := CompileTraced(CompilerRequest{
		Source: "a + 1",
		Kind:   Expression,
		Table:  table,
		Config: evalconf.Config{DirectEmitterEnabled: false},
	}, &trace)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !trace.UsedFallback {
		t.Fatalf("expected direct_emitter_enabled=false to force the fallback path")
	}
	result, err := evaluator.Eval(map[string]any{"a": int32(4)})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != int32(5) {
		t.Fatalf("expected 5, got %v", result)
	}
}

// TestScenario5FallsBackForGenericListIndexing asserts a construct
// emit.CanEmit permanently rejects is routed to package fallback
// automatically, with no caller-visible difference beyond the trace.
func TestScenario5FallsBackForGenericListIndexing(t *testing.T) {
	table := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{{Name: "foos", Type: "java.util.List"}},
	})

	var trace Trace
	evaluator, err := CompileTraced(CompilerRequest{
		Source: "foos[0]",
		Kind:   Expression,
		Table:  table,
		Config: evalconf.Default(),
	}, &trace)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !trace.UsedFallback {
		t.Fatalf("expected generic-erased list indexing to fall back")
	}
	result, err := evaluator.Eval(map[string]any{"foos": []any{"first", "second"}})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != "first" {
		t.Fatalf("expected \"first\", got %v", result)
	}
}

type recordingSink struct {
	persisted int
}

func (s *recordingSink) Persist(*registry.Entry) { s.persisted++ }

func TestPersistGeneratedClassesInvokesSink(t *testing.T) {
	table := mustTable(t, evalconf.TableSpec{
		Kind: decl.MAP,
		Vars: []evalconf.FieldSpec{evalconf.Prim("a", types.Int)},
	})
	sink := &recordingSink{}
	_, err := Compile(CompilerRequest{
		Source: "a * 3",
		Kind:   Expression,
		Table:  table,
		Config: evalconf.Config{DirectEmitterEnabled: true, PersistGeneratedClasses: true},
		Sink:   sink,
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if sink.persisted != 1 {
		t.Fatalf("expected the sink to be invoked once, got %d", sink.persisted)
	}
}
