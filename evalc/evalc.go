// Package evalc is SPEC_FULL component I: the public facade, `Compile`,
// wiring the whole pipeline (package parser -> package lower -> package
// emit, falling back to package fallback -> package registry) behind the
// single entry point SPEC_FULL §6.1 specifies.
package evalc

import (
	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/emit"
	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/evalconf"
	"github.com/arborlang/evalc/fallback"
	"github.com/arborlang/evalc/lower"
	"github.com/arborlang/evalc/parser"
	"github.com/arborlang/evalc/registry"
	"github.com/arborlang/evalc/vm"
)

// ContentKind selects which parser entry point a request's source text is
// parsed under, per SPEC_FULL §3.1.
type ContentKind int

const (
	Expression ContentKind = iota
	Block
)

// GeneratedClassSink receives every registry.Entry Compile defines, when
// Config.PersistGeneratedClasses is set. SPEC_FULL §6.4 marks this flag
// "feature-gated, not core"; the sink is the hook the core specifies
// without committing to any particular storage.
type GeneratedClassSink interface {
	Persist(entry *registry.Entry)
}

// CompilerRequest is the immutable record SPEC_FULL §3.1 specifies:
// declaration table, source text, content kind, and import set, plus the
// configuration flags and an optional sink. It carries no expected output
// type descriptor and no host-compiler hook: the fallback path is always
// package fallback's tree-walking interpreter (fallback.Compile).
type CompilerRequest struct {
	Source  string
	Kind    ContentKind
	Table   decl.Table
	Imports []string
	Config  evalconf.Config
	Sink    GeneratedClassSink
}

// Trace records which path Compile took for one request and, if it fell
// back, why. CompileTraced fills it whenever it is given a non-nil
// *Trace; Config.DebugCanEmit is not consulted.
type Trace struct {
	UsedFallback bool
	Rejection    string
}

// Evaluator is SPEC_FULL §6's external interface, unchanged.
type Evaluator interface {
	Eval(ctx any) (any, error)
	EvalWith(with any) (any, error)
}

// directEvaluator adapts a bytecode.Program (package vm's execution
// target) to Evaluator; EvalWith runs the Program with the with-target as
// its context. Unlike fallback.Program.EvalWith it binds no local under
// the with-target's declared name, since a Program has no separate
// concept of "the with value" beyond the context it is run against.
type directEvaluator struct {
	prog  *registry.Entry
	table decl.Table
}

func (d *directEvaluator) Eval(ctx any) (any, error) {
	return vm.Run(d.prog.Program, ctx)
}

func (d *directEvaluator) EvalWith(with any) (any, error) {
	if !d.table.HasWith() {
		return nil, errs.NewEvaluationError("no with-target declared for this evaluator")
	}
	return vm.Run(d.prog.Program, with)
}

// reg is the module-wide class registry every Compile call shares, giving
// SPEC_FULL §8 scenario 6 ("compile the same expression twice... assert
// the registry reports exactly one underlying class entry") something to
// observe across independent Compile calls, not just within one.
var reg = registry.New()

// Registry exposes the shared registry so tests and callers implementing
// GeneratedClassSink can inspect dedup behavior directly.
func Registry() *registry.Registry { return reg }

// Compile is SPEC_FULL §6.1's single entry point: parse, lower, then try
// the direct emitter unless Config.DirectEmitterEnabled is false or the
// tree falls outside its supported subset, in which case package fallback
// takes over. Compile never itself evaluates anything; it returns an
// Evaluator the caller drives with Eval/EvalWith.
func Compile(req CompilerRequest) (Evaluator, error) {
	return CompileTraced(req, nil)
}

// CompileTraced is Compile plus an optional *Trace the caller can inspect
// afterward, recording which path was taken and why. A nil trace records
// nothing.
func CompileTraced(req CompilerRequest, trace *Trace) (Evaluator, error) {
	var tree ast.Node
	var err error
	switch req.Kind {
	case Expression:
		tree, err = parser.ParseExpression(req.Source, req.Table, req.Imports)
	case Block:
		tree, err = parser.ParseBlock(req.Source, req.Table, req.Imports)
	default:
		return nil, errs.NewCompileError("unknown content kind", "", "", nil)
	}
	if err != nil {
		return nil, err
	}

	tree = lower.Lower(tree)

	if req.Config.DirectEmitterEnabled {
		if rej := emit.DiagnoseRejection(tree); rej == nil {
			prog, err := emit.Emit(tree, req.Table, req.Source)
			if err == nil {
				entry, _ := reg.Define(prog)
				if req.Config.PersistGeneratedClasses && req.Sink != nil {
					req.Sink.Persist(entry)
				}
				return &directEvaluator{prog: entry, table: req.Table}, nil
			}
			if trace != nil {
				trace.UsedFallback = true
				trace.Rejection = err.Error()
			}
		} else if trace != nil {
			trace.UsedFallback = true
			trace.Rejection = rej.String()
		}
	} else if trace != nil {
		trace.UsedFallback = true
		trace.Rejection = "direct_emitter_enabled is false"
	}

	return fallback.Compile(tree, req.Table), nil
}
