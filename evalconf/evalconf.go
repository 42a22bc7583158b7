// Package evalconf is SPEC_FULL component G: the three named configuration
// flags of §6.4 plus the declaration-table builder callers use to turn a
// plain-text schema into the decl.Table package emit and package fallback
// both consume. It intentionally does not reuse blastbao-expr's conf.Env
// (see DESIGN.md): that type configures expr-lang's own Env/Options
// pipeline, an unrelated concern this module has no Options-style
// evaluation pipeline to configure.
package evalconf

import (
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/parser"
	"github.com/arborlang/evalc/types"
)

// Config carries exactly the three named knobs SPEC_FULL §6.4 specifies.
type Config struct {
	// DirectEmitterEnabled, if false, forces every request through the
	// fallback path regardless of what CanEmit would report.
	DirectEmitterEnabled bool

	// DebugCanEmit is carried in the Config but the facade (package evalc)
	// does not read it: evalc.CompileTraced records which path was taken
	// and, when it fell back, why (emit.Rejection.String()) whenever it is
	// given a non-nil *Trace, whatever this flag says.
	DebugCanEmit bool

	// PersistGeneratedClasses, if true, asks the facade to also hand
	// every registry.Entry it defines to a caller-supplied sink. Feature-
	// gated and not core, per spec.md's own "not core" note on this flag.
	PersistGeneratedClasses bool
}

// Default returns the flag set a caller gets without opting into anything
// beyond the direct emitter, which is always tried first.
func Default() Config {
	return Config{DirectEmitterEnabled: true}
}

// FieldSpec describes one declaration in caller-facing schema form: a name
// plus either a primitive tag ("int", "long", ...) or a reference type
// name resolved the same way the parser resolves a cast/new/type name
// (well-known java.lang/java.math prefixes, then the caller's import set).
type FieldSpec struct {
	Name string
	Type string // e.g. "int", "String", "com.example.Widget"
}

// TableSpec is the wire form of a declaration table (SPEC_FULL §6.2): a
// context kind, the receiver declaration, the ordered variable
// declarations, an optional "with" target name, and the import set type
// names resolve against.
type TableSpec struct {
	Kind    decl.ContextKind
	Context FieldSpec // Context.Name may be empty; Context.Type may be empty for MAP/LIST
	Vars    []FieldSpec
	With    string
	Imports []string
}

// BuildTable resolves every FieldSpec in spec against the well-known type
// prefixes and spec.Imports, the same resolution rule package parser
// applies to a source-level type name (SPEC_FULL §4.A), and assembles the
// decl.Table that package parser, package emit, and package fallback all
// take as an argument. It fails with a TypeResolutionError-shaped error
// wrapping the first field whose type name resolves to nothing, mirroring
// the parser's own failure mode for the same condition.
func BuildTable(spec TableSpec) (decl.Table, error) {
	table := decl.Table{Kind: spec.Kind, With: spec.With}

	if spec.Context.Type != "" {
		ctxType, ok := parser.ResolveType(spec.Context.Type, spec.Imports)
		if !ok {
			return decl.Table{}, &UnresolvedTypeError{Field: spec.Context.Name, Type: spec.Context.Type}
		}
		table.Context = decl.Declaration{Name: spec.Context.Name, Type: ctxType}
	} else {
		table.Context = decl.Declaration{Name: spec.Context.Name}
	}

	table.Vars = make([]decl.Declaration, len(spec.Vars))
	for i, f := range spec.Vars {
		t, ok := parser.ResolveType(f.Type, spec.Imports)
		if !ok {
			return decl.Table{}, &UnresolvedTypeError{Field: f.Name, Type: f.Type}
		}
		table.Vars[i] = decl.Declaration{Name: f.Name, Type: t}
	}

	if spec.With != "" {
		if _, _, ok := table.Lookup(spec.With); !ok && table.Context.Name != spec.With {
			return decl.Table{}, &UnresolvedTypeError{Field: spec.With, Type: "<with target>"}
		}
	}

	return table, nil
}

// UnresolvedTypeError reports a FieldSpec whose Type name did not resolve
// against the well-known prefixes or the supplied import set.
type UnresolvedTypeError struct {
	Field string
	Type  string
}

func (e *UnresolvedTypeError) Error() string {
	return "evalconf: cannot resolve type " + e.Type + " for field " + e.Field
}

// Prim is a convenience for building a FieldSpec against a primitive tag;
// the tag's name is resolved by BuildTable like any other type name.
func Prim(name string, tag types.PrimitiveTag) FieldSpec {
	return FieldSpec{Name: name, Type: tag.String()}
}
