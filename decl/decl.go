// Package decl defines the declaration table a caller supplies to Compile:
// the variable-name-to-type bindings an expression is checked and emitted
// against, plus the context kind that selects how names resolve at
// evaluation time.
package decl

import "github.com/arborlang/evalc/types"

// ContextKind selects how a NameRef resolves against the runtime context
// value passed to Eval.
type ContextKind int

const (
	// MAP resolves name -> context.(map[string]any)[name], checked-cast
	// to the declared type.
	MAP ContextKind = iota
	// LIST resolves name -> context.([]any)[i], where i is the
	// declaration's position in the table. Order is significant.
	LIST
	// POJO resolves name -> context.GetName() via a reflectively
	// discovered getter, resolved once at emit time.
	POJO
)

func (k ContextKind) String() string {
	switch k {
	case MAP:
		return "MAP"
	case LIST:
		return "LIST"
	case POJO:
		return "POJO"
	default:
		return "ContextKind(?)"
	}
}

// Declaration is a single (name, type) binding.
type Declaration struct {
	Name string
	Type types.Descriptor
}

// Table is the ordered sequence of Declarations plus the context
// declaration (the receiver). Order matters for LIST context: a
// Declaration's index in Vars is its LIST position.
type Table struct {
	Kind    ContextKind
	Context Declaration // the receiver; Name is typically "this" or empty
	Vars    []Declaration

	// With, if non-empty, names the declaration EvalWith binds its argument to
	// (see SPEC_FULL §6.1). Empty means EvalWith is unsupported and
	// calling it returns an EvaluationError.
	With string
}

// Lookup returns the Declaration for name and its LIST/MAP-agnostic index
// in Vars, or ok=false if name is not declared.
func (t Table) Lookup(name string) (decl Declaration, index int, ok bool) {
	for i, d := range t.Vars {
		if d.Name == name {
			return d, i, true
		}
	}
	return Declaration{}, -1, false
}

// HasWith reports whether EvalWith is supported for this table.
func (t Table) HasWith() bool { return t.With != "" }
