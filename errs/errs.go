// Package errs defines the compiler's error taxonomy. Every error the
// compiler can return is a *Error with a Kind, so a caller that only wants
// to catch "anything evalc produced" can type-assert once; a caller that
// cares about the distinction switches on Kind.
package errs

import (
	"errors"
	"fmt"

	"github.com/arborlang/evalc/file"
)

// Kind identifies which stage of the pipeline raised the error.
type Kind int

const (
	// KindParse is a surface syntax failure: bad tokens, unbalanced
	// brackets, an undefined name.
	KindParse Kind = iota
	// KindTranspile is a semantic failure during lowering: an unresolved
	// type or an unmatched method arity.
	KindTranspile
	// KindCompile is a rejection from the emitter or the fallback path.
	KindCompile
	// KindEvaluation is a failure at Evaluator.Eval / EvalWith time.
	KindEvaluation
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindTranspile:
		return "TranspileError"
	case KindCompile:
		return "CompileError"
	case KindEvaluation:
		return "EvaluationError"
	default:
		return "Error"
	}
}

// Sub distinguishes TranspileError's two sub-kinds. Zero value means "no
// sub-kind", used by every Kind other than KindTranspile.
type Sub int

const (
	SubNone Sub = iota
	SubTypeResolution
	SubMethodResolution
)

// Error is the single error type the compiler returns. Fields not relevant
// to a given Kind are left zero.
type Error struct {
	Kind Kind
	Sub  Sub

	Source   string        // original source text, always set once known
	Location file.Location // zero value if not applicable
	Message  string

	TypeName   string // SubTypeResolution
	ClassName  string // SubMethodResolution
	MethodName string // SubMethodResolution

	GeneratedSource string // CompileError: pretty-printed EIR, if produced
	Diagnostics     string // CompileError: underlying compiler/interpreter diagnostics

	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindParse:
		line, col := 0, 0
		if e.Source != "" {
			s := file.NewSource(e.Source)
			line, col = s.Position(e.Location.From)
		}
		return fmt.Sprintf("parse error at %d:%d: %s", line, col, e.Message)
	case KindTranspile:
		switch e.Sub {
		case SubTypeResolution:
			return fmt.Sprintf("cannot resolve type %q", e.TypeName)
		case SubMethodResolution:
			return fmt.Sprintf("no method %s.%s matches the given arity", e.ClassName, e.MethodName)
		default:
			return fmt.Sprintf("transpile error: %s", e.Message)
		}
	case KindCompile:
		if e.Cause != nil {
			return fmt.Sprintf("compile error: %s: %v", e.Message, e.Cause)
		}
		return fmt.Sprintf("compile error: %s", e.Message)
	case KindEvaluation:
		return fmt.Sprintf("evaluation error: %s", e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewParseError builds a KindParse error carrying the offending location.
func NewParseError(source string, loc file.Location, format string, args ...any) *Error {
	return &Error{
		Kind:     KindParse,
		Source:   source,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewTypeResolutionError builds the TypeResolutionError sub-kind of
// TranspileError: a cast, `new`, or declaration named a type the import
// set (plus well-known prefixes) cannot resolve.
func NewTypeResolutionError(source string, loc file.Location, typeName string) *Error {
	return &Error{
		Kind:     KindTranspile,
		Sub:      SubTypeResolution,
		Source:   source,
		Location: loc,
		TypeName: typeName,
	}
}

// NewMethodResolutionError builds the MethodResolutionError sub-kind: the
// emitter's reflection pass found no method of the given name and arity.
func NewMethodResolutionError(source string, loc file.Location, className, methodName string) *Error {
	return &Error{
		Kind:       KindTranspile,
		Sub:        SubMethodResolution,
		Source:     source,
		Location:   loc,
		ClassName:  className,
		MethodName: methodName,
	}
}

// NewCompileError builds a KindCompile error. generatedSource and
// diagnostics may be empty when the rejection happened before any source
// was pretty-printed.
func NewCompileError(message, generatedSource, diagnostics string, cause error) *Error {
	return &Error{
		Kind:            KindCompile,
		Message:         message,
		GeneratedSource: generatedSource,
		Diagnostics:     diagnostics,
		Cause:           cause,
	}
}

// NewEvaluationError builds a KindEvaluation error, e.g. EvalWith called on
// an Evaluator whose declaration set named no "with" target.
func NewEvaluationError(format string, args ...any) *Error {
	return &Error{Kind: KindEvaluation, Message: fmt.Sprintf(format, args...)}
}

// As is a thin wrapper over errors.As for callers that prefer it to a type
// assertion.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}
