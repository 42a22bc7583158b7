package parser

import (
	"math/big"
	"reflect"
	"strings"

	"github.com/arborlang/evalc/types"
)

// wellKnown maps the simple name of a class the parser recognizes without
// any import (the java.lang.*/java.math.* prefixes SPEC_FULL §4.A calls
// out) to the Go type backing it.
var wellKnown = map[string]types.Descriptor{
	"String":     types.Ref("java.lang.String", reflect.TypeOf("")),
	"Object":     types.Ref("java.lang.Object", reflect.TypeOf((*any)(nil)).Elem()),
	"Integer":    types.Ref("java.lang.Integer", reflect.TypeOf(int32(0))),
	"Long":       types.Ref("java.lang.Long", reflect.TypeOf(int64(0))),
	"Short":      types.Ref("java.lang.Short", reflect.TypeOf(int16(0))),
	"Byte":       types.Ref("java.lang.Byte", reflect.TypeOf(int8(0))),
	"Float":      types.Ref("java.lang.Float", reflect.TypeOf(float32(0))),
	"Double":     types.Ref("java.lang.Double", reflect.TypeOf(float64(0))),
	"Boolean":    types.Ref("java.lang.Boolean", reflect.TypeOf(false)),
	"Character":  types.Ref("java.lang.Character", reflect.TypeOf(uint16(0))),
	"BigDecimal": types.Ref("java.math.BigDecimal", reflect.TypeOf(&big.Float{})),
	"BigInteger": types.Ref("java.math.BigInteger", reflect.TypeOf(&big.Int{})),
}

// genericOnly are well-known simple names whose Go representation is
// erased: they resolve for the fallback path (as an unresolved generic
// descriptor) but never for the direct emitter.
var genericOnly = map[string]string{
	"List": "java.util.List",
	"Map":  "java.util.Map",
	"Set":  "java.util.Set",
}

// resolveType implements the type-name resolution SPEC_FULL §4.A
// requires: primitive tags, the well-known java.lang/java.math prefixes,
// a bare dotted FQCN, and finally the caller's import set. Returns
// ok=false when none of those resolve it, the trigger for a
// TypeResolutionError at the call site (cast, new, instanceof).
// ResolveType exports resolveType for callers outside the package that
// need the same name resolution the parser applies to a cast/new/type
// name — currently package evalconf's declaration-table builder, which
// resolves a caller's schema against the same well-known/import rules a
// source-level type name would use.
func ResolveType(name string, imports []string) (types.Descriptor, bool) {
	return resolveType(name, imports)
}

func resolveType(name string, imports []string) (types.Descriptor, bool) {
	if tag, ok := types.ParsePrimitiveTag(name); ok {
		return types.Prim(tag), true
	}
	simple := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		simple = name[idx+1:]
	}
	if d, ok := wellKnown[simple]; ok {
		return d, true
	}
	if fqcn, ok := genericOnly[simple]; ok {
		return types.GenericRef(fqcn), true
	}
	for _, imp := range imports {
		impSimple := imp
		if idx := strings.LastIndex(imp, "."); idx >= 0 {
			impSimple = imp[idx+1:]
		}
		if impSimple != name {
			continue
		}
		if d, ok := wellKnown[simple]; ok {
			return d, true
		}
		return types.GenericRef(imp), true
	}
	return types.Descriptor{}, false
}
