// Package reflectcache memoises reflective method lookups by (type, name,
// arity), the cache key SPEC_FULL §5 requires. A miss is a genuine
// MethodResolutionError, never a silent fall-back to an Object-typed
// descriptor — the cache changes lookup cost, not lookup semantics.
package reflectcache

import (
	"reflect"
	"sync"
)

type key struct {
	t     reflect.Type
	name  string
	arity int
}

type entry struct {
	method reflect.Method
	found  bool
}

var (
	mu    sync.RWMutex
	cache = make(map[key]entry)
)

// Method resolves receiverType.name with the given argument count, caching
// both hits and misses. Variadic methods match any arity >= the number of
// fixed parameters.
func Method(receiverType reflect.Type, name string, arity int) (reflect.Method, bool) {
	k := key{receiverType, name, arity}

	mu.RLock()
	if e, ok := cache[k]; ok {
		mu.RUnlock()
		return e.method, e.found
	}
	mu.RUnlock()

	m, found := lookupMethod(receiverType, name, arity)

	mu.Lock()
	cache[k] = entry{method: m, found: found}
	mu.Unlock()

	return m, found
}

func lookupMethod(t reflect.Type, name string, arity int) (reflect.Method, bool) {
	m, ok := t.MethodByName(name)
	if !ok {
		return reflect.Method{}, false
	}
	// NumIn includes the receiver for a method obtained via reflect.Type.
	numIn := m.Type.NumIn() - 1
	if m.Type.IsVariadic() {
		if arity < numIn-1 {
			return reflect.Method{}, false
		}
		return m, true
	}
	if numIn != arity {
		return reflect.Method{}, false
	}
	return m, true
}

// Field resolves a struct field by name (and, transitively, by promoted
// embedded fields). Unlike Method it does not cache: every call repeats
// the reflect.Type.FieldByName lookup.
func Field(receiverType reflect.Type, name string) (reflect.StructField, bool) {
	t := receiverType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	return t.FieldByName(name)
}
