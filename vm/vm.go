// Package vm executes a bytecode.Program against a runtime context value.
// Its dispatch loop and panic-to-error recovery are grounded on
// blastbao-expr/vm.VM.Run: a flat instruction pointer, a Go slice as an
// operand stack, and a deferred recover() that turns any panic (a bad
// type assertion, an out-of-range context access, a division by zero)
// into the single evaluation-error type the rest of the pipeline uses.
package vm

import (
	"fmt"
	"reflect"

	"github.com/arborlang/evalc/bytecode"
	"github.com/arborlang/evalc/classreg"
	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/internal/deref"
	"github.com/arborlang/evalc/internal/reflectcache"
	"github.com/arborlang/evalc/types"
)

// Run executes prog against ctx (a map[string]any, a []any, or a struct/
// pointer-to-struct, depending on the decl.Table.Kind the program was
// emitted against) and returns its return value.
func Run(prog *bytecode.Program, ctx any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.Error); ok {
				err = e
				return
			}
			err = errs.NewEvaluationError("%v", r)
		}
	}()

	m := &machine{prog: prog, ctx: ctx, slots: make([]any, prog.NumSlots)}
	return m.run(), nil
}

type machine struct {
	prog  *bytecode.Program
	ctx   any
	slots []any
	stack []any
}

func (m *machine) push(v any) { m.stack = append(m.stack, v) }

func (m *machine) pop() any {
	n := len(m.stack) - 1
	v := m.stack[n]
	m.stack = m.stack[:n]
	return v
}

func (m *machine) peek() any { return m.stack[len(m.stack)-1] }

func (m *machine) run() any {
	ip := 0
	for {
		ins := m.prog.Instructions[ip]
		switch ins.Op {
		case bytecode.OpConst, bytecode.OpNull:
			m.push(m.prog.Constants[ins.Arg])
		case bytecode.OpTrue:
			m.push(true)
		case bytecode.OpFalse:
			m.push(false)
		case bytecode.OpPop:
			m.pop()
		case bytecode.OpLoadVar:
			m.push(m.slots[ins.Arg])
		case bytecode.OpStoreVar:
			m.slots[ins.Arg] = m.pop()

		case bytecode.OpLoadCtxMap:
			name := m.prog.Constants[ins.Arg].(string)
			mp, ok := m.ctx.(map[string]any)
			if !ok {
				panic(errs.NewEvaluationError("context is not a map"))
			}
			m.push(mp[name])
		case bytecode.OpLoadCtxList:
			list, ok := m.ctx.([]any)
			if !ok {
				panic(errs.NewEvaluationError("context is not a list"))
			}
			if ins.Arg < 0 || ins.Arg >= len(list) {
				panic(errs.NewEvaluationError("declaration position %d out of range", ins.Arg))
			}
			m.push(list[ins.Arg])
		case bytecode.OpLoadCtxField:
			name := m.prog.Constants[ins.Arg].(string)
			m.push(m.getField(m.ctx, name))

		case bytecode.OpNot:
			m.push(!m.pop().(bool))
		case bytecode.OpNegateInt:
			m.push(-m.pop().(int32))
		case bytecode.OpNegateLong:
			m.push(-m.pop().(int64))
		case bytecode.OpNegateFloat:
			m.push(-m.pop().(float32))
		case bytecode.OpNegateDouble:
			m.push(-m.pop().(float64))
		case bytecode.OpBitNotInt:
			m.push(^m.pop().(int32))
		case bytecode.OpBitNotLong:
			m.push(^m.pop().(int64))

		case bytecode.OpWidenToInt:
			m.push(widenToInt(m.pop()))
		case bytecode.OpWidenToLong:
			m.push(widenToLong(m.pop()))
		case bytecode.OpWidenToFloat:
			m.push(widenToFloat(m.pop()))
		case bytecode.OpWidenToDouble:
			m.push(widenToDouble(m.pop()))

		case bytecode.OpAddInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a + b)
		case bytecode.OpAddLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a + b)
		case bytecode.OpAddFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a + b)
		case bytecode.OpAddDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a + b)
		case bytecode.OpSubInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a - b)
		case bytecode.OpSubLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a - b)
		case bytecode.OpSubFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a - b)
		case bytecode.OpSubDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a - b)
		case bytecode.OpMulInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a * b)
		case bytecode.OpMulLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a * b)
		case bytecode.OpMulFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a * b)
		case bytecode.OpMulDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a * b)
		case bytecode.OpDivInt:
			b, a := m.pop().(int32), m.pop().(int32)
			if b == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			m.push(a / b)
		case bytecode.OpDivLong:
			b, a := m.pop().(int64), m.pop().(int64)
			if b == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			m.push(a / b)
		case bytecode.OpDivFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a / b)
		case bytecode.OpDivDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a / b)
		case bytecode.OpModInt:
			b, a := m.pop().(int32), m.pop().(int32)
			if b == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			m.push(a % b)
		case bytecode.OpModLong:
			b, a := m.pop().(int64), m.pop().(int64)
			if b == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			m.push(a % b)
		case bytecode.OpModFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(float32(mathMod(float64(a), float64(b))))
		case bytecode.OpModDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(mathMod(a, b))

		case bytecode.OpBAndInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a & b)
		case bytecode.OpBAndLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a & b)
		case bytecode.OpBOrInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a | b)
		case bytecode.OpBOrLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a | b)
		case bytecode.OpBXorInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a ^ b)
		case bytecode.OpBXorLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a ^ b)
		case bytecode.OpShlInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a << uint(b))
		case bytecode.OpShlLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a << uint(b))
		case bytecode.OpShrInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a >> uint(b))
		case bytecode.OpShrLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a >> uint(b))

		case bytecode.OpToString:
			m.push(toDisplayString(m.pop()))
		case bytecode.OpConcatString:
			b, a := m.pop().(string), m.pop().(string)
			m.push(a + b)

		case bytecode.OpLtInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a < b)
		case bytecode.OpLeInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a <= b)
		case bytecode.OpGtInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a > b)
		case bytecode.OpGeInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a >= b)
		case bytecode.OpEqInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a == b)
		case bytecode.OpNeInt:
			b, a := m.pop().(int32), m.pop().(int32)
			m.push(a != b)
		case bytecode.OpLtLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a < b)
		case bytecode.OpLeLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a <= b)
		case bytecode.OpGtLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a > b)
		case bytecode.OpGeLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a >= b)
		case bytecode.OpEqLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a == b)
		case bytecode.OpNeLong:
			b, a := m.pop().(int64), m.pop().(int64)
			m.push(a != b)
		// float/double comparisons use Go's native operators, which are
		// already IEEE-754 NaN-safe: every ordered comparison against NaN
		// is false and != is true, matching the target's NaN-safe variant.
		case bytecode.OpLtFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a < b)
		case bytecode.OpLeFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a <= b)
		case bytecode.OpGtFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a > b)
		case bytecode.OpGeFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a >= b)
		case bytecode.OpEqFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a == b)
		case bytecode.OpNeFloat:
			b, a := m.pop().(float32), m.pop().(float32)
			m.push(a != b)
		case bytecode.OpLtDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a < b)
		case bytecode.OpLeDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a <= b)
		case bytecode.OpGtDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a > b)
		case bytecode.OpGeDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a >= b)
		case bytecode.OpEqDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a == b)
		case bytecode.OpNeDouble:
			b, a := m.pop().(float64), m.pop().(float64)
			m.push(a != b)
		case bytecode.OpEqBool:
			b, a := m.pop().(bool), m.pop().(bool)
			m.push(a == b)
		case bytecode.OpNeBool:
			b, a := m.pop().(bool), m.pop().(bool)
			m.push(a != b)
		case bytecode.OpEqStr:
			b, a := m.pop().(string), m.pop().(string)
			m.push(a == b)
		case bytecode.OpNeStr:
			b, a := m.pop().(string), m.pop().(string)
			m.push(a != b)
		case bytecode.OpEqRef:
			b, a := m.pop(), m.pop()
			m.push(refEqual(a, b))
		case bytecode.OpNeRef:
			b, a := m.pop(), m.pop()
			m.push(!refEqual(a, b))

		case bytecode.OpInstanceOf:
			target := m.prog.Constants[ins.Arg].(types.Descriptor)
			v := m.pop()
			m.push(isInstanceOf(v, target))

		case bytecode.OpJump:
			ip = ins.Arg
			continue
		case bytecode.OpJumpIfFalsePop:
			if !m.pop().(bool) {
				ip = ins.Arg
				continue
			}
		case bytecode.OpBranchIfFalse:
			if !m.peek().(bool) {
				ip = ins.Arg
				continue
			}
		case bytecode.OpBranchIfTrue:
			if m.peek().(bool) {
				ip = ins.Arg
				continue
			}

		case bytecode.OpReturn:
			return m.pop()

		case bytecode.OpBoxAs:
			// boxing collapses to identity in a Go host; see emit's
			// return-boxing rule for why the instruction still exists.
		case bytecode.OpUnbox:
			m.push(coerceTo(types.PrimitiveTag(ins.Arg), m.pop()))
		case bytecode.OpCheckCast:
			target := m.prog.Constants[ins.Arg].(types.Descriptor)
			v := m.pop()
			if v != nil && !isInstanceOf(v, target) {
				panic(errs.NewEvaluationError("cannot cast %T to %s", v, target.String()))
			}
			m.push(v)

		case bytecode.OpInvokeStatic:
			ref := m.prog.Constants[ins.Arg].(*bytecode.MethodRef)
			args := m.popArgs(ref.Arity)
			m.push(m.callStatic(ref, args))
		case bytecode.OpInvokeVirtual:
			ref := m.prog.Constants[ins.Arg].(*bytecode.MethodRef)
			args := m.popArgs(ref.Arity)
			recv := m.pop()
			m.push(m.callVirtual(ref, recv, args))

		default:
			panic(errs.NewEvaluationError("unimplemented opcode %s", ins.Op))
		}
		ip++
	}
}

func (m *machine) popArgs(n int) []any {
	args := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = m.pop()
	}
	return args
}

func (m *machine) getField(recv any, name string) any {
	v := deref.Value(reflect.ValueOf(recv))
	if v.Kind() == reflect.Map {
		return v.MapIndex(reflect.ValueOf(name)).Interface()
	}
	if fv := v.FieldByName(name); fv.IsValid() {
		return fv.Interface()
	}
	if method, ok := reflectcache.Method(deref.Type(reflect.TypeOf(recv)), name, 0); ok {
		out := reflect.ValueOf(recv).Method(method.Index).Call(nil)
		if len(out) > 0 {
			return out[0].Interface()
		}
		return nil
	}
	panic(errs.NewEvaluationError("no field or getter %q on %T", name, recv))
}

func (m *machine) callStatic(ref *bytecode.MethodRef, args []any) any {
	cls, ok := classreg.Lookup(ref.Owner)
	if !ok {
		panic(errs.NewEvaluationError("unknown class %q", ref.Owner))
	}
	fn, ok := cls.Method(ref.Name)
	if !ok {
		panic(errs.NewEvaluationError("unknown static method %s.%s", ref.Owner, ref.Name))
	}
	return callReflect(fn, args)
}

func (m *machine) callVirtual(ref *bytecode.MethodRef, recv any, args []any) any {
	rv := reflect.ValueOf(recv)
	method, ok := reflectcache.Method(rv.Type(), ref.Name, ref.Arity)
	if !ok {
		panic(errs.NewEvaluationError("no method %s/%d on %T", ref.Name, ref.Arity, recv))
	}
	return callReflect(rv.Method(method.Index), args)
}

func callReflect(fn reflect.Value, args []any) any {
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := fn.Call(in)
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) && !last.IsNil() {
		panic(errs.NewEvaluationError("%v", last.Interface()))
	}
	return out[0].Interface()
}

func refEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func isInstanceOf(v any, target types.Descriptor) bool {
	if v == nil {
		return false
	}
	if target.IsPrimitive() {
		return reflect.TypeOf(v) == target.Primitive.GoType()
	}
	if target.Go == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(target.Go)
}

func toDisplayString(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func mathMod(a, b float64) float64 {
	return a - float64(int64(a/b))*b
}

func widenToInt(v any) int32 {
	switch n := v.(type) {
	case int16:
		return int32(n)
	case int8:
		return int32(n)
	case uint16:
		return int32(n)
	case int32:
		return n
	}
	panic(errs.NewEvaluationError("cannot widen %T to int", v))
}

func widenToLong(v any) int64 {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	panic(errs.NewEvaluationError("cannot widen %T to long", v))
}

func widenToFloat(v any) float32 {
	switch n := v.(type) {
	case int16:
		return float32(n)
	case int8:
		return float32(n)
	case uint16:
		return float32(n)
	case int32:
		return float32(n)
	case int64:
		return float32(n)
	case float32:
		return n
	}
	panic(errs.NewEvaluationError("cannot widen %T to float", v))
}

func widenToDouble(v any) float64 {
	switch n := v.(type) {
	case int16:
		return float64(n)
	case int8:
		return float64(n)
	case uint16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	panic(errs.NewEvaluationError("cannot widen %T to double", v))
}

// coerceTo implements Java-style narrowing-cast truncation, not a mere
// type assertion: (int)someDouble truncates toward zero and wraps on
// overflow the way a numeric cast does, matching OpUnbox's role as the
// second half of a checkcast-then-unbox pair.
func coerceTo(tag types.PrimitiveTag, v any) any {
	var f float64
	switch n := v.(type) {
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case uint16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case bool:
		if tag == types.Boolean {
			return n
		}
		panic(errs.NewEvaluationError("cannot unbox bool to %s", tag))
	default:
		panic(errs.NewEvaluationError("cannot unbox %T to %s", v, tag))
	}
	switch tag {
	case types.Int:
		return int32(f)
	case types.Long:
		return int64(f)
	case types.Short:
		return int16(f)
	case types.Byte:
		return int8(f)
	case types.Char:
		return uint16(f)
	case types.Float:
		return float32(f)
	case types.Double:
		return f
	default:
		panic(errs.NewEvaluationError("cannot unbox to %s", tag))
	}
}
