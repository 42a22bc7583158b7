// Package fallback is SPEC_FULL component D: for expression shapes
// package emit's CanEmit rejects (the arbitrary-precision literals, the
// generic-erased collection indexing, chained calls past emit.MaxChainDepth,
// multi-argument constructors, collection literal construction), it
// produces a working Evaluator by a different route than the direct
// emitter's Program.
//
// The original spec's fallback shells out to an external HostCompiler
// (javac/ECJ) on pretty-printed source. This module has no such second
// compiler toolchain to invoke, and per SPEC_FULL §4.D building one would
// only add a translation step with no behavior of its own to test: the
// pretty-printed source's semantics ARE whatever a human would write by
// hand, so a tree-walking interpreter that executes the lowered EIR
// directly satisfies the contract exactly, with Print (printer.go)
// producing the pretty-printed text kept in Program.Pretty. This
// interpreter is grounded on blastbao-expr/vm.VM.Run for its overall shape
// (deferred panic-to-error recovery, a machine-shaped receiver) but walks
// the EIR tree directly instead of a flat instruction stream, since there
// is no bytecode.Program for a fallback tree to compile down to.
package fallback

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/classreg"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/internal/deref"
	"github.com/arborlang/evalc/internal/reflectcache"
	"github.com/arborlang/evalc/types"
)

// Program is the fallback path's Evaluator: the lowered EIR plus the
// declaration table it was checked against, and the pretty-printed source
// text Print produced for it. No validation pass runs over the tree before
// Eval, and Pretty is not attached to any error.
type Program struct {
	root   ast.Node
	table  decl.Table
	Pretty string
}

// Compile builds a Program from already-lowered EIR. It never itself
// fails on a well-formed tree; interpretation errors surface from Eval,
// matching the direct emitter's own "reject early, fail late" split as
// closely as a tree-walker allows.
func Compile(n ast.Node, table decl.Table) *Program {
	return &Program{root: n, table: table, Pretty: Print(n)}
}

// Eval implements evalc.Evaluator.
func (p *Program) Eval(ctx any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.Error); ok {
				err = e
				return
			}
			err = errs.NewEvaluationError("%v", r)
		}
	}()
	w := &walker{ctx: ctx, table: p.table, locals: map[string]any{}}
	return w.execRoot(p.root), nil
}

// EvalWith implements evalc.Evaluator's with-target variant. It binds the
// with-target both as a local under its declared name (so `t.field` inside
// a lowered modify/with block resolves it directly) and as the evaluation
// context itself (so a POJO-kind table's other field lookups still work),
// since SPEC_FULL leaves the exact binding shape to the implementation
// (recorded as an Open Question resolution in DESIGN.md).
func (p *Program) EvalWith(with any) (result any, err error) {
	if !p.table.HasWith() {
		return nil, errs.NewEvaluationError("no with-target declared for this evaluator")
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.Error); ok {
				err = e
				return
			}
			err = errs.NewEvaluationError("%v", r)
		}
	}()
	w := &walker{ctx: with, table: p.table, locals: map[string]any{p.table.With: with}}
	return w.execRoot(p.root), nil
}

type walker struct {
	ctx    any
	table  decl.Table
	locals map[string]any
}

// returnSignal unwinds exec* calls back to execRoot without threading a
// "did this block already return" bool through every recursive call.
type returnSignal struct{ value any }

func (walker *walker) execRoot(n ast.Node) (result any) {
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			panic(r)
		}
	}()
	if blk, ok := n.(*ast.Block); ok {
		walker.execBlock(blk)
		return nil
	}
	return walker.eval(n)
}

func (w *walker) execBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		w.execStmt(s)
	}
}

func (w *walker) execStmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.ExprStmt:
		w.eval(v.Expr)
	case *ast.VarDecl:
		var val any
		if v.Init != nil {
			val = w.eval(v.Init)
		}
		w.locals[v.Name] = val
	case *ast.If:
		if truthy(w.eval(v.Cond)) {
			w.execStmt(v.Then)
		} else if v.Else != nil {
			w.execStmt(v.Else)
		}
	case *ast.Return:
		var val any
		if v.Expr != nil {
			val = w.eval(v.Expr)
		}
		panic(returnSignal{value: val})
	case *ast.Block:
		w.execBlock(v)
	case *ast.Empty:
	default:
		w.eval(v)
	}
}

func truthy(v any) bool {
	b, ok := v.(bool)
	if !ok {
		panic(errs.NewEvaluationError("expected boolean, got %T", v))
	}
	return b
}

func (w *walker) eval(n ast.Node) any {
	switch v := n.(type) {
	case *ast.IntLit:
		return v.Value
	case *ast.LongLit:
		return v.Value
	case *ast.ShortLit:
		return v.Value
	case *ast.ByteLit:
		return v.Value
	case *ast.FloatLit:
		return v.Value
	case *ast.DoubleLit:
		return v.Value
	case *ast.BoolLit:
		return v.Value
	case *ast.StringLit:
		return v.Value
	case *ast.CharLit:
		return v.Value
	case *ast.NullLit:
		return nil
	case *ast.BigDecimalLit:
		f, ok := new(big.Float).SetString(v.Text)
		if !ok {
			panic(errs.NewEvaluationError("malformed BigDecimal literal %q", v.Text))
		}
		return f
	case *ast.BigIntegerLit:
		i, ok := new(big.Int).SetString(v.Text, 10)
		if !ok {
			panic(errs.NewEvaluationError("malformed BigInteger literal %q", v.Text))
		}
		return i
	case *ast.Enclosed:
		return w.eval(v.Inner)
	case *ast.NameRef:
		return w.resolveName(v.Name)
	case *ast.Unary:
		return w.evalUnary(v)
	case *ast.Binary:
		return w.evalBinary(v)
	case *ast.Assign:
		return w.evalAssign(v)
	case *ast.Cast:
		return w.evalCast(v)
	case *ast.Conditional:
		if truthy(w.eval(v.Cond)) {
			return w.eval(v.Then)
		}
		return w.eval(v.Else)
	case *ast.FieldGet:
		return w.evalFieldGet(w.eval(v.Scope), v.Field)
	case *ast.ArrayAccess:
		return w.evalArrayAccess(v)
	case *ast.MethodCall:
		return w.evalMethodCall(v)
	case *ast.ObjectNew:
		return w.evalObjectNew(v)
	case *ast.MapLiteral:
		m := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			key := w.eval(e.Key)
			m[toMapKey(key)] = w.eval(e.Value)
		}
		return m
	case *ast.ListLiteral:
		list := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			list[i] = w.eval(e)
		}
		return list
	default:
		panic(errs.NewEvaluationError("fallback interpreter cannot evaluate %T", n))
	}
}

func toMapKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return toDisplayString(v)
}

// resolveName implements the same MAP/LIST/POJO resolution rule as
// emit.emitNameRef and vm's context opcodes, but against live values
// instead of a compiled slot table.
func (w *walker) resolveName(name string) any {
	if v, ok := w.locals[name]; ok {
		return v
	}
	_, idx, ok := w.table.Lookup(name)
	if !ok {
		if name == w.table.Context.Name {
			return w.ctx
		}
		panic(errs.NewEvaluationError("unresolved identifier %q", name))
	}
	switch w.table.Kind {
	case decl.MAP:
		mp, ok := w.ctx.(map[string]any)
		if !ok {
			panic(errs.NewEvaluationError("context is not a map"))
		}
		return mp[name]
	case decl.LIST:
		list, ok := w.ctx.([]any)
		if !ok {
			panic(errs.NewEvaluationError("context is not a list"))
		}
		if idx < 0 || idx >= len(list) {
			panic(errs.NewEvaluationError("declaration position %d out of range", idx))
		}
		return list[idx]
	case decl.POJO:
		return w.evalFieldGet(w.ctx, name)
	default:
		panic(errs.NewEvaluationError("unknown context kind %v", w.table.Kind))
	}
}

func (w *walker) evalUnary(v *ast.Unary) any {
	inner := w.eval(v.Inner)
	switch v.Op {
	case "!":
		return !truthy(inner)
	case "-":
		return negate(inner)
	case "~":
		return bitNot(inner)
	default:
		panic(errs.NewEvaluationError("unsupported unary operator %q", v.Op))
	}
}

func negate(v any) any {
	switch n := v.(type) {
	case int32:
		return -n
	case int64:
		return -n
	case int16:
		return -int32(n)
	case int8:
		return -int32(n)
	case uint16:
		return -int32(n)
	case float32:
		return -n
	case float64:
		return -n
	case *big.Float:
		return new(big.Float).Neg(n)
	case *big.Int:
		return new(big.Int).Neg(n)
	default:
		panic(errs.NewEvaluationError("cannot negate %T", v))
	}
}

func bitNot(v any) any {
	switch n := v.(type) {
	case int32:
		return ^n
	case int64:
		return ^n
	case int16:
		return ^int32(n)
	case int8:
		return ^int32(n)
	case uint16:
		return ^int32(n)
	default:
		panic(errs.NewEvaluationError("cannot bitwise-negate %T", v))
	}
}

func (w *walker) evalBinary(v *ast.Binary) any {
	switch v.Op {
	case "&&":
		return truthy(w.eval(v.Left)) && truthy(w.eval(v.Right))
	case "||":
		return truthy(w.eval(v.Left)) || truthy(w.eval(v.Right))
	case "instanceof":
		return w.evalInstanceOf(v)
	}

	left := w.eval(v.Left)
	right := w.eval(v.Right)

	if v.Op == "+" {
		if ls, ok := left.(string); ok {
			return ls + toDisplayString(right)
		}
		if rs, ok := right.(string); ok {
			return toDisplayString(left) + rs
		}
	}

	if isBig(left) || isBig(right) {
		return evalBigBinary(v.Op, left, right)
	}

	switch v.Op {
	case "==":
		return dynamicEqual(left, right)
	case "!=":
		return !dynamicEqual(left, right)
	}

	return evalNumericBinary(v.Op, left, right)
}

func (w *walker) evalInstanceOf(v *ast.Binary) any {
	left := w.eval(v.Left)
	target := v.Right.Type()
	return isInstanceOf(left, target)
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

func isBig(v any) bool {
	switch v.(type) {
	case *big.Float, *big.Int:
		return true
	default:
		return false
	}
}

// evalBigBinary implements arithmetic and comparisons once either operand
// is a BigDecimal/BigInteger, the permanent fallback category SPEC_FULL
// §8 scenario 4 exercises. Mixed-mode arithmetic (a BigDecimal literal
// plus an ordinary int, as in `s += 1`) widens the int side to big.Float,
// mirroring the target's BigDecimal.valueOf(...) auto-widening.
func evalBigBinary(op string, left, right any) any {
	if _, ok := left.(*big.Int); ok {
		if _, ok := right.(*big.Int); ok {
			return evalBigIntBinary(op, left.(*big.Int), right.(*big.Int))
		}
	}
	lf := toBigFloat(left)
	rf := toBigFloat(right)
	switch op {
	case "+":
		return new(big.Float).Add(lf, rf)
	case "-":
		return new(big.Float).Sub(lf, rf)
	case "*":
		return new(big.Float).Mul(lf, rf)
	case "/":
		return new(big.Float).Quo(lf, rf)
	case "==":
		return lf.Cmp(rf) == 0
	case "!=":
		return lf.Cmp(rf) != 0
	case "<":
		return lf.Cmp(rf) < 0
	case "<=":
		return lf.Cmp(rf) <= 0
	case ">":
		return lf.Cmp(rf) > 0
	case ">=":
		return lf.Cmp(rf) >= 0
	default:
		panic(errs.NewEvaluationError("unsupported BigDecimal operator %q", op))
	}
}

func evalBigIntBinary(op string, l, r *big.Int) any {
	switch op {
	case "+":
		return new(big.Int).Add(l, r)
	case "-":
		return new(big.Int).Sub(l, r)
	case "*":
		return new(big.Int).Mul(l, r)
	case "/":
		return new(big.Int).Quo(l, r)
	case "%":
		return new(big.Int).Rem(l, r)
	case "==":
		return l.Cmp(r) == 0
	case "!=":
		return l.Cmp(r) != 0
	case "<":
		return l.Cmp(r) < 0
	case "<=":
		return l.Cmp(r) <= 0
	case ">":
		return l.Cmp(r) > 0
	case ">=":
		return l.Cmp(r) >= 0
	default:
		panic(errs.NewEvaluationError("unsupported BigInteger operator %q", op))
	}
}

func toBigFloat(v any) *big.Float {
	switch n := v.(type) {
	case *big.Float:
		return n
	case *big.Int:
		return new(big.Float).SetInt(n)
	default:
		return big.NewFloat(toFloat64(v))
	}
}

// evalNumericBinary implements the widening lattice dynamically (by
// runtime Go type instead of the static descriptor package emit consults)
// since the fallback path routinely mixes statically-typed and
// generic-erased subtrees in the same expression.
func evalNumericBinary(op string, left, right any) any {
	widenLong := isIntegral64(left) || isIntegral64(right)
	widenFloat := isFloating(left) || isFloating(right)

	switch {
	case widenFloat:
		l, r := toFloat64(left), toFloat64(right)
		switch op {
		case "+":
			return l + r
		case "-":
			return l - r
		case "*":
			return l * r
		case "/":
			return l / r
		case "%":
			return mathMod(l, r)
		case "<":
			return l < r
		case "<=":
			return l <= r
		case ">":
			return l > r
		case ">=":
			return l >= r
		}
	case widenLong:
		l, r := toInt64(left), toInt64(right)
		switch op {
		case "+":
			return l + r
		case "-":
			return l - r
		case "*":
			return l * r
		case "/":
			if r == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			return l / r
		case "%":
			if r == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			return l % r
		case "<":
			return l < r
		case "<=":
			return l <= r
		case ">":
			return l > r
		case ">=":
			return l >= r
		case "&":
			return l & r
		case "|":
			return l | r
		case "^":
			return l ^ r
		case "<<":
			return l << uint(r)
		case ">>":
			return l >> uint(r)
		}
	default:
		l, r := toInt64(left), toInt64(right)
		switch op {
		case "+":
			return int32(l + r)
		case "-":
			return int32(l - r)
		case "*":
			return int32(l * r)
		case "/":
			if r == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			return int32(l / r)
		case "%":
			if r == 0 {
				panic(errs.NewEvaluationError("division by zero"))
			}
			return int32(l % r)
		case "<":
			return l < r
		case "<=":
			return l <= r
		case ">":
			return l > r
		case ">=":
			return l >= r
		case "&":
			return int32(l & r)
		case "|":
			return int32(l | r)
		case "^":
			return int32(l ^ r)
		case "<<":
			return int32(l << uint(r))
		case ">>":
			return int32(l >> uint(r))
		}
	}
	panic(errs.NewEvaluationError("unsupported binary operator %q", op))
}

func mathMod(a, b float64) float64 { return a - float64(int64(a/b))*b }

func isIntegral64(v any) bool { _, ok := v.(int64); return ok }
func isFloating(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int8:
		return float64(n)
	case int16:
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
	default:
		panic(errs.NewEvaluationError("cannot use %T as a number", v))
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case uint16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	default:
		panic(errs.NewEvaluationError("cannot use %T as an integer", v))
	}
}

func dynamicEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumeric(a) && isNumeric(b) {
		return toFloat64(a) == toFloat64(b)
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int8, int16, uint16, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func (w *walker) evalAssign(v *ast.Assign) any {
	target, ok := v.Target.(*ast.NameRef)
	if !ok {
		panic(errs.NewEvaluationError("assignment target must be a local variable, got %s", ast.String(v.Target)))
	}
	var val any
	if v.Op == "=" {
		val = w.eval(v.Value)
	} else {
		binOp := v.Op[:len(v.Op)-1]
		current := w.resolveName(target.Name)
		rhs := w.eval(v.Value)
		if isBig(current) || isBig(rhs) {
			val = evalBigBinary(binOp, current, rhs)
		} else {
			val = evalNumericBinary(binOp, current, rhs)
		}
	}
	w.locals[target.Name] = val
	return val
}

func (w *walker) evalCast(v *ast.Cast) any {
	val := w.eval(v.Inner)
	if !v.TargetType.IsPrimitive() {
		if val != nil && v.TargetType.Go != nil && !reflect.TypeOf(val).AssignableTo(v.TargetType.Go) {
			panic(errs.NewEvaluationError("cannot cast %T to %s", val, v.TargetType.String()))
		}
		return val
	}
	return coerceTo(v.TargetType.Primitive, val)
}

func coerceTo(tag types.PrimitiveTag, v any) any {
	if b, ok := v.(bool); ok {
		if tag == types.Boolean {
			return b
		}
		panic(errs.NewEvaluationError("cannot cast bool to %s", tag))
	}
	f := toFloat64(v)
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
		panic(errs.NewEvaluationError("cannot cast to %s", tag))
	}
}

func (w *walker) evalFieldGet(scope any, field string) any {
	if scope == nil {
		panic(errs.NewEvaluationError("nil pointer: cannot read field %q", field))
	}
	rv := deref.Value(reflect.ValueOf(scope))
	if rv.Kind() == reflect.Map {
		item := rv.MapIndex(reflect.ValueOf(field))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	}
	if fv := rv.FieldByName(field); fv.IsValid() {
		return fv.Interface()
	}
	if method, ok := reflectcache.Method(deref.Type(reflect.TypeOf(scope)), field, 0); ok {
		out := reflect.ValueOf(scope).Method(method.Index).Call(nil)
		if len(out) > 0 {
			return out[0].Interface()
		}
		return nil
	}
	panic(errs.NewEvaluationError("no field or getter %q on %T", field, scope))
}

// evalArrayAccess implements SPEC_FULL §8 scenario 5's permanent fallback
// category: indexing into a generic-erased List whose element type is not
// statically known (types.Descriptor.IsGeneric()), handled here by plain
// reflection over whatever concrete slice/array value the context holds.
func (w *walker) evalArrayAccess(v *ast.ArrayAccess) any {
	scope := w.eval(v.Scope)
	idx := w.eval(v.Index)
	i := int(toInt64(idx))
	rv := reflect.ValueOf(scope)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			panic(errs.NewEvaluationError("index %d out of range (length %d)", i, rv.Len()))
		}
		return rv.Index(i).Interface()
	case reflect.Map:
		item := rv.MapIndex(reflect.ValueOf(i))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	default:
		panic(errs.NewEvaluationError("cannot index into %T", scope))
	}
}

func (w *walker) evalMethodCall(v *ast.MethodCall) any {
	if nameRef, ok := v.Scope.(*ast.NameRef); ok {
		if _, isLocal := w.locals[nameRef.Name]; !isLocal {
			if _, _, isDecl := w.table.Lookup(nameRef.Name); !isDecl && nameRef.Name != w.table.Context.Name {
				if cls, ok := classreg.Lookup(nameRef.Name); ok {
					if fn, ok := cls.Method(v.Name); ok {
						return callReflect(fn, w.evalArgs(v.Args))
					}
				}
			}
		}
	}
	if v.Scope == nil {
		if cls, ok := classreg.Lookup("Util"); ok {
			if fn, ok := cls.Method(v.Name); ok {
				return callReflect(fn, w.evalArgs(v.Args))
			}
		}
		panic(errs.NewEvaluationError("unresolved bare function call %q", v.Name))
	}

	recv := w.eval(v.Scope)
	rv := reflect.ValueOf(recv)

	if rv.IsValid() && rv.Kind() == reflect.Map && v.Name == "get" && len(v.Args) == 1 {
		key := w.eval(v.Args[0])
		item := rv.MapIndex(reflect.ValueOf(key))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	}

	method, ok := reflectcache.Method(rv.Type(), v.Name, len(v.Args))
	if !ok {
		panic(errs.NewEvaluationError("no method %s/%d on %T", v.Name, len(v.Args), recv))
	}
	return callReflect(rv.Method(method.Index), w.evalArgs(v.Args))
}

func (w *walker) evalArgs(args []ast.Node) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = w.eval(a)
	}
	return out
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

// evalObjectNew handles constructors of any arity, including arity > 1
// (permanently fallback-only per SPEC_FULL §4.C). Known classreg
// constructors are tried first; otherwise, for a resolved struct type with
// no registered constructor, arguments are assigned positionally to
// exported fields in declaration order, a documented best-effort
// convention for the fallback path only (see DESIGN.md).
func (w *walker) evalObjectNew(v *ast.ObjectNew) any {
	args := w.evalArgs(v.Args)

	if cls, ok := classreg.Lookup(v.TypeName); ok {
		if ctor, ok := cls.Method("valueOf"); ok {
			wantArity := ctor.Type().NumIn()
			if !ctor.Type().IsVariadic() && wantArity == len(args) {
				return callReflect(ctor, args)
			}
		}
	}

	goType := v.Type().Go
	if goType == nil {
		panic(errs.NewEvaluationError("cannot resolve constructor target type %q", v.TypeName))
	}
	structType := goType
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	instance := reflect.New(structType)
	elem := instance.Elem()
	if len(args) > 0 && elem.Kind() == reflect.Struct {
		for i := 0; i < len(args) && i < elem.NumField(); i++ {
			f := elem.Field(i)
			if f.CanSet() {
				f.Set(reflect.ValueOf(args[i]))
			}
		}
	}
	if goType.Kind() == reflect.Ptr {
		return instance.Interface()
	}
	return elem.Interface()
}

func toDisplayString(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	if str, ok := v.(interface{ String() string }); ok {
		return str.String()
	}
	return fmt.Sprintf("%v", v)
}
