package emit

import (
	"fmt"
	"reflect"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/bytecode"
	"github.com/arborlang/evalc/classreg"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/internal/reflectcache"
	"github.com/arborlang/evalc/types"
)

func (f *frame) emitExpr(n ast.Node) error {
	switch v := n.(type) {
	case *ast.IntLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.LongLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.ShortLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.ByteLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.FloatLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.DoubleLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.CharLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.BoolLit:
		if v.Value {
			f.prog.Emit(bytecode.OpTrue, 0)
		} else {
			f.prog.Emit(bytecode.OpFalse, 0)
		}
	case *ast.StringLit:
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(v.Value))
	case *ast.NullLit:
		f.prog.Emit(bytecode.OpNull, f.prog.AddConstant(nil))
	case *ast.Enclosed:
		return f.emitExpr(v.Inner)
	case *ast.NameRef:
		return f.emitNameRef(v)
	case *ast.Unary:
		return f.emitUnary(v)
	case *ast.Binary:
		return f.emitBinary(v)
	case *ast.Assign:
		return f.emitAssign(v)
	case *ast.Cast:
		return f.emitCast(v)
	case *ast.Conditional:
		return f.emitConditional(v)
	case *ast.FieldGet:
		return f.emitFieldGet(v)
	case *ast.MethodCall:
		return f.emitMethodCall(v)
	case *ast.ObjectNew:
		return f.emitObjectNew(v)
	default:
		return errs.NewCompileError("direct emitter cannot handle this expression", "", fmt.Sprintf("%T", n), nil)
	}
	return nil
}

// emitNameRef implements the declaration-table-kind-specific load of
// SPEC_FULL §5: a local (scope) variable takes priority, then the
// context per decl.Table.Kind.
func (f *frame) emitNameRef(v *ast.NameRef) error {
	if slot, ok := f.slots[v.Name]; ok {
		f.prog.Emit(bytecode.OpLoadVar, slot)
		return nil
	}
	_, idx, ok := f.table.Lookup(v.Name)
	if !ok {
		return errs.NewCompileError("unresolved identifier", "", v.Name, nil)
	}
	switch f.table.Kind {
	case decl.MAP:
		f.prog.Emit(bytecode.OpLoadCtxMap, f.prog.AddConstant(v.Name))
	case decl.LIST:
		f.prog.Emit(bytecode.OpLoadCtxList, idx)
	case decl.POJO:
		f.prog.Emit(bytecode.OpLoadCtxField, f.prog.AddConstant(v.Name))
	}
	return nil
}

func (f *frame) emitUnary(v *ast.Unary) error {
	if err := f.emitExpr(v.Inner); err != nil {
		return err
	}
	tag := v.Inner.Type().Primitive
	switch v.Op {
	case "!":
		f.prog.Emit(bytecode.OpNot, 0)
	case "-":
		switch tag {
		case types.Long:
			f.prog.Emit(bytecode.OpNegateLong, 0)
		case types.Float:
			f.prog.Emit(bytecode.OpNegateFloat, 0)
		case types.Double:
			f.prog.Emit(bytecode.OpNegateDouble, 0)
		default:
			f.widenNarrowToInt(tag)
			f.prog.Emit(bytecode.OpNegateInt, 0)
		}
	case "~":
		if tag == types.Long {
			f.prog.Emit(bytecode.OpBitNotLong, 0)
		} else {
			f.widenNarrowToInt(tag)
			f.prog.Emit(bytecode.OpBitNotInt, 0)
		}
	default:
		return errs.NewCompileError("unsupported unary operator", "", v.Op, nil)
	}
	return nil
}

// widenNarrowToInt emits the short/byte/char -> int conversion every
// arithmetic opcode in the Int family expects on its operand, per the
// widening lattice's "short/byte/char widen to int first" rule.
func (f *frame) widenNarrowToInt(tag types.PrimitiveTag) {
	switch tag {
	case types.Short, types.Byte, types.Char:
		f.prog.Emit(bytecode.OpWidenToInt, 0)
	}
}

func (f *frame) widenTo(target types.PrimitiveTag, from types.PrimitiveTag) {
	if from == types.Short || from == types.Byte || from == types.Char {
		if target == types.Int || target == types.Long || target == types.Float || target == types.Double {
			f.prog.Emit(bytecode.OpWidenToInt, 0)
			from = types.Int
		}
	}
	if from == target {
		return
	}
	switch target {
	case types.Long:
		f.prog.Emit(bytecode.OpWidenToLong, 0)
	case types.Float:
		f.prog.Emit(bytecode.OpWidenToFloat, 0)
	case types.Double:
		f.prog.Emit(bytecode.OpWidenToDouble, 0)
	}
}

func (f *frame) emitBinary(v *ast.Binary) error {
	switch v.Op {
	case "&&":
		return f.emitShortCircuit(v, false)
	case "||":
		return f.emitShortCircuit(v, true)
	case "instanceof":
		return f.emitInstanceOf(v)
	}

	leftTag, rightTag := v.Left.Type().Primitive, v.Right.Type().Primitive
	isString := v.Left.Type().FQCN == "java.lang.String" || v.Right.Type().FQCN == "java.lang.String"

	if v.Op == "+" && isString {
		if err := f.emitToString(v.Left); err != nil {
			return err
		}
		if err := f.emitToString(v.Right); err != nil {
			return err
		}
		f.prog.Emit(bytecode.OpConcatString, 0)
		return nil
	}

	switch v.Op {
	case "==", "!=":
		return f.emitEquality(v, leftTag, rightTag)
	}

	widened := types.Widen(leftTag, rightTag)
	if err := f.emitExpr(v.Left); err != nil {
		return err
	}
	f.widenTo(widened, leftTag)
	if err := f.emitExpr(v.Right); err != nil {
		return err
	}
	f.widenTo(widened, rightTag)

	var op bytecode.Op
	switch v.Op {
	case "+":
		op = pick(widened, bytecode.OpAddInt, bytecode.OpAddLong, bytecode.OpAddFloat, bytecode.OpAddDouble)
	case "-":
		op = pick(widened, bytecode.OpSubInt, bytecode.OpSubLong, bytecode.OpSubFloat, bytecode.OpSubDouble)
	case "*":
		op = pick(widened, bytecode.OpMulInt, bytecode.OpMulLong, bytecode.OpMulFloat, bytecode.OpMulDouble)
	case "/":
		op = pick(widened, bytecode.OpDivInt, bytecode.OpDivLong, bytecode.OpDivFloat, bytecode.OpDivDouble)
	case "%":
		op = pick(widened, bytecode.OpModInt, bytecode.OpModLong, bytecode.OpModFloat, bytecode.OpModDouble)
	case "<":
		op = pick(widened, bytecode.OpLtInt, bytecode.OpLtLong, bytecode.OpLtFloat, bytecode.OpLtDouble)
	case "<=":
		op = pick(widened, bytecode.OpLeInt, bytecode.OpLeLong, bytecode.OpLeFloat, bytecode.OpLeDouble)
	case ">":
		op = pick(widened, bytecode.OpGtInt, bytecode.OpGtLong, bytecode.OpGtFloat, bytecode.OpGtDouble)
	case ">=":
		op = pick(widened, bytecode.OpGeInt, bytecode.OpGeLong, bytecode.OpGeFloat, bytecode.OpGeDouble)
	case "&":
		op = pickIntegral(widened, bytecode.OpBAndInt, bytecode.OpBAndLong)
	case "|":
		op = pickIntegral(widened, bytecode.OpBOrInt, bytecode.OpBOrLong)
	case "^":
		op = pickIntegral(widened, bytecode.OpBXorInt, bytecode.OpBXorLong)
	case "<<":
		op = pickIntegral(widened, bytecode.OpShlInt, bytecode.OpShlLong)
	case ">>":
		op = pickIntegral(widened, bytecode.OpShrInt, bytecode.OpShrLong)
	default:
		return errs.NewCompileError("unsupported binary operator", "", v.Op, nil)
	}
	f.prog.Emit(op, 0)
	return nil
}

func pick(tag types.PrimitiveTag, i, l, fl, d bytecode.Op) bytecode.Op {
	switch tag {
	case types.Long:
		return l
	case types.Float:
		return fl
	case types.Double:
		return d
	default:
		return i
	}
}

func pickIntegral(tag types.PrimitiveTag, i, l bytecode.Op) bytecode.Op {
	if tag == types.Long {
		return l
	}
	return i
}

// emitEquality picks OpEqInt/OpEqStr-style widened-or-reference
// equality the way blastbao-expr's equalBinaryNode does: numeric operands
// widen and compare numerically, strings compare by content, everything
// else compares by Go reference/nil semantics.
func (f *frame) emitEquality(v *ast.Binary, leftTag, rightTag types.PrimitiveTag) error {
	ne := v.Op == "!="
	switch {
	case leftTag.IsNumeric() && rightTag.IsNumeric():
		widened := types.Widen(leftTag, rightTag)
		if err := f.emitExpr(v.Left); err != nil {
			return err
		}
		f.widenTo(widened, leftTag)
		if err := f.emitExpr(v.Right); err != nil {
			return err
		}
		f.widenTo(widened, rightTag)
		eq, neOp := pick(widened, bytecode.OpEqInt, bytecode.OpEqLong, bytecode.OpEqFloat, bytecode.OpEqDouble),
			pick(widened, bytecode.OpNeInt, bytecode.OpNeLong, bytecode.OpNeFloat, bytecode.OpNeDouble)
		if ne {
			f.prog.Emit(neOp, 0)
		} else {
			f.prog.Emit(eq, 0)
		}
		return nil
	case leftTag == types.Boolean && rightTag == types.Boolean:
		if err := f.emitExpr(v.Left); err != nil {
			return err
		}
		if err := f.emitExpr(v.Right); err != nil {
			return err
		}
		if ne {
			f.prog.Emit(bytecode.OpNeBool, 0)
		} else {
			f.prog.Emit(bytecode.OpEqBool, 0)
		}
		return nil
	case v.Left.Type().FQCN == "java.lang.String" && v.Right.Type().FQCN == "java.lang.String":
		if err := f.emitExpr(v.Left); err != nil {
			return err
		}
		if err := f.emitExpr(v.Right); err != nil {
			return err
		}
		if ne {
			f.prog.Emit(bytecode.OpNeStr, 0)
		} else {
			f.prog.Emit(bytecode.OpEqStr, 0)
		}
		return nil
	default:
		if err := f.emitExpr(v.Left); err != nil {
			return err
		}
		if err := f.emitExpr(v.Right); err != nil {
			return err
		}
		if ne {
			f.prog.Emit(bytecode.OpNeRef, 0)
		} else {
			f.prog.Emit(bytecode.OpEqRef, 0)
		}
		return nil
	}
}

func (f *frame) emitToString(n ast.Node) error {
	if err := f.emitExpr(n); err != nil {
		return err
	}
	if n.Type().FQCN != "java.lang.String" {
		f.prog.Emit(bytecode.OpToString, 0)
	}
	return nil
}

// emitShortCircuit mirrors blastbao-expr's BinaryNode &&/|| emission: a
// peeking conditional branch, a Pop on the fallthrough path, then the
// right operand. isOr selects OpBranchIfTrue (||) vs OpBranchIfFalse (&&).
func (f *frame) emitShortCircuit(v *ast.Binary, isOr bool) error {
	if err := f.emitExpr(v.Left); err != nil {
		return err
	}
	var end int
	if isOr {
		end = f.prog.Emit(bytecode.OpBranchIfTrue, 0)
	} else {
		end = f.prog.Emit(bytecode.OpBranchIfFalse, 0)
	}
	f.prog.Emit(bytecode.OpPop, 0)
	if err := f.emitExpr(v.Right); err != nil {
		return err
	}
	f.prog.Patch(end, f.prog.Here())
	return nil
}

func (f *frame) emitInstanceOf(v *ast.Binary) error {
	if err := f.emitExpr(v.Left); err != nil {
		return err
	}
	target := v.Right.Type()
	if target.IsUnknown() {
		return errs.NewTypeResolutionError(f.prog.SourceText, v.Location(), ast.String(v.Right))
	}
	f.prog.Emit(bytecode.OpInstanceOf, f.prog.AddConstant(target))
	return nil
}

func (f *frame) emitAssign(v *ast.Assign) error {
	target, ok := v.Target.(*ast.NameRef)
	if !ok {
		return errs.NewCompileError("assignment target must be a local variable", "", ast.String(v.Target), nil)
	}
	if v.Op != "=" {
		binOp := v.Op[:len(v.Op)-1]
		if err := f.emitBinary(&ast.Binary{Base: v.Base, Op: binOp, Left: target, Right: v.Value}); err != nil {
			return err
		}
	} else if err := f.emitExpr(v.Value); err != nil {
		return err
	}
	slot := f.allocSlot(target.Name)
	f.prog.Emit(bytecode.OpStoreVar, slot)
	f.prog.Emit(bytecode.OpLoadVar, slot)
	return nil
}

func (f *frame) emitCast(v *ast.Cast) error {
	if err := f.emitExpr(v.Inner); err != nil {
		return err
	}
	if v.TargetType.IsPrimitive() {
		f.prog.Emit(bytecode.OpUnbox, int(v.TargetType.Primitive))
		return nil
	}
	f.prog.Emit(bytecode.OpCheckCast, f.prog.AddConstant(v.TargetType))
	return nil
}

func (f *frame) emitConditional(v *ast.Conditional) error {
	if err := f.emitExpr(v.Cond); err != nil {
		return err
	}
	elseJump := f.prog.Emit(bytecode.OpJumpIfFalsePop, 0)
	if err := f.emitExpr(v.Then); err != nil {
		return err
	}
	endJump := f.prog.Emit(bytecode.OpJump, 0)
	f.prog.Patch(elseJump, f.prog.Here())
	if err := f.emitExpr(v.Else); err != nil {
		return err
	}
	f.prog.Patch(endJump, f.prog.Here())
	return nil
}

// emitFieldGet resolves a.b at emit time against the scope's static
// descriptor through internal/reflectcache.Field, and emits a
// reflective getter call. There is no fast static-offset path here (no
// Go struct layout access from bytecode), and Field does not cache, so
// every emission repeats the reflect.Type.FieldByName lookup.
func (f *frame) emitFieldGet(v *ast.FieldGet) error {
	if err := f.emitExpr(v.Scope); err != nil {
		return err
	}
	scopeType := v.Scope.Type()
	if scopeType.Go == nil {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), scopeType.String(), v.Field)
	}
	if _, ok := reflectcache.Field(scopeType.Go, v.Field); !ok {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), scopeType.String(), v.Field)
	}
	f.prog.Emit(bytecode.OpLoadCtxField, f.prog.AddConstant(v.Field))
	return nil
}

func (f *frame) emitMethodCall(v *ast.MethodCall) error {
	// static call: scope is a bare class name known to classreg.
	if nameRef, ok := v.Scope.(*ast.NameRef); ok {
		if _, isLocal := f.slots[nameRef.Name]; !isLocal {
			if _, _, isDecl := f.table.Lookup(nameRef.Name); !isDecl {
				if cls, ok := classreg.Lookup(nameRef.Name); ok {
					return f.emitStaticCall(v, cls)
				}
			}
		}
	}
	if v.Scope == nil {
		if cls, ok := classreg.Lookup("Util"); ok {
			if _, ok := cls.Method(v.Name); ok {
				return f.emitStaticCall(v, cls)
			}
		}
		return errs.NewCompileError("unresolved bare function call", "", v.Name, nil)
	}

	if err := f.emitExpr(v.Scope); err != nil {
		return err
	}
	scopeType := v.Scope.Type()
	if scopeType.Go == nil {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), scopeType.String(), v.Name)
	}
	if _, ok := reflectcache.Method(scopeType.Go, v.Name, len(v.Args)); !ok {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), scopeType.String(), v.Name)
	}
	for _, a := range v.Args {
		if err := f.emitExpr(a); err != nil {
			return err
		}
	}
	ref := &bytecode.MethodRef{Name: v.Name, Arity: len(v.Args)}
	f.prog.Emit(bytecode.OpInvokeVirtual, f.prog.AddConstant(ref))
	return f.emitReturnBoxing(v.Type())
}

func (f *frame) emitStaticCall(v *ast.MethodCall, cls *classreg.Class) error {
	fn, ok := cls.Method(v.Name)
	if !ok {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), cls.Name, v.Name)
	}
	wantArity := fn.Type().NumIn()
	if fn.Type().IsVariadic() {
		if len(v.Args) < wantArity-1 {
			return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), cls.Name, v.Name)
		}
	} else if len(v.Args) != wantArity {
		return errs.NewMethodResolutionError(f.prog.SourceText, v.Location(), cls.Name, v.Name)
	}
	for _, a := range v.Args {
		if err := f.emitExpr(a); err != nil {
			return err
		}
	}
	ref := &bytecode.MethodRef{Owner: cls.Name, Name: v.Name, Arity: len(v.Args)}
	f.prog.Emit(bytecode.OpInvokeStatic, f.prog.AddConstant(ref))
	return f.emitReturnBoxing(v.Type())
}

// emitReturnBoxing implements the emitter's return-boxing rule: a call
// result destined for a reference-typed slot is boxed to the *declared*
// boxed class, not to whatever class the primitive's natural boxed form
// would be (SPEC_FULL §4.C).
func (f *frame) emitReturnBoxing(resultType types.Descriptor) error {
	if resultType.IsPrimitive() {
		return nil
	}
	if !resultType.IsReference() {
		return nil
	}
	if name, ok := classreg.BoxedFor(resultType.Go.Kind()); ok {
		f.prog.Emit(bytecode.OpBoxAs, f.prog.AddConstant(name))
	}
	return nil
}

func (f *frame) emitObjectNew(v *ast.ObjectNew) error {
	cls, ok := classreg.Lookup(v.TypeName)
	if ok {
		ctor, hasCtor := cls.Method("valueOf")
		if hasCtor && ctor.Type().NumIn() == len(v.Args) {
			for _, a := range v.Args {
				if err := f.emitExpr(a); err != nil {
					return err
				}
			}
			ref := &bytecode.MethodRef{Owner: cls.Name, Name: "valueOf", Arity: len(v.Args)}
			f.prog.Emit(bytecode.OpInvokeStatic, f.prog.AddConstant(ref))
			return nil
		}
	}
	if len(v.Args) == 0 {
		goType := v.Type().Go
		if goType == nil {
			return errs.NewTypeResolutionError(f.prog.SourceText, v.Location(), v.TypeName)
		}
		zero := reflect.New(derefType(goType)).Interface()
		f.prog.Emit(bytecode.OpConst, f.prog.AddConstant(zero))
		return nil
	}
	return errs.NewCompileError("unsupported constructor arity", "", v.TypeName, nil)
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
