// Package bytecode defines the instruction set the direct emitter
// (package emit) targets and the vm package executes. It plays the role
// SPEC_FULL §0 assigns it: a stand-in for JVM class-file bytecode, chosen
// so that §4.E's "normalized method-body digest" has a concrete
// per-instruction textual form to hash.
package bytecode

import "fmt"

type Op byte

const (
	OpInvalid Op = iota

	// stack / locals
	OpConst    // arg: constant pool index
	OpLoadVar  // arg: local slot
	OpStoreVar // arg: local slot
	OpPop
	OpTrue
	OpFalse
	OpNull

	// context access (decl.ContextKind-specific)
	OpLoadCtxMap   // arg: constant pool index of the variable name
	OpLoadCtxList  // arg: declaration position
	OpLoadCtxField // arg: constant pool index of the getter/field name

	// unary
	OpNot
	OpNegateInt
	OpNegateLong
	OpNegateFloat
	OpNegateDouble
	OpBitNotInt
	OpBitNotLong

	// widening conversions (SPEC_FULL retarget of the JVM's i2l/i2f/... family)
	OpWidenToInt
	OpWidenToLong
	OpWidenToFloat
	OpWidenToDouble

	// arithmetic, one opcode per widened type
	OpAddInt
	OpAddLong
	OpAddFloat
	OpAddDouble
	OpSubInt
	OpSubLong
	OpSubFloat
	OpSubDouble
	OpMulInt
	OpMulLong
	OpMulFloat
	OpMulDouble
	OpDivInt
	OpDivLong
	OpDivFloat
	OpDivDouble
	OpModInt
	OpModLong
	OpModFloat
	OpModDouble

	// bitwise / shift, int and long only
	OpBAndInt
	OpBAndLong
	OpBOrInt
	OpBOrLong
	OpBXorInt
	OpBXorLong
	OpShlInt
	OpShlLong
	OpShrInt
	OpShrLong

	// string concatenation
	OpToString
	OpConcatString

	// comparisons, one opcode per widened type; float/double variants rely
	// on Go's own IEEE-754 comparison operators, which are already the
	// NaN-safe variant SPEC_FULL §4.C requires (NaN compares false for
	// every ordered comparison and for ==, true for !=).
	OpLtInt
	OpLeInt
	OpGtInt
	OpGeInt
	OpEqInt
	OpNeInt
	OpLtLong
	OpLeLong
	OpGtLong
	OpGeLong
	OpEqLong
	OpNeLong
	OpLtFloat
	OpLeFloat
	OpGtFloat
	OpGeFloat
	OpEqFloat
	OpNeFloat
	OpLtDouble
	OpLeDouble
	OpGtDouble
	OpGeDouble
	OpEqDouble
	OpNeDouble
	OpEqBool
	OpNeBool
	OpEqStr
	OpNeStr
	OpEqRef
	OpNeRef

	OpInstanceOf // arg: constant pool index of the target type name

	// branches; the argument of every jump/branch is the absolute index of
	// its target instruction (the emitter patches it with Program.Here()).
	OpJump
	OpJumpIfFalsePop // pops the condition; used by If/ternary
	OpBranchIfFalse  // peeks; used by && short-circuit
	OpBranchIfTrue   // peeks; used by || short-circuit

	OpReturn

	// boxing: in a Go host these collapse to identity/type-assertion (see
	// SPEC_FULL DESIGN.md), but are kept as distinct instructions so the
	// normalized digest still distinguishes "returns Boolean" emissions
	// from "returns int" emissions the way the spec's return-boxing rule
	// requires.
	OpBoxAs   // arg: constant pool index of the boxed class name
	OpUnbox   // arg: types.PrimitiveTag, numeric coercion + assertion
	OpCheckCast // arg: constant pool index of the target reference type name

	// calls
	OpInvokeStatic  // arg: constant pool index of *MethodRef
	OpInvokeVirtual // arg: constant pool index of *MethodRef
	OpMapGet        // map-like pattern: scope.get("key")

	OpEnd // sentinel; must stay last
)

var names = [...]string{
	OpInvalid: "OpInvalid", OpConst: "OpConst", OpLoadVar: "OpLoadVar",
	OpStoreVar: "OpStoreVar", OpPop: "OpPop", OpTrue: "OpTrue", OpFalse: "OpFalse",
	OpNull: "OpNull", OpLoadCtxMap: "OpLoadCtxMap", OpLoadCtxList: "OpLoadCtxList",
	OpLoadCtxField: "OpLoadCtxField", OpNot: "OpNot",
	OpNegateInt: "OpNegateInt", OpNegateLong: "OpNegateLong",
	OpNegateFloat: "OpNegateFloat", OpNegateDouble: "OpNegateDouble",
	OpBitNotInt: "OpBitNotInt", OpBitNotLong: "OpBitNotLong",
	OpWidenToInt: "OpWidenToInt", OpWidenToLong: "OpWidenToLong",
	OpWidenToFloat: "OpWidenToFloat", OpWidenToDouble: "OpWidenToDouble",
	OpAddInt: "OpAddInt", OpAddLong: "OpAddLong", OpAddFloat: "OpAddFloat", OpAddDouble: "OpAddDouble",
	OpSubInt: "OpSubInt", OpSubLong: "OpSubLong", OpSubFloat: "OpSubFloat", OpSubDouble: "OpSubDouble",
	OpMulInt: "OpMulInt", OpMulLong: "OpMulLong", OpMulFloat: "OpMulFloat", OpMulDouble: "OpMulDouble",
	OpDivInt: "OpDivInt", OpDivLong: "OpDivLong", OpDivFloat: "OpDivFloat", OpDivDouble: "OpDivDouble",
	OpModInt: "OpModInt", OpModLong: "OpModLong", OpModFloat: "OpModFloat", OpModDouble: "OpModDouble",
	OpBAndInt: "OpBAndInt", OpBAndLong: "OpBAndLong", OpBOrInt: "OpBOrInt", OpBOrLong: "OpBOrLong",
	OpBXorInt: "OpBXorInt", OpBXorLong: "OpBXorLong",
	OpShlInt: "OpShlInt", OpShlLong: "OpShlLong", OpShrInt: "OpShrInt", OpShrLong: "OpShrLong",
	OpToString: "OpToString", OpConcatString: "OpConcatString",
	OpLtInt: "OpLtInt", OpLeInt: "OpLeInt", OpGtInt: "OpGtInt", OpGeInt: "OpGeInt", OpEqInt: "OpEqInt", OpNeInt: "OpNeInt",
	OpLtLong: "OpLtLong", OpLeLong: "OpLeLong", OpGtLong: "OpGtLong", OpGeLong: "OpGeLong", OpEqLong: "OpEqLong", OpNeLong: "OpNeLong",
	OpLtFloat: "OpLtFloat", OpLeFloat: "OpLeFloat", OpGtFloat: "OpGtFloat", OpGeFloat: "OpGeFloat", OpEqFloat: "OpEqFloat", OpNeFloat: "OpNeFloat",
	OpLtDouble: "OpLtDouble", OpLeDouble: "OpLeDouble", OpGtDouble: "OpGtDouble", OpGeDouble: "OpGeDouble", OpEqDouble: "OpEqDouble", OpNeDouble: "OpNeDouble",
	OpEqBool: "OpEqBool", OpNeBool: "OpNeBool", OpEqStr: "OpEqStr", OpNeStr: "OpNeStr", OpEqRef: "OpEqRef", OpNeRef: "OpNeRef",
	OpInstanceOf: "OpInstanceOf",
	OpJump:       "OpJump", OpJumpIfFalsePop: "OpJumpIfFalsePop", OpBranchIfFalse: "OpBranchIfFalse", OpBranchIfTrue: "OpBranchIfTrue",
	OpReturn: "OpReturn", OpBoxAs: "OpBoxAs", OpUnbox: "OpUnbox", OpCheckCast: "OpCheckCast",
	OpInvokeStatic: "OpInvokeStatic", OpInvokeVirtual: "OpInvokeVirtual", OpMapGet: "OpMapGet",
	OpEnd: "OpEnd",
}

func (op Op) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}
