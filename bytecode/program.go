package bytecode

import (
	"fmt"
	"strings"
)

// Instruction is one emitted op plus its argument, mirroring
// blastbao-expr's compiler.go parallel bytecode/arguments arrays, folded
// into a single slice of structs since this VM has no debug-info sidecar
// to keep index-aligned with a separate array.
type Instruction struct {
	Op  Op
	Arg int
}

// Program is what the direct emitter (package emit) produces, and what the
// vm package executes. It is the SPEC_FULL §0 stand-in for a compiled class: an
// entry point, a constant pool, and a local-slot count, instead of
// literal class bytes.
type Program struct {
	Instructions []Instruction
	Constants    []any
	NumSlots     int

	// SourceText is retained for error reporting only; it never affects
	// the digest (NormalizedInstructionString does not read it).
	SourceText string
}

// Emit appends an instruction and returns its index, for later jump
// patching by the caller (Patch).
func (p *Program) Emit(op Op, arg int) int {
	p.Instructions = append(p.Instructions, Instruction{Op: op, Arg: arg})
	return len(p.Instructions) - 1
}

// Patch rewrites the argument of an already-emitted instruction, used to
// backfill jump targets once the jump destination is known.
func (p *Program) Patch(at int, arg int) {
	p.Instructions[at].Arg = arg
}

// Here returns the index the next Emit call will produce.
func (p *Program) Here() int {
	return len(p.Instructions)
}

// AddConstant interns a constant, returning its pool index. Values are
// deduplicated with ==, except *MethodRef values, which are always
// appended fresh, matching blastbao-expr's
// addConstant special-casing of *runtime.Field/*runtime.Method.
func (p *Program) AddConstant(v any) int {
	if isComparable(v) {
		for i, c := range p.Constants {
			if c == v {
				return i
			}
		}
	}
	p.Constants = append(p.Constants, v)
	return len(p.Constants) - 1
}

func isComparable(v any) bool {
	switch v.(type) {
	case *MethodRef:
		return false
	default:
		return true
	}
}

// MethodRef is the constant-pool payload for OpInvokeStatic/OpInvokeVirtual:
// enough to resolve and call the target again without re-walking the AST.
type MethodRef struct {
	Owner  string // class name for static calls; "" for virtual calls
	Name   string
	Arity  int
}

// NormalizedInstructionString renders the instruction stream without
// anything SourceText-adjacent: no labels, no line numbers, no debug
// names, only opcodes and their resolved constant/slot arguments. This is
// exactly the input SPEC_FULL §4.E's murmur3 digest hashes. Two Programs
// compiled from sources that differ only in the names of `var` locals
// produce the same string (locals appear as slot indices); names read
// from a MAP or POJO context appear in it as constants.
func (p *Program) NormalizedInstructionString() string {
	var b strings.Builder
	for _, ins := range p.Instructions {
		b.WriteString(ins.Op.String())
		b.WriteByte(' ')
		switch ins.Op {
		case OpConst, OpBoxAs, OpCheckCast, OpInstanceOf, OpLoadCtxMap, OpLoadCtxField, OpInvokeStatic, OpInvokeVirtual:
			fmt.Fprintf(&b, "%v", normalizeConstant(p.Constants[ins.Arg]))
		default:
			fmt.Fprintf(&b, "%d", ins.Arg)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func normalizeConstant(v any) any {
	if ref, ok := v.(*MethodRef); ok {
		return fmt.Sprintf("%s.%s/%d", ref.Owner, ref.Name, ref.Arity)
	}
	return v
}
