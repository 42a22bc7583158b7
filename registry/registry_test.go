package registry

import (
	"testing"

	"github.com/arborlang/evalc/bytecode"
)

func addProgram(v int32) *bytecode.Program {
	p := &bytecode.Program{}
	p.Emit(bytecode.OpConst, p.AddConstant(v))
	p.Emit(bytecode.OpReturn, 0)
	return p
}

func TestDefineDedupesIdenticalPrograms(t *testing.T) {
	r := New()

	e1, reused1 := r.Define(addProgram(42))
	if reused1 {
		t.Fatalf("first Define reported reused=true")
	}
	e2, reused2 := r.Define(addProgram(42))
	if !reused2 {
		t.Fatalf("second Define with identical bytecode reported reused=false")
	}
	if e1 != e2 {
		t.Fatalf("expected the same *Entry to be returned for identical programs")
	}
	if r.Size() != 1 {
		t.Fatalf("expected exactly one entry after two identical Defines, got %d", r.Size())
	}
}

func TestDefineKeepsDistinctProgramsSeparate(t *testing.T) {
	r := New()

	r.Define(addProgram(1))
	r.Define(addProgram(2))

	if r.Size() != 2 {
		t.Fatalf("expected two distinct entries, got %d", r.Size())
	}
}

func TestLookupFindsDefinedProgram(t *testing.T) {
	r := New()
	prog := addProgram(7)
	defined, _ := r.Define(prog)

	found, ok := r.Lookup(prog)
	if !ok {
		t.Fatalf("Lookup did not find a program that was Define'd")
	}
	if found != defined {
		t.Fatalf("Lookup returned a different entry than Define did")
	}
}

func TestLookupMissesUndefinedProgram(t *testing.T) {
	r := New()
	r.Define(addProgram(1))

	if _, ok := r.Lookup(addProgram(999)); ok {
		t.Fatalf("Lookup reported a hit for a program that was never Define'd")
	}
}

func TestComputeDigestIsDeterministic(t *testing.T) {
	d1, s1 := ComputeDigest(addProgram(5))
	d2, s2 := ComputeDigest(addProgram(5))
	if d1 != d2 {
		t.Fatalf("ComputeDigest is not deterministic for identical programs: %s != %s", d1, d2)
	}
	if s1 != s2 {
		t.Fatalf("normalized instruction strings differ for identical programs")
	}
}

func TestComputeDigestDistinguishesPrograms(t *testing.T) {
	d1, _ := ComputeDigest(addProgram(5))
	d2, _ := ComputeDigest(addProgram(6))
	if d1 == d2 {
		t.Fatalf("expected different digests for different constants")
	}
}
