// Package types defines the TypeDescriptor carried by every Declaration and
// every typed EIR node: a primitive tag, a resolved reference type, or (for
// the fallback path only) an unresolved generic string.
package types

import (
	"reflect"
)

// PrimitiveTag enumerates the eight JVM-style primitive kinds the
// declaration schema accepts. See SPEC_FULL.md §3 for the Go host type each
// tag maps onto.
type PrimitiveTag int

const (
	NotPrimitive PrimitiveTag = iota
	Int
	Long
	Short
	Byte
	Char
	Float
	Double
	Boolean
)

func (t PrimitiveTag) String() string {
	switch t {
	case Int:
		return "int"
	case Long:
		return "long"
	case Short:
		return "short"
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Float:
		return "float"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	default:
		return "notPrimitive"
	}
}

// GoType returns the Go type a primitive tag is represented as at runtime.
// The mapping is not the identity map: Java's signed byte and unsigned
// 16-bit char have no exact Go alias, so byte maps to int8 and char maps to
// uint16 rather than Go's byte/rune.
func (t PrimitiveTag) GoType() reflect.Type {
	switch t {
	case Int:
		return reflect.TypeOf(int32(0))
	case Long:
		return reflect.TypeOf(int64(0))
	case Short:
		return reflect.TypeOf(int16(0))
	case Byte:
		return reflect.TypeOf(int8(0))
	case Char:
		return reflect.TypeOf(uint16(0))
	case Float:
		return reflect.TypeOf(float32(0))
	case Double:
		return reflect.TypeOf(float64(0))
	case Boolean:
		return reflect.TypeOf(false)
	default:
		return nil
	}
}

// IsNumeric reports whether the tag participates in the widening lattice.
func (t PrimitiveTag) IsNumeric() bool {
	switch t {
	case Int, Long, Short, Byte, Char, Float, Double:
		return true
	default:
		return false
	}
}

// rank orders the widening lattice double > float > long > int, with the
// narrower integral tags (short, byte, char) ranked below int since they
// always widen to int first.
func (t PrimitiveTag) rank() int {
	switch t {
	case Double:
		return 5
	case Float:
		return 4
	case Long:
		return 3
	case Int:
		return 2
	case Short, Byte, Char:
		return 1
	default:
		return 0
	}
}

// Widen returns the wider of two numeric tags per the double > float > long
// > int lattice, with short/byte/char always widening to int first.
func Widen(a, b PrimitiveTag) PrimitiveTag {
	ra, rb := a.rank(), b.rank()
	if ra == 1 {
		a = Int
		ra = 2
	}
	if rb == 1 {
		b = Int
		rb = 2
	}
	if ra >= rb {
		return a
	}
	return b
}

// Descriptor is the TypeDescriptor of §3.1/§6.2: either a primitive tag, a
// resolved reference type, or (fallback-only) an unresolved generic string.
type Descriptor struct {
	Primitive PrimitiveTag // NotPrimitive if this is a reference/generic descriptor

	FQCN string       // reference type's fully-qualified name as written by the caller
	Go   reflect.Type // resolved Go type backing FQCN; nil until resolved

	Generic string // raw unresolved generic text, fallback path only

	Nil bool // the literal `null`, distinct from any reference type
}

// IsPrimitive reports whether this descriptor names a primitive tag.
func (d Descriptor) IsPrimitive() bool { return d.Primitive != NotPrimitive }

// IsReference reports whether this descriptor names a resolved reference type.
func (d Descriptor) IsReference() bool { return d.Primitive == NotPrimitive && d.Go != nil && !d.Nil }

// IsGeneric reports whether this descriptor is an unresolved generic,
// usable only by the fallback path.
func (d Descriptor) IsGeneric() bool { return d.Generic != "" }

// IsUnknown reports a descriptor that has not been resolved to anything.
func (d Descriptor) IsUnknown() bool {
	return !d.IsPrimitive() && !d.IsReference() && !d.IsGeneric() && !d.Nil
}

func (d Descriptor) String() string {
	switch {
	case d.Nil:
		return "null"
	case d.IsPrimitive():
		return d.Primitive.String()
	case d.IsGeneric():
		return d.Generic
	case d.Go != nil:
		return d.FQCN
	default:
		return "unknown"
	}
}

func Prim(tag PrimitiveTag) Descriptor { return Descriptor{Primitive: tag} }

func Ref(fqcn string, goType reflect.Type) Descriptor {
	return Descriptor{FQCN: fqcn, Go: goType}
}

func GenericRef(raw string) Descriptor { return Descriptor{Generic: raw} }

var NullDescriptor = Descriptor{Nil: true}

// Equal compares two descriptors for the purposes of declaration lookup and
// method-resolution caching. Reference equality is by resolved Go type
// when both sides have one, otherwise by FQCN text.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.IsPrimitive() || o.IsPrimitive() {
		return d.Primitive == o.Primitive
	}
	if d.Nil || o.Nil {
		return d.Nil == o.Nil
	}
	if d.Go != nil && o.Go != nil {
		return d.Go == o.Go
	}
	return d.FQCN == o.FQCN && d.Generic == o.Generic
}

// ParsePrimitiveTag maps a declaration-schema primitive name to its tag.
func ParsePrimitiveTag(name string) (PrimitiveTag, bool) {
	switch name {
	case "int":
		return Int, true
	case "long":
		return Long, true
	case "short":
		return Short, true
	case "byte":
		return Byte, true
	case "char":
		return Char, true
	case "float":
		return Float, true
	case "double":
		return Double, true
	case "boolean", "bool":
		return Boolean, true
	default:
		return NotPrimitive, false
	}
}

// KindOf reduces a descriptor to the reflect.Kind it will leave on the stack
// (primitive tags map to their Go host kind; references to their Go kind).
func KindOf(d Descriptor) reflect.Kind {
	switch {
	case d.IsPrimitive():
		return d.Primitive.GoType().Kind()
	case d.Go != nil:
		return d.Go.Kind()
	default:
		return reflect.Invalid
	}
}
