package domain

import "fmt"

// ValueType is the sum of an AtomType and its array variant (§3). A
// ValueType with IsArray set describes a homogeneous array of Atom.
type ValueType struct {
	Atom    AtomType
	IsArray bool
}

// ScalarType builds a non-array ValueType for atom.
func ScalarType(atom AtomType) ValueType {
	return ValueType{Atom: atom}
}

// ArrayType builds an array ValueType over atom.
func ArrayType(atom AtomType) ValueType {
	return ValueType{Atom: atom, IsArray: true}
}

// IsValid reports whether t names a recognized atom kind.
func (t ValueType) IsValid() bool {
	return t.Atom.IsValid()
}

// String renders t as e.g. "double" or "array(double)".
func (t ValueType) String() string {
	if t.IsArray {
		return fmt.Sprintf("array(%s)", t.Atom)
	}
	return t.Atom.String()
}

// Equal reports whether t and other describe the same shape.
func (t ValueType) Equal(other ValueType) bool {
	return t.Atom == other.Atom && t.IsArray == other.IsArray
}

// Variant holds a single value of one ValueType (§3). The Go zero value of
// Variant carries no atom kind and is rejected by AsDouble; ZeroVariant
// builds the typed zero the kernel's state initialisation uses (§4.7).
type Variant struct {
	vtype ValueType
	i     int64
	f     float64
	b     bool
	s     string
	pt    Point
	arr   []Variant
}

// Type returns the ValueType this Variant was constructed with.
func (v Variant) Type() ValueType {
	return v.vtype
}

// NewIntVariant builds an Atom(int) Variant.
func NewIntVariant(i int64) Variant {
	return Variant{vtype: ScalarType(AtomInt), i: i}
}

// NewDoubleVariant builds an Atom(double) Variant.
func NewDoubleVariant(f float64) Variant {
	return Variant{vtype: ScalarType(AtomDouble), f: f}
}

// NewBoolVariant builds an Atom(bool) Variant.
func NewBoolVariant(b bool) Variant {
	return Variant{vtype: ScalarType(AtomBool), b: b}
}

// NewStringVariant builds an Atom(string) Variant.
func NewStringVariant(s string) Variant {
	return Variant{vtype: ScalarType(AtomString), s: s}
}

// NewPointVariant builds an Atom(point) Variant.
func NewPointVariant(p Point) Variant {
	return Variant{vtype: ScalarType(AtomPoint), pt: p}
}

// NewArrayVariant builds an array Variant over atom from elems. Elements are
// not re-validated against atom; callers are expected to pass elements of
// matching ValueType (delay-queue pushes do, by construction).
func NewArrayVariant(atom AtomType, elems []Variant) Variant {
	cp := make([]Variant, len(elems))
	copy(cp, elems)
	return Variant{vtype: ArrayType(atom), arr: cp}
}

// ZeroVariant builds the zero value of vt: 0 / 0.0 / false / "" / {0,0} for
// scalars, an empty array for arrays.
func ZeroVariant(vt ValueType) Variant {
	if vt.IsArray {
		return Variant{vtype: vt, arr: []Variant{}}
	}
	switch vt.Atom {
	case AtomInt:
		return NewIntVariant(0)
	case AtomBool:
		return NewBoolVariant(false)
	case AtomString:
		return NewStringVariant("")
	case AtomPoint:
		return NewPointVariant(Point{})
	default:
		return NewDoubleVariant(0)
	}
}

// AsDouble coerces v to a double (§3: every Variant must expose this).
// Bool coerces to 1/0; int promotes; string, point and array values are not
// coercible and return a ValueError.
func (v Variant) AsDouble() (float64, error) {
	switch v.vtype.Atom {
	case AtomDouble:
		if v.vtype.IsArray {
			return 0, NewValueError("cannot coerce array(double) to double")
		}
		return v.f, nil
	case AtomInt:
		if v.vtype.IsArray {
			return 0, NewValueError("cannot coerce array(int) to double")
		}
		return float64(v.i), nil
	case AtomBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, NewValueError("cannot coerce %s to double", v.vtype)
	}
}

// AsInt coerces v to an int64. Doubles truncate toward zero.
func (v Variant) AsInt() (int64, error) {
	switch v.vtype.Atom {
	case AtomInt:
		return v.i, nil
	case AtomDouble:
		return int64(v.f), nil
	case AtomBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, NewValueError("cannot coerce %s to int", v.vtype)
	}
}

// AsBool coerces v to a bool. Numeric values are truthy when non-zero.
func (v Variant) AsBool() (bool, error) {
	switch v.vtype.Atom {
	case AtomBool:
		return v.b, nil
	case AtomInt:
		return v.i != 0, nil
	case AtomDouble:
		return v.f != 0, nil
	default:
		return false, NewValueError("cannot coerce %s to bool", v.vtype)
	}
}

// AsString returns v's string value, or an error if v is not Atom(string).
func (v Variant) AsString() (string, error) {
	if v.vtype.Atom != AtomString || v.vtype.IsArray {
		return "", NewValueError("cannot coerce %s to string", v.vtype)
	}
	return v.s, nil
}

// AsPoint returns v's point value, or an error if v is not Atom(point).
func (v Variant) AsPoint() (Point, error) {
	if v.vtype.Atom != AtomPoint || v.vtype.IsArray {
		return Point{}, NewValueError("cannot coerce %s to point", v.vtype)
	}
	return v.pt, nil
}

// AsArray returns v's element slice, or an error if v is not an array.
func (v Variant) AsArray() ([]Variant, error) {
	if !v.vtype.IsArray {
		return nil, NewValueError("cannot coerce %s to array", v.vtype)
	}
	return v.arr, nil
}

// Len returns the number of elements in an array Variant, or 0 for scalars.
func (v Variant) Len() int {
	if !v.vtype.IsArray {
		return 0
	}
	return len(v.arr)
}

// Pushed returns a copy of the array Variant v with elem appended. v must be
// an array Variant; used by the delay queue, which never mutates a pushed
// queue in place (state is copied by value across RK4 stages, §5).
func (v Variant) Pushed(elem Variant) Variant {
	next := make([]Variant, len(v.arr), len(v.arr)+1)
	copy(next, v.arr)
	next = append(next, elem)
	return Variant{vtype: v.vtype, arr: next}
}

// PoppedFront returns the front element and a copy of v with it removed. v
// must be a non-empty array Variant.
func (v Variant) PoppedFront() (Variant, Variant, error) {
	if !v.vtype.IsArray || len(v.arr) == 0 {
		return Variant{}, v, NewValueError("pop from empty or non-array %s", v.vtype)
	}
	front := v.arr[0]
	rest := make([]Variant, len(v.arr)-1)
	copy(rest, v.arr[1:])
	return front, Variant{vtype: v.vtype, arr: rest}, nil
}

// VariantFromDouble builds a Variant of the given atom kind from a double,
// the inverse of AsDouble — used by Delay/Smooth, whose internal state is
// typed by the atom of whatever parameter feeds them (§4.4).
func VariantFromDouble(atom AtomType, f float64) Variant {
	switch atom {
	case AtomInt:
		return NewIntVariant(int64(f))
	case AtomBool:
		return NewBoolVariant(f != 0)
	default:
		return NewDoubleVariant(f)
	}
}

// InferValueType reports the AtomType a Go value maps to, classifying it
// against the closed ValueType sum instead of an open any-typed variable
// bag.
func InferValueType(v any) (AtomType, bool) {
	switch v.(type) {
	case int, int32, int64:
		return AtomInt, true
	case float32, float64:
		return AtomDouble, true
	case bool:
		return AtomBool, true
	case string:
		return AtomString, true
	case Point:
		return AtomPoint, true
	default:
		return "", false
	}
}
