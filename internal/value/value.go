// Package value implements the tagged runtime value used by both the
// baseline and adaptive tiers of the core execution engine.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the language's runtime types. The zero
// Value is Null, so absent values need no special construction.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	m    map[string]Value
}

// Null is the canonical absent value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }
func Int(i int64) Value   { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

func Map(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsMap() bool    { return v.kind == KindMap }
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) AsBool() bool          { return v.b }
func (v Value) AsInt() int64          { return v.i }
func (v Value) AsFloat() float64      { return v.f }
func (v Value) AsString() string      { return v.s }
func (v Value) AsArray() []Value      { return v.arr }
func (v Value) AsMap() map[string]Value { return v.m }

// ToNumber converts v to float64 for coercions that fall back to Number.
func (v Value) ToNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// ToInteger converts v to int64 for bitwise operations; Booleans convert
// to 1/0 and other non-numeric operands convert to 0 rather than
// erroring.
func (v Value) ToInteger() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToDisplayString renders v the way Print/println render it.
func (v Value) ToDisplayString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.ToDisplayString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, v.m[k].ToDisplayString())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<unknown>"
	}
}

// IsTruthy reports whether v is truthy: false, Null, zero, the empty
// string, and empty collections are falsy; everything else is truthy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0.0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindMap:
		return len(v.m) > 0
	default:
		return true
	}
}

// Add implements `+`: Integer+Integer -> Integer, any Number operand ->
// Number, String+String -> concatenation, everything else -> Null.
func Add(a, b Value) Value {
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.i + b.i)
	}
	if a.IsNumeric() && b.IsNumeric() {
		an, _ := a.ToNumber()
		bn, _ := b.ToNumber()
		return Float(an + bn)
	}
	if a.kind == KindString && b.kind == KindString {
		return String(a.s + b.s)
	}
	return Null
}

func Subtract(a, b Value) Value {
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.i - b.i)
	}
	if a.IsNumeric() && b.IsNumeric() {
		an, _ := a.ToNumber()
		bn, _ := b.ToNumber()
		return Float(an - bn)
	}
	return Null
}

func Multiply(a, b Value) Value {
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.i * b.i)
	}
	if a.IsNumeric() && b.IsNumeric() {
		an, _ := a.ToNumber()
		bn, _ := b.ToNumber()
		return Float(an * bn)
	}
	return Null
}

// Divide fails with a typed runtime error on division by zero; this
// package reports that as a plain Go error so callers attach their own
// error-kind wrapping (see internal/enginerr). The quotient is always
// Number, even for Integer operands that divide evenly — division,
// modulo, floor division, and exponentiation all compute through the
// Number domain, unlike the Integer-closed Add/Subtract/Multiply.
func Divide(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null, nil
	}
	an, _ := a.ToNumber()
	bn, _ := b.ToNumber()
	if bn == 0 {
		return Null, fmt.Errorf("division by zero")
	}
	return Float(an / bn), nil
}

// FloorDiv implements the IR's FloorDiv opcode. The result is always
// Number.
func FloorDiv(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null, nil
	}
	an, _ := a.ToNumber()
	bn, _ := b.ToNumber()
	if bn == 0 {
		return Null, fmt.Errorf("division by zero")
	}
	return Float(math.Floor(an / bn)), nil
}

// Modulo fails with a typed runtime error on modulo by zero. The
// result is always Number, with the remainder taking the dividend's
// sign.
func Modulo(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null, nil
	}
	an, _ := a.ToNumber()
	bn, _ := b.ToNumber()
	if bn == 0 {
		return Null, fmt.Errorf("modulo by zero")
	}
	return Float(math.Mod(an, bn)), nil
}

func Negate(a Value) Value {
	switch a.kind {
	case KindInt:
		return Int(-a.i)
	case KindFloat:
		return Float(-a.f)
	default:
		return Null
	}
}

// Equal implements cross-type equality: numeric compares numerically,
// string compares lexicographically, everything else compares by kind
// and payload; cross-type/kind mismatches are simply unequal (never an
// error).
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		an, _ := a.ToNumber()
		bn, _ := b.ToNumber()
		return an == bn
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, v := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(v, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements ordering: numeric pairs compare numerically, string
// pairs lexicographically. The second return is false for any other
// combination, in which case comparisons defined on top of Compare must
// yield Null rather than throw.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.IsNumeric() && b.IsNumeric() {
		an, _ := a.ToNumber()
		bn, _ := b.ToNumber()
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.s, b.s), true
	}
	return 0, false
}

func Not(a Value) Value {
	return Bool(!a.IsTruthy())
}
