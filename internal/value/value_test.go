package value_test

import (
	"testing"

	"quill/internal/value"
)

func TestArithmeticClosure(t *testing.T) {
	cases := []struct {
		name string
		a, b value.Value
		want value.Value
	}{
		{"int+int", value.Int(2), value.Int(3), value.Int(5)},
		{"int+float", value.Int(2), value.Float(1.5), value.Float(3.5)},
		{"string+string", value.String("foo"), value.String("bar"), value.String("foobar")},
		{"int+string", value.Int(1), value.String("x"), value.Null},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := value.Add(c.a, c.b)
			if !value.Equal(got, c.want) {
				t.Fatalf("Add(%v,%v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestDivideByZero(t *testing.T) {
	if _, err := value.Divide(value.Int(1), value.Int(0)); err == nil {
		t.Fatal("expected division-by-zero error")
	}
	if _, err := value.Modulo(value.Int(1), value.Int(0)); err == nil {
		t.Fatal("expected modulo-by-zero error")
	}
}

func TestDivisionAlwaysYieldsNumber(t *testing.T) {
	got, err := value.Divide(value.Int(7), value.Int(2))
	if err != nil {
		t.Fatalf("divide: %v", err)
	}
	if !got.IsFloat() || got.AsFloat() != 3.5 {
		t.Fatalf("7/2 = %v, want float 3.5", got)
	}

	// Even an exact Integer quotient stays in the Number domain;
	// only Add/Subtract/Multiply are Integer-closed.
	got, err = value.Divide(value.Int(6), value.Int(2))
	if err != nil {
		t.Fatalf("divide: %v", err)
	}
	if !got.IsFloat() || got.AsFloat() != 3.0 {
		t.Fatalf("6/2 = %v, want float 3.0", got)
	}

	got, err = value.Modulo(value.Int(7), value.Int(4))
	if err != nil {
		t.Fatalf("modulo: %v", err)
	}
	if !got.IsFloat() || got.AsFloat() != 3.0 {
		t.Fatalf("7%%4 = %v, want float 3.0", got)
	}

	got, err = value.FloorDiv(value.Int(-7), value.Int(2))
	if err != nil {
		t.Fatalf("floordiv: %v", err)
	}
	if !got.IsFloat() || got.AsFloat() != -4.0 {
		t.Fatalf("-7 floordiv 2 = %v, want float -4.0", got)
	}
}

func TestCompareCrossTypeIsUnordered(t *testing.T) {
	if _, ok := value.Compare(value.Int(1), value.String("x")); ok {
		t.Fatal("expected Int/String comparison to be unordered")
	}
	if _, ok := value.Compare(value.Array(nil), value.Array(nil)); ok {
		t.Fatal("expected Array comparison to be unordered")
	}
}

func TestTruthiness(t *testing.T) {
	falsy := []value.Value{value.Null, value.Bool(false), value.Int(0), value.Float(0), value.String("")}
	for _, v := range falsy {
		if v.IsTruthy() {
			t.Fatalf("%v should be falsy", v)
		}
	}
	truthy := []value.Value{value.Bool(true), value.Int(1), value.String("x"), value.Array([]value.Value{value.Int(1)})}
	for _, v := range truthy {
		if !v.IsTruthy() {
			t.Fatalf("%v should be truthy", v)
		}
	}
}

func TestIntegerNumberRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -99999, 1 << 40} {
		f, ok := value.Int(n).ToNumber()
		if !ok {
			t.Fatalf("Int(%d) must convert to Number", n)
		}
		if value.Float(f).ToInteger() != n {
			t.Fatalf("round trip of %d through Number yielded %d", n, value.Float(f).ToInteger())
		}
	}
}

func TestStringConcatenationIsAssociative(t *testing.T) {
	a, b, c := value.String("foo"), value.String("bar"), value.String("baz")
	left := value.Add(value.Add(a, b), c)
	right := value.Add(a, value.Add(b, c))
	if !value.Equal(left, right) {
		t.Fatalf("(a+b)+c = %v, a+(b+c) = %v", left, right)
	}
}

func TestDisplayStringRoundTrips(t *testing.T) {
	if got := value.Int(42).ToDisplayString(); got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
	if got := value.Float(1.5).ToDisplayString(); got != "1.5" {
		t.Fatalf("got %q, want 1.5", got)
	}
	if got := value.String("hi").ToDisplayString(); got != "hi" {
		t.Fatalf("got %q, want hi", got)
	}
}
