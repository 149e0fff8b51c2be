package datum

import "testing"

func TestIntStringRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 2147483647, -2147483648} {
		s := NewInt(n).String()
		got := ToInt(NewStr(s))
		if got != n {
			t.Errorf("round trip %d: got %d via %q", n, got, s)
		}
	}
}

func TestFloatStringRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 3.14159, -2500.125, 1e10, -1e-10} {
		s := NewFloat(f).String()
		got := ToFloat(NewStr(s))
		if got != f {
			t.Errorf("round trip %v: got %v via %q", f, got, s)
		}
	}
}

func TestListAliasing(t *testing.T) {
	a := NewList(NewInt(1), NewInt(2))
	b := a // copies the handle, not the backing store
	b.Append(NewInt(3))

	if a.Count() != 3 {
		t.Fatalf("expected alias a to see append, got count=%d", a.Count())
	}
	if !a.SameCell(b) {
		t.Fatalf("expected a and b to share the same cell")
	}
}

func TestListCloneIsIndependent(t *testing.T) {
	a := NewList(NewInt(1))
	c := a.Clone()
	c.Append(NewInt(2))
	if a.Count() != 1 {
		t.Fatalf("clone should not affect original, got count=%d", a.Count())
	}
}

func TestPropListAliasing(t *testing.T) {
	p := NewPropList([2]Value{NewStr("x"), NewInt(1)})
	q := p
	q.SetProp(NewStr("y"), NewInt(2))

	if p.Count() != 2 {
		t.Fatalf("expected alias to see SetProp, got count=%d", p.Count())
	}
}

func TestStringEqualityCaseInsensitive(t *testing.T) {
	if !NewStr("Hello").Equal(NewStr("hello")) {
		t.Fatal("expected case-insensitive string equality")
	}
}

func TestNumericCrossTypeEquality(t *testing.T) {
	if !NewInt(3).Equal(NewFloat(3.0)) {
		t.Fatal("expected Int(3) == Float(3.0)")
	}
}

func TestArithmeticPromotion(t *testing.T) {
	// Bytecode `push_int8 3; push_float32 0.5; add` -> Float(3.5), scenario 1.
	got, err := Add(NewInt(3), NewFloat(0.5))
	if err != nil {
		t.Fatal(err)
	}
	f, ok := got.(Float)
	if !ok || f.Val != 3.5 {
		t.Fatalf("expected Float(3.5), got %#v", got)
	}
}

func TestIntegerDivisionCollapse(t *testing.T) {
	got, err := Div(NewInt(10), NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(Int); !ok {
		t.Fatalf("expected evenly-divisible Div to collapse to Int, got %#v", got)
	}

	got, err = Div(NewInt(10), NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(Float); !ok {
		t.Fatalf("expected non-even Div to promote to Float, got %#v", got)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(NewInt(1), NewInt(0)); err != ErrDivByZero {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
	if _, err := Mod(NewInt(1), NewInt(0)); err != ErrDivByZero {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NewInt(0), false},
		{NewInt(1), true},
		{NewStr(""), false},
		{NewStr("x"), true},
		{NewList(), false},
		{NewList(NewInt(1)), true},
		{Void{}, false},
		{SpriteRef{Channel: 3}, true},
		{CastMemberRef{CastLib: 1, Member: 2}, true},
		{NewScriptInstance(ScriptRef{CastLib: 1, Member: 1}, NewPropList()), true},
	}
	for _, c := range cases {
		if got := IsTruthy(c.v); got != c.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}
