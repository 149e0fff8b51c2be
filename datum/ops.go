package datum

import (
	"fmt"
	"strings"
)

// OpError is returned by the arithmetic/comparison helpers below when the
// operand types can't be reconciled. The VM maps this to a runtime error
// funneled through onError.
type OpError struct {
	Op string
}

func (e OpError) Error() string { return fmt.Sprintf("datum: invalid operand types for %s", e.Op) }

func bothNumeric(a, b Value) (af, bf float64, isFloat, ok bool) {
	ai, aIsI := a.(Int)
	bi, bIsI := b.(Int)
	if aIsI && bIsI {
		return float64(ai.Val), float64(bi.Val), false, true
	}
	af, aOk := numericFloat(a)
	bf2, bOk := numericFloat(b)
	if aOk && bOk {
		return af, bf2, true, true
	}
	return 0, 0, false, false
}

func numericFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t.Val), true
	case Float:
		return t.Val, true
	default:
		return 0, false
	}
}

// Add implements `+`: numeric addition with int/float promotion, or string
// concatenation when both operands are strings.
func Add(a, b Value) (Value, error) {
	if as, ok := a.(Str); ok {
		if bs, ok := b.(Str); ok {
			return Str{Val: as.Val + bs.Val}, nil
		}
	}
	af, bf, isFloat, ok := bothNumeric(a, b)
	if !ok {
		return nil, OpError{Op: "+"}
	}
	if isFloat {
		return Float{Val: af + bf}, nil
	}
	return Int{Val: int32(af) + int32(bf)}, nil
}

// Sub implements `-`.
func Sub(a, b Value) (Value, error) {
	af, bf, isFloat, ok := bothNumeric(a, b)
	if !ok {
		return nil, OpError{Op: "-"}
	}
	if isFloat {
		return Float{Val: af - bf}, nil
	}
	return Int{Val: int32(af) - int32(bf)}, nil
}

// Mul implements `*`.
func Mul(a, b Value) (Value, error) {
	af, bf, isFloat, ok := bothNumeric(a, b)
	if !ok {
		return nil, OpError{Op: "*"}
	}
	if isFloat {
		return Float{Val: af * bf}, nil
	}
	return Int{Val: int32(af) * int32(bf)}, nil
}

// ErrDivByZero is returned by Div/Mod when the divisor is zero.
var ErrDivByZero = fmt.Errorf("datum: division by zero")

// Div implements `/`. Integer division that divides evenly collapses to an
// Int result; otherwise it promotes to Float.
func Div(a, b Value) (Value, error) {
	ai, aIsI := a.(Int)
	bi, bIsI := b.(Int)
	if aIsI && bIsI {
		if bi.Val == 0 {
			return nil, ErrDivByZero
		}
		if ai.Val%bi.Val == 0 {
			return Int{Val: ai.Val / bi.Val}, nil
		}
		return Float{Val: float64(ai.Val) / float64(bi.Val)}, nil
	}
	af, bf, isFloat, ok := bothNumeric(a, b)
	if !ok {
		return nil, OpError{Op: "/"}
	}
	_ = isFloat
	if bf == 0 {
		return nil, ErrDivByZero
	}
	return Float{Val: af / bf}, nil
}

// Mod implements modulo; zero divisor fails like Div.
func Mod(a, b Value) (Value, error) {
	ai, aIsI := a.(Int)
	bi, bIsI := b.(Int)
	if aIsI && bIsI {
		if bi.Val == 0 {
			return nil, ErrDivByZero
		}
		return Int{Val: ai.Val % bi.Val}, nil
	}
	af, bf, _, ok := bothNumeric(a, b)
	if !ok {
		return nil, OpError{Op: "mod"}
	}
	if bf == 0 {
		return nil, ErrDivByZero
	}
	r := af - bf*float64(int64(af/bf))
	return Float{Val: r}, nil
}

// Concat joins two datums as strings (the `&` / string-join opcode family).
func Concat(a, b Value) Value {
	return Str{Val: ToString(a) + ToString(b)}
}

// PaddedConcat joins two datums as strings with exactly one inserted space.
func PaddedConcat(a, b Value) Value {
	return Str{Val: ToString(a) + " " + ToString(b)}
}

// Compare returns -1, 0, or 1: both-numeric
// compares numerically, else case-insensitive string compare.
func Compare(a, b Value) int {
	if af, aok := numericFloat(a); aok {
		if bf, bok := numericFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(strings.ToLower(ToString(a)), strings.ToLower(ToString(b)))
}
