package vm

import (
	"strings"

	"shockcore/datum"
)

// stepBinary implements the arithmetic/compare/logic/string opcodes that
// pop two operands and push one result. The polymorphism lives in the
// datum package; this is the stack-shuffling glue around it.
func (vm *VM) stepBinary(scope *Scope, op Op) stepOutcome {
	b := scope.pop()
	a := scope.pop()
	switch op {
	case OpAdd:
		v, err := datum.Add(a, b)
		if err != nil {
			return errOut(err)
		}
		scope.push(v)
	case OpSub:
		v, err := datum.Sub(a, b)
		if err != nil {
			return errOut(err)
		}
		scope.push(v)
	case OpMul:
		v, err := datum.Mul(a, b)
		if err != nil {
			return errOut(err)
		}
		scope.push(v)
	case OpDiv:
		v, err := datum.Div(a, b)
		if err != nil {
			return errOut(err)
		}
		scope.push(v)
	case OpMod:
		v, err := datum.Mod(a, b)
		if err != nil {
			return errOut(err)
		}
		scope.push(v)
	case OpJoinStr:
		scope.push(datum.Concat(a, b))
	case OpJoinPadStr:
		scope.push(datum.PaddedConcat(a, b))
	case OpLt:
		scope.push(boolDatum(datum.Compare(a, b) < 0))
	case OpLtEq:
		scope.push(boolDatum(datum.Compare(a, b) <= 0))
	case OpGt:
		scope.push(boolDatum(datum.Compare(a, b) > 0))
	case OpGtEq:
		scope.push(boolDatum(datum.Compare(a, b) >= 0))
	case OpEq:
		scope.push(boolDatum(a.Equal(b)))
	case OpNtEq:
		scope.push(boolDatum(!a.Equal(b)))
	case OpAnd:
		scope.push(boolDatum(datum.IsTruthy(a) && datum.IsTruthy(b)))
	case OpOr:
		scope.push(boolDatum(datum.IsTruthy(a) || datum.IsTruthy(b)))
	case OpContainsStr:
		scope.push(boolDatum(containsFold(datum.ToString(a), datum.ToString(b))))
	}
	return ok()
}

func boolDatum(b bool) datum.Value {
	if b {
		return datum.NewInt(1)
	}
	return datum.NewInt(0)
}

func containsFold(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

// stepSpriteGeom implements the `onto`/`into` sprite-geometry tests:
// both operands are Rect datums (typically
// fetched via get_chained_prop on `sprite(n).rect`), and the opcode pushes
// a boolean for intersection (onto) or full containment (into).
func (vm *VM) stepSpriteGeom(scope *Scope, op Op) stepOutcome {
	b := scope.pop()
	a := scope.pop()
	ar, aok := a.(datum.Rect)
	br, bok := b.(datum.Rect)
	if !aok || !bok {
		scope.push(datum.NewInt(0))
		return ok()
	}
	switch op {
	case OpOntoSpr:
		scope.push(boolDatum(ar.Intersects(br)))
	case OpIntoSpr:
		scope.push(boolDatum(br.Contains(ar)))
	}
	return ok()
}
