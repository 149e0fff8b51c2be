package builtins

import (
	"testing"

	"shockcore/datum"
)

func TestRegistryCallUnknownReportsMiss(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.Call("notARealBuiltin", nil, nil)
	if ok {
		t.Fatal("expected unknown built-in to report ok=false")
	}
}

func TestRegistryCallIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	v, err, ok := r.Call("INTEGER", nil, []datum.Value{datum.NewStr("42")})
	if !ok || err != nil {
		t.Fatalf("expected integer(\"42\") to resolve, got ok=%v err=%v", ok, err)
	}
	if got := datum.ToInt(v); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestListCountAndAliasing(t *testing.T) {
	r := NewRegistry()
	l := datum.NewList(datum.NewInt(1), datum.NewInt(2))

	v, _, ok := r.Call("count", nil, []datum.Value{l})
	if !ok || datum.ToInt(v) != 2 {
		t.Fatalf("expected count 2, got %v", v)
	}

	// b := a in script terms is just copying the Value, which for List
	// carries the same underlying cell.
	alias := l
	if _, err, ok := r.Call("add", nil, []datum.Value{alias, datum.NewInt(3)}); !ok || err != nil {
		t.Fatalf("add failed: ok=%v err=%v", ok, err)
	}
	if l.Count() != 3 {
		t.Fatalf("expected mutation through alias to be visible on original, count=%d", l.Count())
	}
}

// With itemDelimiter set to ";", "a;b;c" has 3 items and item 2 is "b".
func TestItemsRespectsCustomItemDelimiter(t *testing.T) {
	r := NewRegistry()
	ctx := &Context{ItemDelimiter: ";"}

	count, _, ok := r.Call("items", ctx, []datum.Value{datum.NewStr("a;b;c")})
	if !ok || datum.ToInt(count) != 3 {
		t.Fatalf("expected count 3, got ok=%v v=%v", ok, count)
	}

	second, _, ok := r.Call("items", ctx, []datum.Value{datum.NewStr("a;b;c"), datum.NewInt(2)})
	if !ok || datum.ToString(second) != "b" {
		t.Fatalf("expected item 2 = \"b\", got ok=%v v=%v", ok, second)
	}
}

func TestTheBuiltinEnvironmentValues(t *testing.T) {
	ctx := &Context{
		Platform:      "win",
		ItemDelimiter: ";",
		Now: func() Clock {
			return Clock{Ticks: 7, TimeOfDay: "10:00", Date: "1/1/2000", Milliseconds: 123}
		},
	}
	if got := TheBuiltin(ctx, "ticks"); datum.ToInt(got) != 7 {
		t.Fatalf("expected ticks 7, got %v", got)
	}
	if got := TheBuiltin(ctx, "platform"); datum.ToString(got) != "win" {
		t.Fatalf("expected platform win, got %v", got)
	}
	if got := TheBuiltin(ctx, "itemDelimiter"); datum.ToString(got) != ";" {
		t.Fatalf("expected itemDelimiter ;, got %v", got)
	}
	if got := TheBuiltin(nil, "nonsense"); got != (datum.Void{}) {
		t.Fatalf("expected Void for unknown builtin name, got %v", got)
	}
}
