package timeout

import (
	"testing"

	"shockcore/datum"
)

// fakeExecutor records every Invoke/InvokeGlobal call name, answering
// handled=true for everything so a single hop satisfies dispatch.
type fakeExecutor struct {
	calls []string
}

func (f *fakeExecutor) Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (bool, bool) {
	f.calls = append(f.calls, name)
	return true, false
}

func (f *fakeExecutor) InvokeGlobal(name string, args []datum.Value) bool {
	f.calls = append(f.calls, name)
	return true
}

// A period-P timeout must fire on the 3rd and 4th tick of the sequence
// t0, t0+P-1, t0+P, t0+2P — not on the first two.
func TestProcessTimeoutsFiresAtPeriodBoundaries(t *testing.T) {
	const t0, period = int64(1000), int64(250)
	exec := &fakeExecutor{}
	m := NewManager(exec)
	m.CreateTimeout("tick", period, "onTick", datum.Void{}, t0, true)

	ticks := []int64{t0, t0 + period - 1, t0 + period, t0 + 2*period}
	var fireCountAfter []int
	for _, now := range ticks {
		m.ProcessTimeouts(now)
		fireCountAfter = append(fireCountAfter, len(exec.calls))
	}

	if fireCountAfter[0] != 0 {
		t.Fatalf("expected no fire at t0, got %d calls", fireCountAfter[0])
	}
	if fireCountAfter[1] != 0 {
		t.Fatalf("expected no fire at t0+P-1, got %d calls", fireCountAfter[1])
	}
	if fireCountAfter[2] != 1 {
		t.Fatalf("expected exactly 1 fire by t0+P, got %d calls", fireCountAfter[2])
	}
	if fireCountAfter[3] != 2 {
		t.Fatalf("expected exactly 2 fires by t0+2P, got %d calls", fireCountAfter[3])
	}
}

// Forget removes a timeout so it never fires again, even past its period.
func TestForgetStopsFiring(t *testing.T) {
	exec := &fakeExecutor{}
	m := NewManager(exec)
	m.CreateTimeout("once", 100, "onTick", datum.Void{}, 0, false)
	m.Forget("once")
	m.ProcessTimeouts(1000)

	if len(exec.calls) != 0 {
		t.Fatalf("expected no calls after Forget, got %d", len(exec.calls))
	}
	if _, ok := m.Get("once"); ok {
		t.Fatal("expected Get to report the timeout gone after Forget")
	}
}

// A ScriptInstance target dispatches through the ancestor chain: no
// handler on the instance itself falls through to its ancestor.
func TestFireDispatchesThroughAncestorChain(t *testing.T) {
	a := datum.NewScriptInstance(datum.ScriptRef{CastLib: 1, Member: 1}, datum.NewPropList())
	b := datum.NewScriptInstance(datum.ScriptRef{CastLib: 1, Member: 2}, datum.NewPropList())
	a.SetAncestor(b)

	exec := &ancestorExecutor{handledAt: map[int32]bool{2: true}}
	m := NewManager(exec)
	m.CreateTimeout("tick", 10, "onTick", a, 0, true)
	m.ProcessTimeouts(10)

	if len(exec.calls) != 2 {
		t.Fatalf("expected A then B invoked, got %d: %v", len(exec.calls), exec.calls)
	}
}

// A non-ScriptInstance target (e.g. VOID, the "global timeout" case) fires
// via InvokeGlobal rather than the ancestor walk.
func TestFireWithNonInstanceTargetInvokesGlobal(t *testing.T) {
	exec := &fakeExecutor{}
	m := NewManager(exec)
	m.CreateTimeout("tick", 10, "onTick", datum.Void{}, 0, true)
	m.ProcessTimeouts(10)

	if len(exec.calls) != 1 || exec.calls[0] != "onTick" {
		t.Fatalf("expected a single InvokeGlobal(\"onTick\") call, got %v", exec.calls)
	}
}

// ancestorExecutor answers handled=true only for the member numbers listed
// in handledAt, letting a test script which hop in the chain responds.
type ancestorExecutor struct {
	handledAt map[int32]bool
	calls     []int32
}

func (a *ancestorExecutor) Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (bool, bool) {
	a.calls = append(a.calls, member)
	return a.handledAt[member], false
}

func (a *ancestorExecutor) InvokeGlobal(name string, args []datum.Value) bool { return false }
