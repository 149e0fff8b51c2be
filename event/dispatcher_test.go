package event

import (
	"testing"

	"shockcore/datum"
)

// fakeExecutor records Invoke calls and answers from a table keyed by
// (castLib, member, name), so tests can script exactly which links in an
// ancestor chain have a handler and whether it passes.
type fakeExecutor struct {
	// answers[castLib][member][name] = (handled, passed)
	answers map[[2]int32]map[string][2]bool
	calls   []string
}

type answer struct {
	handled, passed bool
}

func (f *fakeExecutor) set(castLib, member int32, name string, handled, passed bool) {
	if f.answers == nil {
		f.answers = map[[2]int32]map[string][2]bool{}
	}
	key := [2]int32{castLib, member}
	if f.answers[key] == nil {
		f.answers[key] = map[string][2]bool{}
	}
	v := [2]bool{handled, passed}
	f.answers[key][name] = v
}

func (f *fakeExecutor) Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (bool, bool) {
	f.calls = append(f.calls, name)
	key := [2]int32{castLib, member}
	if m, ok := f.answers[key]; ok {
		if v, ok := m[name]; ok {
			return v[0], v[1]
		}
	}
	return false, false
}

// fakeChannels implements ChannelSource over fixed per-channel/frame/movie
// instance lists, set up per test.
type fakeChannels struct {
	byChannel map[int32][]datum.ScriptInstance
	order     []int32
	frame     datum.ScriptInstance
	hasFrame  bool
	movie     []datum.ScriptInstance
}

func (c *fakeChannels) ChannelsInOrder() []int32 { return c.order }
func (c *fakeChannels) BehaviorsOnChannel(ch int32) []datum.ScriptInstance {
	return c.byChannel[ch]
}
func (c *fakeChannels) FrameScriptInstance() (datum.ScriptInstance, bool) { return c.frame, c.hasFrame }
func (c *fakeChannels) MovieScriptsInOrder() []datum.ScriptInstance { return c.movie }

func inst(castLib, member int32) datum.ScriptInstance {
	return datum.NewScriptInstance(datum.ScriptRef{CastLib: castLib, Member: member}, datum.NewPropList())
}

// Script A has no "hello"; A's ancestor B has "hello me: return 7". Calling
// the dispatcher on A must reach B's handler via the ancestor chain.
func TestCascadeAncestorsFallsThroughToAncestorHandler(t *testing.T) {
	a := inst(1, 1)
	b := inst(1, 2)
	a.SetAncestor(b)

	exec := &fakeExecutor{}
	exec.set(1, 1, "hello", false, false) // A: no handler
	exec.set(1, 2, "hello", true, false)  // B: handles, does not pass

	ch := &fakeChannels{byChannel: map[int32][]datum.ScriptInstance{1: {a}}, order: []int32{1}}
	d := NewDispatcher(exec, ch)

	d.DispatchSprite(1, "hello", nil)

	if len(exec.calls) != 2 {
		t.Fatalf("expected 2 Invoke calls (A then B), got %d: %v", len(exec.calls), exec.calls)
	}
}

// A handler on the instance itself that does not pass stops the cascade:
// its ancestor must never be invoked.
func TestCascadeStopsWhenHandlerDoesNotPass(t *testing.T) {
	a := inst(1, 1)
	b := inst(1, 2)
	a.SetAncestor(b)

	exec := &fakeExecutor{}
	exec.set(1, 1, "hello", true, false)
	exec.set(1, 2, "hello", true, false)

	ch := &fakeChannels{byChannel: map[int32][]datum.ScriptInstance{1: {a}}, order: []int32{1}}
	d := NewDispatcher(exec, ch)
	d.DispatchSprite(1, "hello", nil)

	if len(exec.calls) != 1 {
		t.Fatalf("expected only A's handler to fire, got %d calls: %v", len(exec.calls), exec.calls)
	}
}

// A handler that passes continues to the ancestor even though it was found
// (handled=true, passed=true): the cascade does not stop there.
func TestCascadeContinuesThroughAncestorOnPass(t *testing.T) {
	a := inst(1, 1)
	b := inst(1, 2)
	a.SetAncestor(b)

	exec := &fakeExecutor{}
	exec.set(1, 1, "hello", true, true) // handled but passes up
	exec.set(1, 2, "hello", true, false)

	ch := &fakeChannels{byChannel: map[int32][]datum.ScriptInstance{1: {a}}, order: []int32{1}}
	d := NewDispatcher(exec, ch)
	d.DispatchSprite(1, "hello", nil)

	if len(exec.calls) != 2 {
		t.Fatalf("expected A then B to fire, got %d calls: %v", len(exec.calls), exec.calls)
	}
}

// pass exhausting one behavior's ancestor chain must still move on to the
// next behavior in the same channel's list (a separate cascadeAncestors
// call, not a sibling hop within the same one).
func TestDispatchSpriteMovesToNextBehaviorAfterAncestorsExhausted(t *testing.T) {
	a := inst(1, 1) // no ancestor, passes
	c := inst(1, 3) // second behavior on the channel, handles and stops

	exec := &fakeExecutor{}
	exec.set(1, 1, "hello", true, true)
	exec.set(1, 3, "hello", true, false)

	ch := &fakeChannels{byChannel: map[int32][]datum.ScriptInstance{1: {a, c}}, order: []int32{1}}
	d := NewDispatcher(exec, ch)
	d.DispatchSprite(1, "hello", nil)

	if len(exec.calls) != 2 {
		t.Fatalf("expected both behaviors invoked, got %d: %v", len(exec.calls), exec.calls)
	}
}

// DispatchFrameAndMovie tries the frame script first, then movie scripts in
// order, stopping at the first handler that does not pass.
func TestDispatchFrameAndMovieOrder(t *testing.T) {
	frame := inst(2, 1)
	m1 := inst(2, 2)
	m2 := inst(2, 3)

	exec := &fakeExecutor{}
	exec.set(2, 1, "exitFrame", false, false)
	exec.set(2, 2, "exitFrame", true, false)
	exec.set(2, 3, "exitFrame", true, false)

	ch := &fakeChannels{frame: frame, hasFrame: true, movie: []datum.ScriptInstance{m1, m2}}
	d := NewDispatcher(exec, ch)
	d.DispatchFrameAndMovie("exitFrame", nil)

	if len(exec.calls) != 2 {
		t.Fatalf("expected frame then first movie script to stop the cascade, got %d: %v", len(exec.calls), exec.calls)
	}
}

// DispatchGlobal fans out to every channel's sprite cascade, then the
// frame/movie cascade.
func TestDispatchGlobalOrder(t *testing.T) {
	s1 := inst(1, 1)
	s2 := inst(1, 2)
	frame := inst(2, 1)

	exec := &fakeExecutor{}
	exec.set(1, 1, "idle", true, false)
	exec.set(1, 2, "idle", true, false)
	exec.set(2, 1, "idle", true, false)

	ch := &fakeChannels{
		byChannel: map[int32][]datum.ScriptInstance{1: {s1}, 2: {s2}},
		order:     []int32{1, 2},
		frame:     frame,
		hasFrame:  true,
	}
	d := NewDispatcher(exec, ch)
	d.DispatchGlobal("idle", nil)

	if len(exec.calls) != 3 {
		t.Fatalf("expected 3 calls (channel 1, channel 2, frame script), got %d: %v", len(exec.calls), exec.calls)
	}
}
