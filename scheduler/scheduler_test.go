package scheduler

import (
	"testing"

	"shockcore/builtins"
	"shockcore/chunk"
	"shockcore/host"
	"shockcore/resolve"
	"shockcore/vm"
)

// fakeHandlers resolves exactly one handler by (scriptID, name), everything
// else reports not-found — enough to exercise a single exitFrame handler
// without building a full movie/resolver.
type fakeHandlers struct {
	byScriptID map[int32]map[string]*resolve.Handle
}

func (f *fakeHandlers) FindHandler(name string) (*resolve.Handle, bool) { return nil, false }
func (f *fakeHandlers) FindHandlerInScript(castLib, member int32, name string) (*resolve.Handle, bool) {
	return nil, false
}
func (f *fakeHandlers) FindHandlerByScriptID(scriptID int32, name string) (*resolve.Handle, bool) {
	m, ok := f.byScriptID[scriptID]
	if !ok {
		return nil, false
	}
	h, ok := m[name]
	return h, ok
}
func (f *fakeHandlers) ResolveName(nameID int32) string { return "" }

// goHandle builds a resolve.Handle for a handler whose body calls go(frame)
// through the built-in registry: push_int frame; push_arg_list 1; ext_call
// "go" (nameID 0); ret.
func goHandle(scriptID int32, name string, frame int32) *resolve.Handle {
	code := []chunk.Instruction{
		{Offset: 0, Op: vm.OpPushInt, Argument: frame},
		{Offset: 1, Op: vm.OpPushArgList, Argument: 1},
		{Offset: 2, Op: vm.OpExtCall, Argument: 0},
		{Offset: 3, Op: vm.OpRet},
	}
	h := &chunk.Handler{Code: code}
	s := &chunk.Script{ID: scriptID, Handlers: []chunk.Handler{*h}}
	return &resolve.Handle{
		ScriptChunkID: scriptID,
		Script:        s,
		Handler:       h,
		Names:         &chunk.NameTable{Names: []string{"go"}},
		Name:          name,
	}
}

func fiveFrameMovie() *chunk.Movie {
	rows := make([]chunk.FrameRow, 5)
	for i := range rows {
		rows[i] = chunk.FrameRow{Frame: int32(i + 1)}
	}
	// Channel 5 only present in frame 1.
	rows[0].Sprites = []chunk.SpriteCell{{Channel: 5, MemberCastLib: 1, MemberNumber: 10}}
	// Channel 7 only present in frame 3, which also carries the exitFrame
	// handler that calls go(1).
	rows[2].Sprites = []chunk.SpriteCell{{Channel: 7, MemberCastLib: 1, MemberNumber: 20}}
	rows[2].FrameScript = 900
	return &chunk.Movie{Score: &chunk.Score{Rows: rows}}
}

func newTestScheduler(handlers *fakeHandlers) *Scheduler {
	v := vm.NewVM(handlers, nil, builtins.NewRegistry(), host.NopTraceListener{})
	v.Platform = "win"
	return New(v, fiveFrameMovie())
}

// A handler that calls go(1) during frame 3's exitFrame must land the
// scheduler on frame 1 after Advance, with channel 7 (only in frame 3)
// ended and channel 5 (only in frame 1) begun.
func TestGoDuringExitFrameOverridesNextFrame(t *testing.T) {
	handlers := &fakeHandlers{byScriptID: map[int32]map[string]*resolve.Handle{
		900: {"exitFrame": goHandle(900, "exitFrame", 1)},
	}}
	s := newTestScheduler(handlers)
	s.Start()
	if s.CurrentFrame != 1 {
		t.Fatalf("expected Start to land on frame 1, got %d", s.CurrentFrame)
	}
	if _, ok := s.active[5]; !ok {
		t.Fatalf("expected channel 5 active after Start (frame 1)")
	}

	s.Step(0)
	s.Advance() // frame 1 -> 2
	s.Step(0)
	s.Advance() // frame 2 -> 3 (constructs channel 7, attaches frame script 900)

	if s.CurrentFrame != 3 {
		t.Fatalf("expected frame 3 before exitFrame fires, got %d", s.CurrentFrame)
	}
	if _, ok := s.active[7]; !ok {
		t.Fatalf("expected channel 7 active on frame 3")
	}

	s.Step(0)
	s.Advance() // frame 3's exitFrame calls go(1); must land on 1, not 4

	if s.CurrentFrame != 1 {
		t.Fatalf("expected go(1) issued during exitFrame to override the next frame, got %d", s.CurrentFrame)
	}
	if _, ok := s.active[7]; ok {
		t.Fatalf("expected channel 7 (only in frame 3) to have ended")
	}
	if _, ok := s.active[5]; !ok {
		t.Fatalf("expected channel 5 (only in frame 1) to have begun again")
	}
}

// With no navigation call, Advance moves to currentFrame+1, wrapping past
// the last row back to frame 1.
func TestAdvanceWrapsPastLastFrame(t *testing.T) {
	s := newTestScheduler(&fakeHandlers{byScriptID: map[int32]map[string]*resolve.Handle{}})
	s.Start()
	for i := 0; i < 4; i++ {
		s.Step(0)
		s.Advance()
	}
	if s.CurrentFrame != 5 {
		t.Fatalf("expected frame 5 after 4 advances from frame 1, got %d", s.CurrentFrame)
	}
	s.Step(0)
	s.Advance()
	if s.CurrentFrame != 1 {
		t.Fatalf("expected wraparound to frame 1 past the last row, got %d", s.CurrentFrame)
	}
}

// GoToLabel resolves a frame label and queues it like Go; an unknown label
// is a silent no-op that leaves pendingFrame untouched.
func TestGoToLabelUnknownIsNoop(t *testing.T) {
	s := newTestScheduler(&fakeHandlers{byScriptID: map[int32]map[string]*resolve.Handle{}})
	s.Movie.Labels = &chunk.FrameLabels{Labels: []chunk.FrameLabel{{Frame: 4, Name: "climax"}}}
	s.Start()

	s.GoToLabel("nonexistent")
	if s.pendingFrame != 0 {
		t.Fatalf("expected unknown label to leave pendingFrame untouched, got %d", s.pendingFrame)
	}

	s.GoToLabel("Climax") // case-insensitive match
	if s.pendingFrame != 4 {
		t.Fatalf("expected GoToLabel to queue frame 4, got %d", s.pendingFrame)
	}
}
