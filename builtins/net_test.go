package builtins

import (
	"errors"
	"testing"

	"shockcore/datum"
	"shockcore/host"
)

// fakeCastLib implements host.CastLibHandle for preloadNetThing/netDone
// tests without pulling in the real cast package (avoids a builtins<->cast
// import cycle, the same reason host.CastLibHandle exists at all).
type fakeCastLib struct {
	number       int32
	loaded       bool
	loadErr      error
	ensureCalled int
}

func (f *fakeCastLib) Number() int32 { return f.number }
func (f *fakeCastLib) Name() string { return "fake" }
func (f *fakeCastLib) GetProp(string) datum.Value { return datum.Void{} }
func (f *fakeCastLib) SetProp(string, datum.Value) bool { return false }
func (f *fakeCastLib) GetMember(int32) (host.MemberHandle, bool) { return nil, false }
func (f *fakeCastLib) GetMemberByName(string) (host.MemberHandle, bool) {
	return nil, false
}
func (f *fakeCastLib) EnsureLoaded() error {
	f.ensureCalled++
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = true
	return nil
}
func (f *fakeCastLib) IsLoaded() bool { return f.loaded }

// fakeProvider implements host.CastLibProvider over a single fakeCastLib.
type fakeProvider struct{ lib *fakeCastLib }

func (p *fakeProvider) GetCastLibByNumber(n int32) (host.CastLibHandle, bool) {
	if p.lib == nil || p.lib.number != n {
		return nil, false
	}
	return p.lib, true
}
func (p *fakeProvider) GetCastLibByName(string) (host.CastLibHandle, bool) { return nil, false }
func (p *fakeProvider) GetCastLibCount() int { return 1 }
func (p *fakeProvider) FindHandlerInScript(int32, int32, string) (host.ScriptHandle, bool) {
	return nil, false
}
func (p *fakeProvider) FindHandlerInScriptByID(int32, string) (host.ScriptHandle, bool) {
	return nil, false
}

func TestPreloadNetThingSuccess(t *testing.T) {
	lib := &fakeCastLib{number: 2}
	ctx := &Context{Casts: &fakeProvider{lib: lib}}
	r := NewRegistry()

	v, err, ok := r.Call("preloadNetThing", ctx, []datum.Value{datum.CastLibRef{Number: 2}})
	if !ok || err != nil {
		t.Fatalf("preloadNetThing: ok=%v err=%v", ok, err)
	}
	if datum.ToInt(v) != 1 {
		t.Fatalf("expected success sentinel 1, got %v", v)
	}
	if lib.ensureCalled != 1 {
		t.Fatalf("expected EnsureLoaded called once, got %d", lib.ensureCalled)
	}

	done, _, _ := r.Call("mediaReady", ctx, []datum.Value{datum.CastLibRef{Number: 2}})
	if datum.ToInt(done) != 1 {
		t.Fatalf("expected mediaReady=1 after successful preload, got %v", done)
	}
}

func TestPreloadNetThingFailureLeavesMediaNotReady(t *testing.T) {
	lib := &fakeCastLib{number: 3, loadErr: errors.New("fetch: all transports failed")}
	ctx := &Context{Casts: &fakeProvider{lib: lib}}
	r := NewRegistry()

	v, _, _ := r.Call("preloadNetThing", ctx, []datum.Value{datum.CastLibRef{Number: 3}})
	if datum.ToInt(v) != 0 {
		t.Fatalf("expected failure sentinel 0, got %v", v)
	}

	done, _, _ := r.Call("mediaReady", ctx, []datum.Value{datum.CastLibRef{Number: 3}})
	if datum.ToInt(done) != 0 {
		t.Fatalf("expected mediaReady=0 after failed fetch, got %v", done)
	}
}

func TestMediaReadyUnknownCastLib(t *testing.T) {
	ctx := &Context{Casts: &fakeProvider{}}
	r := NewRegistry()
	v, _, _ := r.Call("mediaReady", ctx, []datum.Value{datum.CastLibRef{Number: 99}})
	if datum.ToInt(v) != 0 {
		t.Fatalf("expected 0 for unknown cast lib, got %v", v)
	}
}
