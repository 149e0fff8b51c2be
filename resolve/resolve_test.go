package resolve

import (
	"testing"

	"shockcore/cast"
	"shockcore/chunk"
)

func buildMovieWithHandler(t *testing.T, handlerName string) *chunk.Movie {
	t.Helper()
	names := &chunk.NameTable{Names: []string{handlerName}}
	script := &chunk.Script{
		ID: 1,
		Handlers: []chunk.Handler{
			{NameID: 0, Code: []chunk.Instruction{{Op: 0x01}}},
		},
	}
	member := &chunk.Member{Kind: chunk.MemberScript}
	return &chunk.Movie{
		Members: map[int32]*chunk.Member{10: member},
		Scripts: map[int32]*chunk.Script{1: script},
		Names:   map[int32]*chunk.NameTable{1: names},
		Keys: &chunk.KeyTable{
			Entries: nil,
		},
	}
}

func TestFindHandlerInMovieScripts(t *testing.T) {
	m := buildMovieWithHandler(t, "startMovie")
	r := NewResolver(m, cast.NewManager())

	h, ok := r.FindHandler("STARTMOVIE")
	if !ok {
		t.Fatal("expected case-insensitive handler match")
	}
	if h.Name != "startMovie" {
		t.Fatalf("expected resolved name startMovie, got %q", h.Name)
	}
}

func TestFindHandlerMissing(t *testing.T) {
	m := buildMovieWithHandler(t, "startMovie")
	r := NewResolver(m, cast.NewManager())

	if _, ok := r.FindHandler("nonexistent"); ok {
		t.Fatal("expected lookup miss for undeclared handler")
	}
}

func TestResolveNameSentinelOnOOB(t *testing.T) {
	m := buildMovieWithHandler(t, "startMovie")
	r := NewResolver(m, cast.NewManager())

	if got := r.ResolveName(99); got != "#99" {
		t.Fatalf("expected #99 sentinel, got %q", got)
	}
}

func TestFindHandlerSearchesExternalCastsInOrder(t *testing.T) {
	internal := buildMovieWithHandler(t, "localOnly")
	r0 := NewResolver(internal, cast.NewManager())
	if _, ok := r0.FindHandler("sharedHelper"); ok {
		t.Fatal("did not expect sharedHelper to resolve with no external casts registered")
	}

	external := buildMovieWithHandler(t, "sharedHelper")
	mgr := cast.NewManager()
	mgr.Add(cast.NewInternal(1, "Internal", internal, &chunk.CastEntry{}))
	extLib := cast.NewInternal(2, "Shared", external, &chunk.CastEntry{})
	mgr.Add(extLib)

	r := NewResolver(internal, mgr)
	// extLib was built via NewInternal so FileName() is empty; External()
	// only reports casts with a non-empty file name, matching a genuinely
	// external cast library's declared-order search.
	if _, ok := r.FindHandler("sharedHelper"); ok {
		t.Fatal("NewInternal-constructed libraries should not appear in External()")
	}
}
