package cast

import (
	"testing"

	"shockcore/chunk"
	"shockcore/datum"
)

func buildTestMovie() (*chunk.Movie, *chunk.CastEntry) {
	m := &chunk.Movie{
		Members: map[int32]*chunk.Member{
			100: {Kind: chunk.MemberText, Name: "Greeting"},
		},
		Scripts: map[int32]*chunk.Script{},
		Keys:    &chunk.KeyTable{},
	}
	return m, &chunk.CastEntry{MemberChunkIDs: []int32{100}}
}

func TestCastLibLazyMemberDecode(t *testing.T) {
	m, entry := buildTestMovie()
	cl := NewInternal(1, "", m, entry)
	if cl.Name() != "Internal" {
		t.Fatalf("expected default name Internal, got %q", cl.Name())
	}

	mem, ok := cl.GetMember(1)
	if !ok {
		t.Fatal("expected member 1 to resolve")
	}
	if mem.Name() != "Greeting" {
		t.Fatalf("expected name Greeting, got %q", mem.Name())
	}

	// Second GetMember should return the same cached instance.
	mem2, _ := cl.GetMember(1)
	if mem != mem2 {
		t.Fatal("expected cached member instance on repeat GetMember")
	}
}

func TestCastLibFindMemberByNameCaseInsensitive(t *testing.T) {
	m, entry := buildTestMovie()
	cl := NewInternal(1, "", m, entry)
	n, ok := cl.FindMemberByName("GREETING")
	if !ok || n != 1 {
		t.Fatalf("expected case-insensitive find to return member 1, got %d ok=%v", n, ok)
	}
}

func TestInvalidMemberPropDefaults(t *testing.T) {
	if got := InvalidMemberProp("name"); got.(datum.Str).Val != "" {
		t.Errorf("expected empty name default, got %v", got)
	}
	if got := InvalidMemberProp("number"); datum.ToInt(got) != -1 {
		t.Errorf("expected number -1 default, got %v", got)
	}
	if got := InvalidMemberProp("type"); got.(datum.Symbol).Val != "empty" {
		t.Errorf("expected type #empty default, got %v", got)
	}
}

func TestTextMemberDirtyFlagReRenders(t *testing.T) {
	tm := newTextMember("hello")
	img1, err := tm.Image()
	if err != nil {
		t.Fatal(err)
	}
	tm.SetProp("text", datum.NewStr("a longer string of text"))
	img2, err := tm.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img1.Width == img2.Width {
		t.Fatal("expected re-render after text change to produce a different width")
	}
}

func TestDecodeMacRomanASCIIPassthrough(t *testing.T) {
	if got := DecodeMacRoman("hello"); got != "hello" {
		t.Fatalf("expected ASCII passthrough, got %q", got)
	}
}
