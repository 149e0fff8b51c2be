package debug

import (
	"bytes"
	"testing"
)

func TestProfileRoundTrip(t *testing.T) {
	bps := []Breakpoint{
		{ScriptID: 1, Offset: 10, Enabled: true},
		{ScriptID: 2, Offset: 20, Enabled: false, Condition: "count > 3"},
		{ScriptID: 3, Offset: 30, Enabled: true, LogMessage: "hit {count}", HitCountThreshold: 5},
	}
	var buf bytes.Buffer
	if err := SaveProfile(&buf, bps); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	loaded, err := LoadProfile(&buf)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if len(loaded) != len(bps) {
		t.Fatalf("expected %d breakpoints, got %d", len(bps), len(loaded))
	}
	for i, want := range bps {
		got := loaded[i]
		if got.ScriptID != want.ScriptID || got.Offset != want.Offset || got.Enabled != want.Enabled ||
			got.Condition != want.Condition || got.LogMessage != want.LogMessage || got.HitCountThreshold != want.HitCountThreshold {
			t.Fatalf("entry %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestProfileDefaultsEnabledTrue(t *testing.T) {
	r := bytes.NewBufferString("breakpoints:\n  - script: 1\n    offset: 5\n")
	loaded, err := LoadProfile(r)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if len(loaded) != 1 || !loaded[0].Enabled {
		t.Fatalf("expected a single enabled breakpoint, got %+v", loaded)
	}
}

func TestStoreLoadProfileInto(t *testing.T) {
	s := NewStore()
	r := bytes.NewBufferString("breakpoints:\n  - script: 4\n    offset: 8\n    condition: \"x = 1\"\n")
	if err := s.LoadProfileInto(r); err != nil {
		t.Fatalf("LoadProfileInto: %v", err)
	}
	bp, ok := s.Get(4, 8)
	if !ok || bp.Condition != "x = 1" {
		t.Fatalf("unexpected store state: %+v ok=%v", bp, ok)
	}
}
