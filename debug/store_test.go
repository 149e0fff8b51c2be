package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestStoreSetGetRemove(t *testing.T) {
	s := NewStore()
	s.Set(Breakpoint{ScriptID: 1, Offset: 10, Enabled: true})
	bp, ok := s.Get(1, 10)
	if !ok {
		t.Fatalf("expected breakpoint to exist")
	}
	if !bp.Enabled {
		t.Fatalf("expected breakpoint enabled")
	}
	s.Remove(1, 10)
	if _, ok := s.Get(1, 10); ok {
		t.Fatalf("expected breakpoint removed")
	}
}

func TestStoreSetPreservesHitCount(t *testing.T) {
	s := NewStore()
	s.Set(Breakpoint{ScriptID: 1, Offset: 10, Enabled: true})
	s.recordHit(1, 10)
	s.recordHit(1, 10)
	s.Set(Breakpoint{ScriptID: 1, Offset: 10, Enabled: true, Condition: "1 = 1"})
	bp, _ := s.Get(1, 10)
	if bp.HitCount != 2 {
		t.Fatalf("expected hit count preserved across edit, got %d", bp.HitCount)
	}
}

func TestStoreListSortedOrder(t *testing.T) {
	s := NewStore()
	s.Set(Breakpoint{ScriptID: 2, Offset: 5})
	s.Set(Breakpoint{ScriptID: 1, Offset: 20})
	s.Set(Breakpoint{ScriptID: 1, Offset: 5})
	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 breakpoints, got %d", len(list))
	}
	if list[0].ScriptID != 1 || list[0].Offset != 5 {
		t.Fatalf("expected (1,5) first, got (%d,%d)", list[0].ScriptID, list[0].Offset)
	}
	if list[1].ScriptID != 1 || list[1].Offset != 20 {
		t.Fatalf("expected (1,20) second, got (%d,%d)", list[1].ScriptID, list[1].Offset)
	}
}

func TestStoreJSONRoundTrip(t *testing.T) {
	s := NewStore()
	s.Set(Breakpoint{ScriptID: 7, Offset: 42, Enabled: true, Condition: "x > 1", HitCountThreshold: 3})
	s.recordHit(7, 42) // hit count must not survive the round trip

	var buf bytes.Buffer
	if err := s.SaveJSON(&buf); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"version": 2`) {
		t.Fatalf("expected version 2 in output, got %s", buf.String())
	}

	s2 := NewStore()
	if err := s2.LoadJSON(&buf); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	bp, ok := s2.Get(7, 42)
	if !ok {
		t.Fatalf("expected breakpoint after reload")
	}
	if bp.Condition != "x > 1" || bp.HitCountThreshold != 3 {
		t.Fatalf("unexpected breakpoint after reload: %+v", bp)
	}
	if bp.HitCount != 0 {
		t.Fatalf("expected hit count reset to zero after reload, got %d", bp.HitCount)
	}
}

func TestStoreLoadLegacyText(t *testing.T) {
	s := NewStore()
	if err := s.LoadLegacyText("1:10,20;3:5"); err != nil {
		t.Fatalf("LoadLegacyText: %v", err)
	}
	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 breakpoints, got %d", len(list))
	}
	for _, bp := range list {
		if bp.Condition != "" || bp.LogMessage != "" || bp.HitCountThreshold != 0 {
			t.Fatalf("legacy breakpoints should carry no condition/log/threshold, got %+v", bp)
		}
		if !bp.Enabled {
			t.Fatalf("legacy breakpoints should be enabled, got %+v", bp)
		}
	}
}

func TestStoreLoadLegacyTextMalformed(t *testing.T) {
	s := NewStore()
	if err := s.LoadLegacyText("bogus"); err == nil {
		t.Fatalf("expected error for malformed legacy text")
	}
}
