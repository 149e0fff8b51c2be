// Package debug implements the breakpoint store and pause/step debugger:
// a concurrent-safe breakpoint store (conditional, log-point, hit-count),
// the should-pause decision, step into/over/out via call-depth comparison,
// call-stack capture, and the publish-then-block DebugSnapshot mechanism.
// The pause primitive is a golang.org/x/sync/semaphore weighted semaphore
// of size 1 guarded by a single state lock.
package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Breakpoint is keyed by (ScriptID, Offset). HitCount is runtime-only
// state, never serialized.
type Breakpoint struct {
	ScriptID          int32  `json:"scriptId"`
	Offset            int    `json:"offset"`
	Enabled           bool   `json:"enabled"`
	Condition         string `json:"condition,omitempty"`
	LogMessage        string `json:"logMessage,omitempty"`
	HitCountThreshold int    `json:"hitCountThreshold,omitempty"`
	HitCount          int    `json:"-"`
}

// IsLogPoint reports whether this breakpoint is a log point: it never
// pauses the VM regardless of hit count.
func (bp Breakpoint) IsLogPoint() bool { return bp.LogMessage != "" }

type bpKey struct {
	scriptID int32
	offset   int
}

// Store is the breakpoint table, safe for concurrent access from both the
// VM thread and the host UI thread.
type Store struct {
	mu  sync.RWMutex
	bps map[bpKey]*Breakpoint
}

// NewStore builds an empty breakpoint store.
func NewStore() *Store {
	return &Store{bps: map[bpKey]*Breakpoint{}}
}

// Set adds or replaces a breakpoint, preserving its HitCount if one already
// existed at the same location (editing a condition mid-session shouldn't
// reset progress toward a hit-count threshold).
func (s *Store) Set(bp Breakpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := bpKey{bp.ScriptID, bp.Offset}
	if existing, ok := s.bps[k]; ok {
		bp.HitCount = existing.HitCount
	}
	cp := bp
	s.bps[k] = &cp
}

// Remove deletes the breakpoint at (scriptID, offset), if any.
func (s *Store) Remove(scriptID int32, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bps, bpKey{scriptID, offset})
}

// Clear removes every breakpoint.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bps = map[bpKey]*Breakpoint{}
}

// Get returns the breakpoint at (scriptID, offset), if any.
func (s *Store) Get(scriptID int32, offset int) (Breakpoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bp, ok := s.bps[bpKey{scriptID, offset}]
	if !ok {
		return Breakpoint{}, false
	}
	return *bp, true
}

// SetEnabled toggles a breakpoint's enabled flag in place.
func (s *Store) SetEnabled(scriptID int32, offset int, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bp, ok := s.bps[bpKey{scriptID, offset}]
	if !ok {
		return false
	}
	bp.Enabled = enabled
	return true
}

// recordHit increments the hit count at a location and returns the
// breakpoint's current state, used by the controller's should-pause
// evaluation. Returns false if no breakpoint is registered there.
func (s *Store) recordHit(scriptID int32, offset int) (Breakpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bp, ok := s.bps[bpKey{scriptID, offset}]
	if !ok {
		return Breakpoint{}, false
	}
	bp.HitCount++
	return *bp, true
}

// List returns every breakpoint sorted by (ScriptID, Offset), a stable
// order for display and for the JSON/legacy-text export formats.
func (s *Store) List() []Breakpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Breakpoint, 0, len(s.bps))
	for _, bp := range s.bps {
		out = append(out, *bp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScriptID != out[j].ScriptID {
			return out[i].ScriptID < out[j].ScriptID
		}
		return out[i].Offset < out[j].Offset
	})
	return out
}

// --- JSON persistence ---

type jsonDoc struct {
	Version     int          `json:"version"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// SaveJSON writes the current breakpoint set in the documented v2 format.
func (s *Store) SaveJSON(w io.Writer) error {
	doc := jsonDoc{Version: 2, Breakpoints: s.List()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadJSON replaces the store's contents from the documented v2 format.
// Hit counts are never part of the file, so every loaded breakpoint starts
// at zero.
func (s *Store) LoadJSON(r io.Reader) error {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("debug: decode breakpoint JSON: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bps = map[bpKey]*Breakpoint{}
	for _, bp := range doc.Breakpoints {
		bp.HitCount = 0
		cp := bp
		s.bps[bpKey{bp.ScriptID, bp.Offset}] = &cp
	}
	return nil
}

// LoadLegacyText reads the pre-v2 format `scriptId:off,off;scriptId:off;…`.
// Every entry decodes to a plain enabled breakpoint
// with no condition, log message, or hit-count threshold — the legacy
// format carried none of those.
func (s *Store) LoadLegacyText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bps = map[bpKey]*Breakpoint{}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, group := range strings.Split(text, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		parts := strings.SplitN(group, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("debug: malformed legacy breakpoint group %q", group)
		}
		scriptID, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			return fmt.Errorf("debug: malformed legacy script id %q: %w", parts[0], err)
		}
		for _, offStr := range strings.Split(parts[1], ",") {
			offStr = strings.TrimSpace(offStr)
			if offStr == "" {
				continue
			}
			offset, err := strconv.Atoi(offStr)
			if err != nil {
				return fmt.Errorf("debug: malformed legacy offset %q: %w", offStr, err)
			}
			bp := &Breakpoint{ScriptID: int32(scriptID), Offset: offset, Enabled: true}
			s.bps[bpKey{bp.ScriptID, bp.Offset}] = bp
		}
	}
	return nil
}
