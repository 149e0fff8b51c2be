package debug

import (
	"io"

	"gopkg.in/yaml.v3"
)

// profileDoc is the on-disk shape of a checked-in breakpoint profile: a
// reviewable YAML sibling to the JSON v2 export, so a team can commit a
// debugging preset alongside a movie.
type profileDoc struct {
	Breakpoints []profileEntry `yaml:"breakpoints"`
}

type profileEntry struct {
	Script            int32  `yaml:"script"`
	Offset            int    `yaml:"offset"`
	Enabled           *bool  `yaml:"enabled,omitempty"`
	Condition         string `yaml:"condition,omitempty"`
	LogMessage        string `yaml:"logMessage,omitempty"`
	HitCountThreshold int    `yaml:"hitCountThreshold,omitempty"`
}

// LoadProfile parses a YAML breakpoint profile into plain Breakpoint
// values (hit counts always start at zero, same as the JSON format).
// Entries that omit "enabled" default to enabled.
func LoadProfile(r io.Reader) ([]Breakpoint, error) {
	var doc profileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Breakpoint, 0, len(doc.Breakpoints))
	for _, e := range doc.Breakpoints {
		enabled := true
		if e.Enabled != nil {
			enabled = *e.Enabled
		}
		out = append(out, Breakpoint{
			ScriptID:          e.Script,
			Offset:            e.Offset,
			Enabled:           enabled,
			Condition:         e.Condition,
			LogMessage:        e.LogMessage,
			HitCountThreshold: e.HitCountThreshold,
		})
	}
	return out, nil
}

// SaveProfile writes breakpoints in the YAML profile format, omitting the
// "enabled" key for the common case (an enabled breakpoint with no
// condition/log point) to keep hand-maintained profiles terse.
func SaveProfile(w io.Writer, bps []Breakpoint) error {
	doc := profileDoc{Breakpoints: make([]profileEntry, len(bps))}
	for i, bp := range bps {
		e := profileEntry{
			Script:            bp.ScriptID,
			Offset:            bp.Offset,
			Condition:         bp.Condition,
			LogMessage:        bp.LogMessage,
			HitCountThreshold: bp.HitCountThreshold,
		}
		if !bp.Enabled {
			disabled := false
			e.Enabled = &disabled
		}
		doc.Breakpoints[i] = e
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

// LoadProfileInto replaces a store's contents from a YAML profile,
// mirroring LoadJSON/LoadLegacyText's replace-all semantics.
func (s *Store) LoadProfileInto(r io.Reader) error {
	bps, err := LoadProfile(r)
	if err != nil {
		return err
	}
	s.Clear()
	for _, bp := range bps {
		s.Set(bp)
	}
	return nil
}

// SaveProfileFrom writes the store's current breakpoints as a YAML profile.
func (s *Store) SaveProfileFrom(w io.Writer) error {
	return SaveProfile(w, s.List())
}
