// Package config loads the player's YAML configuration file: network
// fetch timeouts, the default-font fallback table, the MacRoman-vs-
// declared-encoding override, and trace filters.
//
// The file is a plain yaml.v3-tagged struct tree loaded with os.ReadFile
// and yaml.Unmarshal, defaults applied after decode, read once at player
// construction.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Player is the top-level configuration document.
type Player struct {
	Network Network   `yaml:"network"`
	Fonts   Fonts     `yaml:"fonts"`
	Text    TextCodec `yaml:"text"`
	Trace   Trace     `yaml:"trace"`
	Debug   Debug     `yaml:"debug"`
}

// Network controls the external-cast fetch path: declared-
// order HTTPS -> HTTP -> local-file fallback, no retries, each attempt
// bounded by these timeouts.
type Network struct {
	ConnectTimeoutMS int `yaml:"connectTimeoutMs"`
	ReadTimeoutMS    int `yaml:"readTimeoutMs"`
}

// ConnectTimeout returns the configured connect timeout as a duration,
// defaulting to 5s when unset.
func (n Network) ConnectTimeout() time.Duration {
	if n.ConnectTimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.ConnectTimeoutMS) * time.Millisecond
}

// ReadTimeout returns the configured read timeout, defaulting to 30s.
func (n Network) ReadTimeout() time.Duration {
	if n.ReadTimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(n.ReadTimeoutMS) * time.Millisecond
}

// Fonts is the font-fallback policy: an ordered
// table of substitute font names tried when a text member names a font the
// host has no metrics for.
type Fonts struct {
	DefaultFamily string            `yaml:"defaultFamily"`
	Fallbacks     map[string]string `yaml:"fallbacks"`
}

// Resolve returns the configured fallback for a requested family, or the
// configured default family if none is registered.
func (f Fonts) Resolve(requested string) string {
	if f.Fallbacks != nil {
		if v, ok := f.Fallbacks[requested]; ok {
			return v
		}
	}
	if f.DefaultFamily != "" {
		return f.DefaultFamily
	}
	return "Geneva"
}

// TextCodec controls whether STXT/member text is decoded as MacRoman or as
// the platform's declared encoding.
type TextCodec struct {
	ForceMacRoman bool `yaml:"forceMacRoman"`
}

// Trace carries the filters fed to trace.New.
type Trace struct {
	Enabled bool     `yaml:"enabled"`
	Filters []string `yaml:"filters"`
}

// Debug carries startup options for the debugger: an
// initial breakpoint profile/JSON file to load, and whether the debugger
// starts enabled.
type Debug struct {
	Enabled        bool   `yaml:"enabled"`
	BreakpointFile string `yaml:"breakpointFile"`
}

// Default returns a Player with the documented zero-config defaults.
func Default() Player {
	return Player{
		Network: Network{ConnectTimeoutMS: 5000, ReadTimeoutMS: 30000},
		Fonts:   Fonts{DefaultFamily: "Geneva"},
	}
}

// Load reads and parses a YAML player configuration file, filling in
// documented defaults for anything left zero.
func Load(path string) (Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Player{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Player{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if p.Network.ConnectTimeoutMS <= 0 {
		p.Network.ConnectTimeoutMS = 5000
	}
	if p.Network.ReadTimeoutMS <= 0 {
		p.Network.ReadTimeoutMS = 30000
	}
	if p.Fonts.DefaultFamily == "" {
		p.Fonts.DefaultFamily = "Geneva"
	}
	return p, nil
}
