// Package trace implements a mutex-guarded, glob-filtered execution tracer
// and wires it up as a host.TraceListener so VM instruction/handler events
// fan out to it independent of the debugger's pause mechanism.
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"shockcore/datum"
	"shockcore/host"
)

// Tracer writes handler-enter/exit, instruction, variable-set, error, and
// debug-message events to an io.Writer, filtered by a glob pattern over
// "script:handler".
type Tracer struct {
	mu      sync.Mutex
	enabled bool
	filters []string
	writer  io.Writer
}

// New builds a Tracer writing to w (stderr if nil), enabled immediately.
// filters are filepath.Match-style globs over "script:handler"; an empty
// filter set traces everything.
func New(enabled bool, filters []string, w io.Writer) *Tracer {
	if w == nil {
		w = os.Stderr
	}
	return &Tracer{enabled: enabled, filters: filters, writer: w}
}

// SetEnabled toggles tracing without discarding the writer/filters.
func (t *Tracer) SetEnabled(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = on
}

// IsEnabled reports whether tracing is currently on.
func (t *Tracer) IsEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Tracer) matches(scriptID int32, handler string) bool {
	if len(t.filters) == 0 {
		return true
	}
	name := strconv.Itoa(int(scriptID)) + ":" + handler
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// --- host.TraceListener ---

func (t *Tracer) OnHandlerEnter(info host.HandlerInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matches(info.ScriptID, info.HandlerName) {
		return
	}
	fmt.Fprintf(t.writer, "[TRACE] ENTER %d:%s depth=%d\n", info.ScriptID, info.HandlerName, info.Depth)
}

func (t *Tracer) OnHandlerExit(info host.HandlerInfo, returnValue datum.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matches(info.ScriptID, info.HandlerName) {
		return
	}
	ret := "<void>"
	if returnValue != nil {
		ret = returnValue.String()
	}
	fmt.Fprintf(t.writer, "[TRACE] EXIT %d:%s depth=%d => %s\n", info.ScriptID, info.HandlerName, info.Depth, ret)
}

func (t *Tracer) OnInstruction(info host.InstructionInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matches(info.ScriptID, info.HandlerName) {
		return
	}
	fmt.Fprintf(t.writer, "[TRACE]   %d:%s offset=%d op=0x%02x arg=%d\n",
		info.ScriptID, info.HandlerName, info.Offset, info.Opcode, info.Argument)
}

func (t *Tracer) OnVariableSet(kind string, name string, value datum.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	v := "<void>"
	if value != nil {
		v = truncate(value.String(), 60)
	}
	fmt.Fprintf(t.writer, "[TRACE]   SET %s %s = %s\n", kind, name, v)
}

func (t *Tracer) OnError(message string, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	fmt.Fprintf(t.writer, "[TRACE] ERROR %s\n", message)
}

func (t *Tracer) OnDebugMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	fmt.Fprintf(t.writer, "[TRACE] DEBUG %s\n", msg)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

var _ host.TraceListener = (*Tracer)(nil)

// --- global convenience layer over a package-level instance ---

var global *Tracer
var globalMu sync.Mutex

// Init installs the global tracer used by Global().
func Init(enabled bool, filters []string, w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = New(enabled, filters, w)
}

// Global returns the installed global tracer, or a disabled no-op tracer if
// Init was never called.
func Global() *Tracer {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New(false, nil, nil)
	}
	return global
}

// IsEnabled reports whether the global tracer is currently on.
func IsEnabled() bool {
	return Global().IsEnabled()
}

// NormalizeFilters lowercases and trims a list of user-supplied glob
// filters, the shape config.Player loads
// from YAML before passing to New/Init.
func NormalizeFilters(filters []string) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}
