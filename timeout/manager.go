// Package timeout implements the named periodic timer registry: a
// sync.RWMutex-guarded map driven by a monotonic clock the caller
// supplies, firing each timeout's handler against a ScriptInstance (with
// ancestor walk) or a global handler.
package timeout

import (
	"sync"

	"shockcore/datum"
)

// Executor is the narrow VM surface the manager needs: resolve and run a
// handler on a specific script (for ScriptInstance targets, walking the
// ancestor chain), or resolve and run a global handler by name.
type Executor interface {
	Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (handled, passed bool)
	InvokeGlobal(name string, args []datum.Value) (handled bool)
}

// Timeout is one registered periodic timer.
type Timeout struct {
	Name       string
	Period     int64 // caller-chosen unit (ticks or ms); must match the `now` passed to ProcessTimeouts
	Handler    string
	Target     datum.Value // a ScriptInstance dispatches with ancestor walk; anything else falls to a global handler
	LastFired  int64
	Persistent bool
}

// Manager is the concurrent-safe registry of live timeouts.
type Manager struct {
	mu       sync.RWMutex
	vm       Executor
	timeouts map[string]*Timeout
}

// NewManager builds an empty timeout registry bound to the given executor.
func NewManager(vm Executor) *Manager {
	return &Manager{vm: vm, timeouts: map[string]*Timeout{}}
}

// CreateTimeout stores {name, period, handler, target, lastFired=now,
// persistent}, replacing any existing timeout of the same name.
func (m *Manager) CreateTimeout(name string, periodMs int64, handlerName string, target datum.Value, now int64, persistent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts[name] = &Timeout{
		Name:       name,
		Period:     periodMs,
		Handler:    handlerName,
		Target:     target,
		LastFired:  now,
		Persistent: persistent,
	}
}

// Forget removes a timeout by name; a miss is a silent no-op.
func (m *Manager) Forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timeouts, name)
}

// Get returns a copy of the named timeout's current state, for host/debug
// inspection.
func (m *Manager) Get(name string) (Timeout, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.timeouts[name]
	if !ok {
		return Timeout{}, false
	}
	return *t, true
}

// Names returns every registered timeout's name, in no particular order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.timeouts))
	for n := range m.timeouts {
		out = append(out, n)
	}
	return out
}

// ProcessTimeouts iterates a snapshot of registered names, firing any
// whose now - lastFired >= period.
// Snapshotting the name list first lets a fired handler safely
// create/forget timeouts without racing this iteration.
func (m *Manager) ProcessTimeouts(now int64) {
	for _, name := range m.Names() {
		m.mu.Lock()
		t, ok := m.timeouts[name]
		if ok && now-t.LastFired >= t.Period {
			t.LastFired = now
		} else {
			ok = false
		}
		m.mu.Unlock()
		if ok {
			m.fire(t)
		}
	}
}

func (m *Manager) fire(t *Timeout) {
	ref := datum.TimeoutRef{Name: t.Name}
	args := []datum.Value{ref}
	if inst, ok := t.Target.(datum.ScriptInstance); ok {
		m.dispatchAncestorChain(inst, t.Handler, args)
		return
	}
	m.vm.InvokeGlobal(t.Handler, args)
}

// DispatchSystemEvent fans out to every timeout target a handler with the
// same name as the event, with empty args, silently — no global fallback
// on a miss.
func (m *Manager) DispatchSystemEvent(name string) {
	m.mu.RLock()
	targets := make([]datum.Value, 0, len(m.timeouts))
	for _, t := range m.timeouts {
		targets = append(targets, t.Target)
	}
	m.mu.RUnlock()
	for _, target := range targets {
		if inst, ok := target.(datum.ScriptInstance); ok {
			m.dispatchAncestorChain(inst, name, nil)
		}
	}
}

// dispatchAncestorChain invokes the first handler found walking inst's own
// script then its ancestor chain, up to the hard cap.
func (m *Manager) dispatchAncestorChain(inst datum.ScriptInstance, name string, args []datum.Value) {
	cur := inst
	for hops := 0; hops <= datum.MaxAncestorHops; hops++ {
		sref := cur.Script()
		if handled, _ := m.vm.Invoke(sref.CastLib, sref.Member, cur, name, args); handled {
			return
		}
		anc, has := cur.Ancestor()
		if !has {
			return
		}
		cur = anc
	}
}
