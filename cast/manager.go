package cast

import (
	"strings"

	"shockcore/datum"
	"shockcore/host"
)

// Manager owns every cast library referenced by a movie (the internal
// library plus any external casts declared in the MCsL chunk), and
// implements host.CastLibProvider for the built-ins registry.
type Manager struct {
	libs    map[int32]*CastLib
	byName  map[string]*CastLib
	order   []int32
	resolve func(castLib, member int32, name string) (host.ScriptHandle, bool)
	resolveByID func(scriptID int32, name string) (host.ScriptHandle, bool)
}

// NewManager builds an empty manager; calls to Add register libraries.
func NewManager() *Manager {
	return &Manager{libs: map[int32]*CastLib{}, byName: map[string]*CastLib{}}
}

// Add registers a cast library under its number and name.
func (mgr *Manager) Add(cl *CastLib) {
	mgr.libs[cl.Number()] = cl
	mgr.byName[strings.ToLower(cl.Name())] = cl
	mgr.order = append(mgr.order, cl.Number())
}

// SetHandlerResolver wires the function used by FindHandlerInScript*; kept
// as an injected function (rather than importing resolve directly) to
// avoid a cast<->resolve import cycle, since resolve.Resolver needs a
// Manager to search casts.
func (mgr *Manager) SetHandlerResolver(
	byMember func(castLib, member int32, name string) (host.ScriptHandle, bool),
	byID func(scriptID int32, name string) (host.ScriptHandle, bool),
) {
	mgr.resolve = byMember
	mgr.resolveByID = byID
}

// Get returns the cast library by number.
func (mgr *Manager) Get(number int32) (*CastLib, bool) {
	cl, ok := mgr.libs[number]
	return cl, ok
}

// GetByName returns the cast library by case-insensitive name.
func (mgr *Manager) GetByName(name string) (*CastLib, bool) {
	cl, ok := mgr.byName[strings.ToLower(name)]
	return cl, ok
}

// Libraries returns every registered library in registration order.
func (mgr *Manager) Libraries() []*CastLib {
	out := make([]*CastLib, 0, len(mgr.order))
	for _, n := range mgr.order {
		out = append(out, mgr.libs[n])
	}
	return out
}

// External returns every loaded external (non-internal) library, in
// declared order — used by resolve.Resolver's cast-search fallback.
func (mgr *Manager) External() []*CastLib {
	var out []*CastLib
	for _, n := range mgr.order {
		cl := mgr.libs[n]
		if cl.FileName() != "" {
			out = append(out, cl)
		}
	}
	return out
}

// --- host.CastLibProvider ---

func (mgr *Manager) GetCastLibByNumber(n int32) (host.CastLibHandle, bool) {
	cl, ok := mgr.libs[n]
	if !ok {
		return nil, false
	}
	return castLibHandle{cl}, true
}

func (mgr *Manager) GetCastLibByName(name string) (host.CastLibHandle, bool) {
	cl, ok := mgr.GetByName(name)
	if !ok {
		return nil, false
	}
	return castLibHandle{cl}, true
}

func (mgr *Manager) GetCastLibCount() int { return len(mgr.libs) }

func (mgr *Manager) FindHandlerInScript(castLib, member int32, name string) (host.ScriptHandle, bool) {
	if mgr.resolve == nil {
		return nil, false
	}
	return mgr.resolve(castLib, member, name)
}

func (mgr *Manager) FindHandlerInScriptByID(scriptID int32, name string) (host.ScriptHandle, bool) {
	if mgr.resolveByID == nil {
		return nil, false
	}
	return mgr.resolveByID(scriptID, name)
}

// castLibHandle adapts *CastLib's *Member-returning methods to the
// interface-returning signatures host.CastLibHandle requires.
type castLibHandle struct{ cl *CastLib }

func (h castLibHandle) Number() int32 { return h.cl.Number() }
func (h castLibHandle) Name() string { return h.cl.Name() }
func (h castLibHandle) GetProp(prop string) datum.Value { return h.cl.GetProp(prop) }
func (h castLibHandle) SetProp(prop string, v datum.Value) bool { return h.cl.SetProp(prop, v) }

func (h castLibHandle) GetMember(n int32) (host.MemberHandle, bool) {
	m, ok := h.cl.GetMember(n)
	if !ok {
		return nil, false
	}
	return m, true
}

func (h castLibHandle) GetMemberByName(name string) (host.MemberHandle, bool) {
	m, ok := h.cl.GetMemberByName(name)
	if !ok {
		return nil, false
	}
	return m, true
}

func (h castLibHandle) EnsureLoaded() error { return h.cl.EnsureLoaded() }
func (h castLibHandle) IsLoaded() bool { return h.cl.LoadState() == StateLoaded }
