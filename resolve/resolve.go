// Package resolve implements the script resolver: handler name lookup
// across a movie's own scripts and its loaded external casts, in declared
// order, plus the nameID-to-string resolution the built-ins and the VM
// need for diagnostics and property/variable naming.
package resolve

import (
	"sort"
	"strings"

	"shockcore/cast"
	"shockcore/chunk"
)

// Handle is the concrete result of a successful lookup: everything the VM
// needs to start executing the handler, plus enough identity to satisfy
// host.ScriptHandle for callers that only have the narrower interface.
type Handle struct {
	CastLibNumber int32
	MemberNumber  int32
	ScriptChunkID int32
	Script        *chunk.Script
	Handler       *chunk.Handler
	Names         *chunk.NameTable
	Name          string
}

// ScriptID satisfies host.ScriptHandle.
func (h *Handle) ScriptID() int32 { return h.ScriptChunkID }

// HandlerName satisfies host.ScriptHandle.
func (h *Handle) HandlerName() string { return h.Name }

// Resolver searches a movie's own scripts, then every external cast in
// declared order, for a handler by name.
type Resolver struct {
	movie *chunk.Movie
	casts *cast.Manager
}

// NewResolver builds a resolver over the movie's internal scripts and the
// cast manager's declared external casts.
func NewResolver(movie *chunk.Movie, casts *cast.Manager) *Resolver {
	return &Resolver{movie: movie, casts: casts}
}

// FindHandler searches the movie's own scripts first, then every external
// cast in the order it was declared in the MCsL chunk.
func (r *Resolver) FindHandler(name string) (*Handle, bool) {
	if r.movie != nil {
		if h, ok := findInMovie(r.movie, 0, name); ok {
			return h, true
		}
	}
	if r.casts == nil {
		return nil, false
	}
	for _, cl := range r.casts.External() {
		m := cl.Movie()
		if m == nil {
			continue
		}
		if h, ok := findInMovie(m, cl.Number(), name); ok {
			return h, true
		}
	}
	return nil, false
}

// FindHandlerInScript searches a single cast member's own script for a
// handler by name — used for sprite/behavior scripts where the caller
// already knows which member to look on, rather than the global search
// FindHandler performs.
func (r *Resolver) FindHandlerInScript(castLibNumber, member int32, name string) (*Handle, bool) {
	cl, ok := r.castLib(castLibNumber)
	if !ok {
		return nil, false
	}
	script, ok := cl.GetScript(member)
	if !ok {
		return nil, false
	}
	names := cl.Names()
	h, ok := findInScript(script, names, name)
	if !ok {
		return nil, false
	}
	h.CastLibNumber = castLibNumber
	h.MemberNumber = member
	h.ScriptChunkID = script.ID
	return h, true
}

// FindHandlerByScriptID re-resolves a handler once its owning script chunk
// id is already known.
func (r *Resolver) FindHandlerByScriptID(scriptID int32, name string) (*Handle, bool) {
	if r.movie != nil {
		if script, ok := r.movie.Scripts[scriptID]; ok {
			if h, ok := findInScript(script, r.movie.PrimaryNames(), name); ok {
				h.ScriptChunkID = scriptID
				return h, true
			}
		}
	}
	if r.casts == nil {
		return nil, false
	}
	for _, cl := range r.casts.External() {
		m := cl.Movie()
		if m == nil {
			continue
		}
		if script, ok := m.Scripts[scriptID]; ok {
			if h, ok := findInScript(script, m.PrimaryNames(), name); ok {
				h.CastLibNumber = cl.Number()
				h.ScriptChunkID = scriptID
				return h, true
			}
		}
	}
	return nil, false
}

func (r *Resolver) castLib(number int32) (*cast.CastLib, bool) {
	if r.casts == nil {
		return nil, false
	}
	return r.casts.Get(number)
}

// ResolveName resolves a nameID against the movie's shared names table,
// falling through to the #<id> sentinel when out of range.
func (r *Resolver) ResolveName(nameID int32) string {
	if r.movie == nil {
		return ""
	}
	nt := r.movie.PrimaryNames()
	if nt == nil {
		return ""
	}
	return nt.Resolve(nameID)
}

// ScriptKindOf returns the authoritative script kind for scriptChunkID, as
// recorded on its owning cast member rather than the Lscr chunk's own
// (unreliable) Kind field.
func ScriptKindOf(m *chunk.Movie, scriptChunkID int32) chunk.ScriptKind {
	owner := m.MemberOwningScript(scriptChunkID)
	if owner == nil {
		return chunk.ScriptKindMovie
	}
	return owner.ScriptKind()
}

func findInMovie(m *chunk.Movie, castLibNumber int32, name string) (*Handle, bool) {
	names := m.PrimaryNames()
	ids := make([]int32, 0, len(m.Scripts))
	for scriptID := range m.Scripts {
		ids = append(ids, scriptID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, scriptID := range ids {
		kind := ScriptKindOf(m, scriptID)
		if kind != chunk.ScriptKindMovie && kind != chunk.ScriptKindScore {
			continue
		}
		if h, ok := findInScript(m.Scripts[scriptID], names, name); ok {
			h.CastLibNumber = castLibNumber
			h.ScriptChunkID = scriptID
			return h, true
		}
	}
	return nil, false
}

func findInScript(script *chunk.Script, names *chunk.NameTable, name string) (*Handle, bool) {
	if script == nil || names == nil {
		return nil, false
	}
	for i := range script.Handlers {
		hn := names.Resolve(script.Handlers[i].NameID)
		if strings.EqualFold(hn, name) {
			return &Handle{
				Script:  script,
				Handler: &script.Handlers[i],
				Names:   names,
				Name:    hn,
			}, true
		}
	}
	return nil, false
}
