// Package cast implements the lazy-loaded cast library / cast member
// model: a map-keyed, single-writer store with lazy per-member decode,
// external-cast fetching, and Lingo-style property access.
package cast

import (
	"fmt"
	"strings"
	"sync"

	"shockcore/chunk"
	"shockcore/datum"
)

// State is a cast library's load lifecycle.
type State int

const (
	StateNone State = iota
	StateLoading
	StateLoaded
)

// CastLib is a lazily-loaded container of cast members.
type CastLib struct {
	mu sync.Mutex

	number    int32
	name      string
	fileName  string
	state     State
	minMember int32

	memberChunks map[int32]*chunk.Member
	members      map[int32]*Member
	scriptChunks map[int32]*chunk.Script

	movie *chunk.Movie // nil for a not-yet-loaded external cast
	fetch *fetcher
}

// NewInternal constructs cast library 1 (or any library) from an already
// decoded movie's chunks — "internal" is the default name of library 1
// when none is provided.
func NewInternal(number int32, name string, m *chunk.Movie, casEntry *chunk.CastEntry) *CastLib {
	if name == "" && number == 1 {
		name = "Internal"
	}
	cl := &CastLib{
		number:       number,
		name:         name,
		state:        StateLoaded,
		movie:        m,
		memberChunks: map[int32]*chunk.Member{},
		members:      map[int32]*Member{},
		scriptChunks: map[int32]*chunk.Script{},
	}
	cl.indexMembers(casEntry)
	return cl
}

// NewExternal constructs a cast library that hasn't fetched its file yet.
func NewExternal(number int32, name, fileName string, loader Loader) *CastLib {
	return &CastLib{
		number:       number,
		name:         name,
		fileName:     fileName,
		state:        StateNone,
		memberChunks: map[int32]*chunk.Member{},
		members:      map[int32]*Member{},
		scriptChunks: map[int32]*chunk.Script{},
		fetch:        newFetcher(loader),
	}
}

func (cl *CastLib) indexMembers(casEntry *chunk.CastEntry) {
	if casEntry == nil || cl.movie == nil {
		return
	}
	for i, chunkID := range casEntry.MemberChunkIDs {
		if chunkID == 0 {
			continue
		}
		if mc, ok := cl.movie.Members[chunkID]; ok {
			memberNum := int32(i+1) + cl.minMember
			cl.memberChunks[memberNum] = mc
			if mc.Kind == chunk.MemberScript && cl.movie.Keys != nil {
				if scriptChunkID, ok := cl.movie.Keys.FindOwnedByKind(chunkID, chunk.NewFourCC("Lscr")); ok {
					if sc, ok := cl.movie.Scripts[scriptChunkID]; ok {
						cl.scriptChunks[memberNum] = sc
					}
				}
			}
		}
	}
}

// Number returns the 1-based cast library number.
func (cl *CastLib) Number() int32 { return cl.number }

// Name returns the library's display name.
func (cl *CastLib) Name() string { return cl.name }

// FileName returns the external file path, or "" for internal casts.
func (cl *CastLib) FileName() string { return cl.fileName }

// LoadState returns the library's lifecycle state.
func (cl *CastLib) LoadState() State { return cl.state }

// EnsureLoaded triggers the external-cast fetch if this library hasn't
// loaded yet.
func (cl *CastLib) EnsureLoaded() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.state == StateLoaded || cl.fetch == nil {
		return nil
	}
	cl.state = StateLoading
	m, casEntry, err := cl.fetch.fetchAndAdopt(cl.fileName, cl.name)
	if err != nil {
		cl.state = StateNone
		return err
	}
	cl.movie = m
	cl.state = StateLoaded
	cl.indexMembers(casEntry)
	return nil
}

// GetMember returns the decoded member n, constructing and caching it on
// first access.
func (cl *CastLib) GetMember(n int32) (*Member, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if m, ok := cl.members[n]; ok {
		return m, true
	}
	mc, ok := cl.memberChunks[n]
	if !ok {
		return nil, false
	}
	m := newMember(cl, n, mc)
	cl.members[n] = m
	return m, true
}

// GetMemberByName is a case-insensitive lookup over decoded/cached and
// yet-to-be-decoded members alike.
func (cl *CastLib) GetMemberByName(name string) (*Member, bool) {
	n, ok := cl.FindMemberByName(name)
	if !ok {
		return nil, false
	}
	return cl.GetMember(n)
}

// FindMemberByName iterates the chunk table for a case-insensitive name
// match, without forcing decode of every member.
func (cl *CastLib) FindMemberByName(name string) (int32, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for n, m := range cl.members {
		if strings.EqualFold(m.Name(), name) {
			return n, true
		}
	}
	for n, mc := range cl.memberChunks {
		if strings.EqualFold(mc.Name, name) {
			return n, true
		}
	}
	return 0, false
}

// GetMemberNumber returns the member number owning the given chunk, used
// by script code that holds a raw chunk reference.
func (cl *CastLib) GetMemberNumber(mc *chunk.Member) (int32, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for n, c := range cl.memberChunks {
		if c == mc {
			return n, true
		}
	}
	return 0, false
}

// GetScript returns the decoded script chunk for a script member.
func (cl *CastLib) GetScript(n int32) (*chunk.Script, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	s, ok := cl.scriptChunks[n]
	return s, ok
}

// Scripts returns every script member's number mapped to its decoded
// script chunk — used by resolve.Resolver to search a cast library's
// scripts without reaching into the underlying movie directly.
func (cl *CastLib) Scripts() map[int32]*chunk.Script {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	out := make(map[int32]*chunk.Script, len(cl.scriptChunks))
	for n, s := range cl.scriptChunks {
		out[n] = s
	}
	return out
}

// Names returns the movie's shared names table, or nil if this library
// hasn't loaded (or is a loaded library with no Lnam chunk at all).
func (cl *CastLib) Names() *chunk.NameTable {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.movie == nil {
		return nil
	}
	return cl.movie.PrimaryNames()
}

// Movie returns the underlying decoded movie, or nil for a not-yet-loaded
// external cast.
func (cl *CastLib) Movie() *chunk.Movie {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.movie
}

// GetProp reads a cast-library-level property.
func (cl *CastLib) GetProp(prop string) datum.Value {
	switch strings.ToLower(prop) {
	case "number":
		return datum.NewInt(cl.number)
	case "name":
		return datum.NewStr(cl.name)
	case "filename":
		return datum.NewStr(cl.fileName)
	case "preloadmode":
		return datum.NewInt(0)
	case "selection":
		return datum.Void{}
	default:
		if strings.Contains(strings.ToLower(prop), "member") {
			return cl.memberCountProp()
		}
		return datum.Void{}
	}
}

func (cl *CastLib) memberCountProp() datum.Value {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return datum.NewInt(int32(len(cl.memberChunks)))
}

// SetProp writes a writable cast-library property, reporting success.
func (cl *CastLib) SetProp(prop string, v datum.Value) bool {
	switch strings.ToLower(prop) {
	case "name":
		cl.name = datum.ToString(v)
		return true
	case "preloadmode", "selection":
		return true
	default:
		return false
	}
}

func (cl *CastLib) String() string {
	return fmt.Sprintf("castLib %d (%s)", cl.number, cl.name)
}
