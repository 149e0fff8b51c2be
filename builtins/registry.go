// Package builtins implements the built-in function registry and the
// `the_builtin` environment values the VM's ext_call/the_builtin opcodes
// resolve against: a name -> function map, each function taking a call
// context plus an argument slice.
package builtins

import (
	"strings"

	"shockcore/datum"
	"shockcore/host"
)

// Func is a registered built-in: it receives the call context (cast
// access, environment clock, item delimiter) and the already-evaluated
// argument list, and returns a value or an error the VM funnels through
// onError.
type Func func(ctx *Context, args []datum.Value) (datum.Value, error)

// Navigator is the narrow surface the `go`/`goToLabel` built-ins need from
// the frame scheduler: queue a frame or label
// change, taking effect on the next Advance. The scheduler implements this
// directly (its Go/GoToLabel methods) and wires itself in after
// construction, the same seam VM.Sprites uses for sprite geometry.
type Navigator interface {
	Go(frame int32)
	GoToLabel(name string)
}

// Context carries everything a built-in needs beyond its arguments,
// injected rather than reached for globally.
type Context struct {
	Casts         host.CastLibProvider
	Nav           Navigator
	Now           func() Clock
	Platform      string
	ItemDelimiter string
}

// Clock is the environment-time snapshot `the_builtin` reads from
// (ticks/time/date/milliseconds); injected so tests are deterministic.
type Clock struct {
	Ticks        int64
	TimeOfDay    string
	Date         string
	Milliseconds int64
}

// Registry holds every registered built-in by case-insensitive name.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds a registry with every built-in family wired in.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	r.registerTypeBuiltins()
	r.registerStringBuiltins()
	r.registerListBuiltins()
	r.registerPropListBuiltins()
	r.registerNetBuiltins()
	r.registerNavBuiltins()
	return r
}

// Register adds or replaces a built-in under name (case preserved for
// listing, matched case-insensitively at call time).
func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToLower(name)] = fn
}

// Call invokes a registered built-in by name; ok is false if no built-in
// with that name exists, letting the caller fall through to user-handler
// resolution (built-in > local > movie > external cast).
func (r *Registry) Call(name string, ctx *Context, args []datum.Value) (datum.Value, error, bool) {
	if r == nil {
		return datum.Void{}, nil, false
	}
	fn, ok := r.funcs[strings.ToLower(name)]
	if !ok {
		return datum.Void{}, nil, false
	}
	v, err := fn(ctx, args)
	return v, err, true
}

// Has reports whether name is registered, without calling it.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[strings.ToLower(name)]
	return ok
}

// TheBuiltin resolves the environment values `the_builtin(nameId)` exposes:
// ticks, time, date, milliseconds, platform, itemDelimiter.
func TheBuiltin(ctx *Context, name string) datum.Value {
	clock := Clock{}
	if ctx != nil && ctx.Now != nil {
		clock = ctx.Now()
	}
	switch strings.ToLower(name) {
	case "ticks":
		return datum.NewInt(int32(clock.Ticks))
	case "time":
		return datum.NewStr(clock.TimeOfDay)
	case "date":
		return datum.NewStr(clock.Date)
	case "milliseconds":
		return datum.NewInt(int32(clock.Milliseconds))
	case "platform":
		if ctx != nil {
			return datum.NewStr(ctx.Platform)
		}
		return datum.NewStr("")
	case "itemdelimiter":
		if ctx != nil && ctx.ItemDelimiter != "" {
			return datum.NewStr(ctx.ItemDelimiter)
		}
		return datum.NewStr(",")
	default:
		return datum.Void{}
	}
}
