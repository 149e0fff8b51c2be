package builtins

import "shockcore/datum"

// registerNetBuiltins wires `preloadNetThing`, the explicit trigger for
// an external cast's fetch, plus the companion `netDone`/`mediaReady`
// queries a script uses to poll it without blocking.
func (r *Registry) registerNetBuiltins() {
	r.Register("preloadNetThing", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		if ctx == nil || ctx.Casts == nil || len(args) == 0 {
			return datum.NewInt(0), nil
		}
		n := castLibNumberArg(args[0])
		lib, ok := ctx.Casts.GetCastLibByNumber(n)
		if !ok {
			return datum.NewInt(0), nil
		}
		if err := lib.EnsureLoaded(); err != nil {
			return datum.NewInt(0), nil
		}
		return datum.NewInt(1), nil
	})

	// netDone/mediaReady are synchronous in this core: preloadNetThing
	// never returns before the fetch completes, so once it has been called the answer is always
	// "done" for a library that successfully loaded.
	r.Register("netDone", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return mediaReady(ctx, args), nil
	})
	r.Register("mediaReady", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return mediaReady(ctx, args), nil
	})
}

func mediaReady(ctx *Context, args []datum.Value) datum.Value {
	if ctx == nil || ctx.Casts == nil || len(args) == 0 {
		return datum.NewInt(0)
	}
	n := castLibNumberArg(args[0])
	lib, ok := ctx.Casts.GetCastLibByNumber(n)
	if !ok {
		return datum.NewInt(0)
	}
	if lib.IsLoaded() {
		return datum.NewInt(1)
	}
	return datum.NewInt(0)
}

func castLibNumberArg(v datum.Value) int32 {
	switch ref := v.(type) {
	case datum.CastLibRef:
		return ref.Number
	case datum.CastMemberRef:
		return ref.CastLib
	default:
		return datum.ToInt(v)
	}
}
