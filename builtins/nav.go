package builtins

import "shockcore/datum"

// registerNavBuiltins wires the frame-navigation built-ins: `go(frame)`
// and `goToFrame(frame)` both queue an absolute frame change; `goToLabel(name)` resolves a label from the
// labels chunk. All three are fire-and-forget from the script's
// perspective: queued for the next Advance, never applied mid-tick.
func (r *Registry) registerNavBuiltins() {
	goTo := func(ctx *Context, args []datum.Value) (datum.Value, error) {
		if ctx == nil || ctx.Nav == nil || len(args) == 0 {
			return datum.Void{}, nil
		}
		ctx.Nav.Go(arg0Int(args))
		return datum.Void{}, nil
	}
	r.Register("go", goTo)
	r.Register("goToFrame", goTo)

	r.Register("goToLabel", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		if ctx == nil || ctx.Nav == nil || len(args) == 0 {
			return datum.Void{}, nil
		}
		ctx.Nav.GoToLabel(arg0String(args))
		return datum.Void{}, nil
	})
}
