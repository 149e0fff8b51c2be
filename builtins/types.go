package builtins

import "shockcore/datum"

func (r *Registry) registerTypeBuiltins() {
	r.Register("integer", func(_ *Context, args []datum.Value) (datum.Value, error) {
		return datum.NewInt(arg0Int(args)), nil
	})
	r.Register("float", func(_ *Context, args []datum.Value) (datum.Value, error) {
		return datum.NewFloat(arg0Float(args)), nil
	})
	r.Register("string", func(_ *Context, args []datum.Value) (datum.Value, error) {
		return datum.NewStr(arg0String(args)), nil
	})
	r.Register("ilk", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.NewSymbol("void"), nil
		}
		return datum.NewSymbol(datum.TypeName(args[0])), nil
	})
}

func arg0Int(args []datum.Value) int32 {
	if len(args) == 0 {
		return 0
	}
	return datum.ToInt(args[0])
}

func arg0Float(args []datum.Value) float64 {
	if len(args) == 0 {
		return 0
	}
	return datum.ToFloat(args[0])
}

func arg0String(args []datum.Value) string {
	if len(args) == 0 {
		return ""
	}
	return datum.ToString(args[0])
}
