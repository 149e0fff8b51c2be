package builtins

import "shockcore/datum"

// registerPropListBuiltins wires the PropList-specific method-dispatch
// names (getProp/setProp/addProp/deleteProp/getPropAt), the key/value
// counterpart to registerListBuiltins.
func (r *Registry) registerPropListBuiltins() {
	r.Register("getProp", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			if v, ok := p.GetProp(args[1]); ok {
				return v, nil
			}
		}
		return datum.Void{}, nil
	})

	r.Register("setProp", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 3 {
			return datum.Void{}, nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			p.SetProp(args[1], args[2])
		}
		return datum.Void{}, nil
	})

	r.Register("addProp", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 3 {
			return datum.Void{}, nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			pos := 0
			if len(args) >= 4 {
				pos = int(datum.ToInt(args[3]))
			}
			p.AddProp(pos, args[1], args[2])
		}
		return datum.Void{}, nil
	})

	r.Register("deleteProp", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			return boolInt(p.DeleteProp(args[1])), nil
		}
		return datum.NewInt(0), nil
	})

	r.Register("getPropAt", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			k, _, ok := p.GetAt(int(datum.ToInt(args[1])))
			if ok {
				return k, nil
			}
		}
		return datum.Void{}, nil
	})

	r.Register("getAProp", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if p, ok := args[0].(datum.PropList); ok {
			if v, ok := p.GetProp(args[1]); ok {
				return v, nil
			}
		}
		return datum.Void{}, nil
	})
}
