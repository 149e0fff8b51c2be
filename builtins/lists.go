package builtins

import (
	"shockcore/datum"
)

// registerListBuiltins wires the List collection methods
// (count/getAt/setAt/add/append/addAt/deleteAt/deleteOne/sort/getLast/
// findPos) over the reference-shared List cell.
func (r *Registry) registerListBuiltins() {
	r.Register("count", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.NewInt(0), nil
		}
		switch v := args[0].(type) {
		case datum.List:
			return datum.NewInt(int32(v.Count())), nil
		case datum.PropList:
			return datum.NewInt(int32(v.Count())), nil
		default:
			return datum.NewInt(0), nil
		}
	})

	r.Register("getAt", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			return l.GetAt(int(datum.ToInt(args[1]))), nil
		}
		return datum.Void{}, nil
	})

	r.Register("setAt", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 3 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			l.SetAt(int(datum.ToInt(args[1])), args[2])
		}
		return datum.Void{}, nil
	})

	r.Register("add", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			l.Append(args[1])
		}
		return datum.Void{}, nil
	})
	r.Register("append", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			l.Append(args[1])
		}
		return datum.Void{}, nil
	})

	r.Register("addAt", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 3 {
			return datum.NewInt(0), nil
		}
		if l, ok := args[0].(datum.List); ok {
			ok2 := l.AddAt(int(datum.ToInt(args[1])), args[2])
			return boolInt(ok2), nil
		}
		return datum.NewInt(0), nil
	})

	r.Register("deleteAt", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		if l, ok := args[0].(datum.List); ok {
			return boolInt(l.DeleteAt(int(datum.ToInt(args[1])))), nil
		}
		return datum.NewInt(0), nil
	})

	r.Register("deleteOne", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		if l, ok := args[0].(datum.List); ok {
			return boolInt(l.DeleteOne(args[1])), nil
		}
		return datum.NewInt(0), nil
	})

	r.Register("findPos", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		switch v := args[0].(type) {
		case datum.List:
			return datum.NewInt(int32(v.FindPos(args[1]))), nil
		case datum.PropList:
			if _, ok := v.GetProp(args[1]); ok {
				for i := 1; i <= v.Count(); i++ {
					k, _, _ := v.GetAt(i)
					if k.Equal(args[1]) {
						return datum.NewInt(int32(i)), nil
					}
				}
			}
			return datum.NewInt(0), nil
		default:
			return datum.NewInt(0), nil
		}
	})

	r.Register("getLast", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			return l.GetLast(), nil
		}
		return datum.Void{}, nil
	})

	r.Register("sort", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.Void{}, nil
		}
		if l, ok := args[0].(datum.List); ok {
			l.Sort(func(a, b datum.Value) bool { return datum.Compare(a, b) < 0 })
		}
		return datum.Void{}, nil
	})

	r.Register("duplicate", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.Void{}, nil
		}
		switch v := args[0].(type) {
		case datum.List:
			return v.Clone(), nil
		case datum.PropList:
			return v.Clone(), nil
		default:
			return args[0], nil
		}
	})
}

func boolInt(b bool) datum.Int {
	if b {
		return datum.NewInt(1)
	}
	return datum.NewInt(0)
}
