package vm

import (
	"strings"

	"shockcore/builtins"
	"shockcore/chunk"
	"shockcore/datum"
)

// SpriteProvider is the narrow surface the VM needs to read/write runtime
// sprite state for get_obj_prop/set_obj_prop on a SpriteRef. The frame
// scheduler implements this and wires itself in after construction,
// keeping vm from importing the scheduler package.
type SpriteProvider interface {
	GetSpriteProp(channel int32, prop string) datum.Value
	SetSpriteProp(channel int32, prop string, v datum.Value) bool
}

// stepProp dispatches the property-access opcode family: me-relative,
// object-relative, chained, top-level, movie-level, and the_builtin
// environment reads.
func (vm *VM) stepProp(scope *Scope, instr chunk.Instruction) stepOutcome {
	name := vm.resolveName(scope, instr.Argument)
	switch instr.Op {
	case OpGetProp:
		scope.push(vm.getObjectProp(scope.Receiver, name))
		return ok()
	case OpSetProp:
		v := scope.pop()
		vm.setObjectProp(scope.Receiver, name, v)
		return ok()
	case OpGetObjProp, OpGetChainedProp:
		obj := scope.pop()
		scope.push(vm.getObjectProp(obj, name))
		return ok()
	case OpSetObjProp:
		v := scope.pop()
		obj := scope.pop()
		vm.setObjectProp(obj, name, v)
		return ok()
	case OpGetTopLevelProp:
		scope.push(vm.getTopLevelProp(name))
		return ok()
	case OpGetMovieProp:
		scope.push(vm.getMovieProp(name))
		return ok()
	case OpSetMovieProp:
		v := scope.pop()
		vm.setMovieProp(name, v)
		return ok()
	case OpTheBuiltin:
		scope.push(builtins.TheBuiltin(vm.builtinContext(), name))
		return ok()
	default:
		return ok()
	}
}

// GetObjectProp exposes getObjectProp for the debugger's watch/condition/
// log-point property resolution, so expr.Env.PropertyOf
// can reach the same dispatch the VM itself uses without debug importing
// vm's unexported internals.
func (vm *VM) GetObjectProp(obj datum.Value, name string) datum.Value {
	return vm.getObjectProp(obj, name)
}

// getObjectProp reads a property off obj, dispatching by Datum kind.
// CastMemberRef/CastLibRef go through the injected
// host.CastLibProvider; SpriteRef goes through the optionally-wired
// SpriteProvider; ScriptInstance reads its own property list; List/
// PropList/Point/Rect read their structural fields by name.
func (vm *VM) getObjectProp(obj datum.Value, name string) datum.Value {
	switch v := obj.(type) {
	case datum.ScriptInstance:
		if strings.EqualFold(name, "ancestor") {
			if anc, ok := v.Ancestor(); ok {
				return anc
			}
			return datum.Void{}
		}
		if val, ok := v.Properties().GetProp(datum.NewSymbol(name)); ok {
			return val
		}
		return datum.Void{}
	case datum.CastMemberRef:
		if vm.Casts == nil {
			return datum.Void{}
		}
		cl, ok := vm.Casts.GetCastLibByNumber(v.CastLib)
		if !ok {
			return datum.Void{}
		}
		m, ok := cl.GetMember(v.Member)
		if !ok {
			return datum.Void{}
		}
		return m.GetProp(name)
	case datum.CastLibRef:
		if vm.Casts == nil {
			return datum.Void{}
		}
		cl, ok := vm.Casts.GetCastLibByNumber(v.Number)
		if !ok {
			return datum.Void{}
		}
		return cl.GetProp(name)
	case datum.SpriteRef:
		if vm.Sprites == nil {
			return datum.Void{}
		}
		return vm.Sprites.GetSpriteProp(v.Channel, name)
	case datum.PropList:
		if val, ok := v.GetProp(datum.NewSymbol(name)); ok {
			return val
		}
		return datum.Void{}
	case datum.List:
		if strings.EqualFold(name, "count") {
			return datum.NewInt(int32(v.Count()))
		}
		return datum.Void{}
	case datum.Point:
		switch strings.ToLower(name) {
		case "loch", "x":
			return datum.NewInt(v.X)
		case "locv", "y":
			return datum.NewInt(v.Y)
		}
		return datum.Void{}
	case datum.Rect:
		switch strings.ToLower(name) {
		case "left":
			return datum.NewInt(v.L)
		case "top":
			return datum.NewInt(v.T)
		case "right":
			return datum.NewInt(v.R)
		case "bottom":
			return datum.NewInt(v.B)
		case "width":
			return datum.NewInt(v.Width())
		case "height":
			return datum.NewInt(v.Height())
		}
		return datum.Void{}
	default:
		return datum.Void{}
	}
}

func (vm *VM) setObjectProp(obj datum.Value, name string, val datum.Value) {
	switch v := obj.(type) {
	case datum.ScriptInstance:
		if strings.EqualFold(name, "ancestor") {
			if anc, ok := val.(datum.ScriptInstance); ok {
				v.SetAncestor(anc)
			}
			return
		}
		v.Properties().SetProp(datum.NewSymbol(name), val)
	case datum.CastMemberRef:
		if vm.Casts == nil {
			return
		}
		cl, ok := vm.Casts.GetCastLibByNumber(v.CastLib)
		if !ok {
			return
		}
		if m, ok := cl.GetMember(v.Member); ok {
			m.SetProp(name, val)
		}
	case datum.CastLibRef:
		if vm.Casts == nil {
			return
		}
		if cl, ok := vm.Casts.GetCastLibByNumber(v.Number); ok {
			cl.SetProp(name, val)
		}
	case datum.SpriteRef:
		if vm.Sprites != nil {
			vm.Sprites.SetSpriteProp(v.Channel, name, val)
		}
	case datum.PropList:
		v.SetProp(datum.NewSymbol(name), val)
	}
}

// getTopLevelProp resolves a bare top-level environment name. Only #stage
// and #actorList have a concrete home in this core's data model; anything else reads from the global
// table under a "the."-prefixed key so scripts that stash their own
// top-level state still round-trip.
func (vm *VM) getTopLevelProp(name string) datum.Value {
	switch strings.ToLower(name) {
	case "stage":
		return datum.NewSymbol("stage")
	case "actorlist":
		if v, ok := vm.Globals["__actorList"]; ok {
			return v
		}
		return datum.NewList()
	default:
		if v, ok := vm.Globals["the."+strings.ToLower(name)]; ok {
			return v
		}
		return datum.Void{}
	}
}

// getMovieProp/setMovieProp implement the movie-level property surface.
// itemDelimiter is the one writable case; frame/frameCount are read-only,
// sourced from globals the frame scheduler publishes each tick.
func (vm *VM) getMovieProp(name string) datum.Value {
	switch strings.ToLower(name) {
	case "itemdelimiter":
		return datum.NewStr(vm.ItemDelimiter)
	case "frame":
		if v, ok := vm.Globals["__currentFrame"]; ok {
			return v
		}
		return datum.NewInt(0)
	case "framecount":
		if v, ok := vm.Globals["__frameCount"]; ok {
			return v
		}
		return datum.NewInt(0)
	case "platform":
		return datum.NewStr(vm.Platform)
	default:
		if v, ok := vm.Globals["movie."+strings.ToLower(name)]; ok {
			return v
		}
		return datum.Void{}
	}
}

func (vm *VM) setMovieProp(name string, v datum.Value) {
	switch strings.ToLower(name) {
	case "itemdelimiter":
		s := datum.ToString(v)
		if s != "" {
			vm.ItemDelimiter = s
		}
	default:
		// read-only unless specified above
	}
}
