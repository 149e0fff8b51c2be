package vm

import (
	"strings"

	"shockcore/builtins"
	"shockcore/datum"
	"shockcore/resolve"
)

// callMethod chooses a dispatch strategy by the receiver's Datum kind.
// quiet suppresses the global
// handler fallback on an unresolved ScriptInstance method — the frame
// scheduler's actor-list stepFrame dispatch needs that suppression;
// ordinary obj_call/
// tell_call opcodes want the full fallback.
func (vm *VM) callMethod(obj datum.Value, name string, args []datum.Value, quiet bool) (datum.Value, error) {
	switch recv := obj.(type) {
	case datum.ScriptInstance:
		return vm.callOnInstance(recv, name, args, quiet)
	case datum.ScriptRef:
		if strings.EqualFold(name, "new") {
			inst := datum.NewScriptInstance(recv, datum.NewPropList())
			if h, ok := vm.Handlers.FindHandlerInScript(recv.CastLib, recv.Member, "new"); ok {
				vm.Execute(h, inst, args)
			}
			return inst, nil
		}
		if h, ok := vm.Handlers.FindHandlerInScript(recv.CastLib, recv.Member, name); ok {
			return vm.Execute(h, datum.Void{}, args).Val, nil
		}
		return datum.Void{}, nil
	case datum.List:
		return vm.callBuiltinMethod(name, append([]datum.Value{recv}, args...))
	case datum.PropList:
		return vm.callBuiltinMethod(name, append([]datum.Value{recv}, args...))
	case datum.Str:
		return vm.callStringMethod(recv.Val, name, args)
	case datum.XtraInstance:
		// Host xtra callback surface is out of scope for this core;
		// a
		// caller holding an XtraInstance gets VOID rather than a panic.
		return datum.Void{}, nil
	case datum.Symbol:
		if strings.EqualFold(recv.Val, "stage") {
			return vm.callStageMethod(name)
		}
		return vm.callBuiltinMethod(name, append([]datum.Value{recv}, args...))
	default:
		return vm.callBuiltinMethod(name, append([]datum.Value{obj}, args...))
	}
}

// CallMethodQuiet is the exported entry point for the frame scheduler /
// event dispatcher's actor-list stepFrame dispatch.
func (vm *VM) CallMethodQuiet(obj datum.Value, name string, args []datum.Value) (datum.Value, error) {
	return vm.callMethod(obj, name, args, true)
}

// Invoke satisfies event.Executor/timeout.Executor: it resolves name on
// the script identified by (castLib, member) and runs it against inst,
// reporting whether a handler was found and, if so, whether it ended in
// `pass`. Used for the ancestor cascade, where each hop
// names its own script explicitly rather than going through the full
// Datum method-dispatch rules callMethod implements.
//
// A negative castLib is the frame/movie-script scheduler's sentinel for
// "this ScriptInstance's script isn't addressed by cast member — resolve
// by scriptChunkID directly" (scheduler.MovieScriptCastLib), since
// top-level movie and frame scripts aren't owned by a numbered cast
// member the way sprite behaviors are.
func (vm *VM) Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (handled, passed bool) {
	var h *resolve.Handle
	var ok bool
	if castLib < 0 {
		h, ok = vm.Handlers.FindHandlerByScriptID(member, name)
	} else {
		h, ok = vm.Handlers.FindHandlerInScript(castLib, member, name)
	}
	if !ok {
		return false, false
	}
	res := vm.Execute(h, inst, args)
	return true, res.Passed
}

// InvokeGlobal satisfies timeout.Executor: it resolves name against the
// ordinary global search (movie scripts, then external casts) and runs it
// with a VOID receiver.
func (vm *VM) InvokeGlobal(name string, args []datum.Value) bool {
	h, ok := vm.Handlers.FindHandler(name)
	if !ok {
		return false
	}
	vm.Execute(h, datum.Void{}, args)
	return true
}

// callOnInstance resolves name on the instance's own script, then walks
// its ancestor chain up to MaxAncestorHops, returning
// whichever handler answers first. If none do: quiet callers get VOID;
// non-quiet callers fall through to the global handler lookup (the
// standard ext_call-style search).
func (vm *VM) callOnInstance(inst datum.ScriptInstance, name string, args []datum.Value, quiet bool) (datum.Value, error) {
	cur := inst
	for hops := 0; hops <= datum.MaxAncestorHops; hops++ {
		sref := cur.Script()
		if h, ok := vm.Handlers.FindHandlerInScript(sref.CastLib, sref.Member, name); ok {
			res := vm.Execute(h, cur, args)
			return res.Val, nil
		}
		anc, has := cur.Ancestor()
		if !has {
			break
		}
		cur = anc
	}
	if quiet {
		return datum.Void{}, nil
	}
	if h, ok := vm.Handlers.FindHandler(name); ok {
		return vm.Execute(h, inst, args).Val, nil
	}
	return datum.Void{}, nil
}

// callBuiltinMethod routes a Datum-method dispatch through the built-in
// registry, the same family registerListBuiltins/registerPropListBuiltins
// wire in, with the receiver as args[0].
func (vm *VM) callBuiltinMethod(name string, args []datum.Value) (datum.Value, error) {
	v, err, handled := vm.Builtins.Call(name, vm.builtinContext(), args)
	if !handled {
		return datum.Void{}, nil
	}
	return v, err
}

// callStringMethod implements the String-receiver methods:
// count(chunkType), getPropRef(chunkType, start, end), and split(delim).
func (vm *VM) callStringMethod(s, name string, args []datum.Value) (datum.Value, error) {
	switch strings.ToLower(name) {
	case "count":
		if len(args) == 0 {
			return datum.NewInt(0), nil
		}
		kind := chunkKindFromArg(args[0])
		delim := vm.ItemDelimiter
		return datum.NewInt(int32(len(datum.SplitChunks(s, kind, delim)))), nil
	case "getpropref":
		if len(args) < 3 {
			return datum.Void{}, nil
		}
		kind := chunkKindFromArg(args[0])
		start := int(datum.ToInt(args[1]))
		end := int(datum.ToInt(args[2]))
		return datum.NewStringChunk(s, kind, start, end, vm.ItemDelimiter), nil
	case "split":
		delim := vm.ItemDelimiter
		if len(args) > 0 {
			delim = datum.ToString(args[0])
		}
		return builtins.Split(s, delim), nil
	default:
		return vm.callBuiltinMethod(name, append([]datum.Value{datum.NewStr(s)}, args...))
	}
}

// callStageMethod implements the documented Stage-receiver methods.
// The data
// model carries no dedicated Stage datum (§3's variant list has none), so
// a bare #stage symbol stands in for it; these are host-visible window
// operations this core has no window to act on, so they succeed as no-ops.
func (vm *VM) callStageMethod(name string) (datum.Value, error) {
	switch strings.ToLower(name) {
	case "movetofront", "movetoback", "close", "forget":
		return datum.Void{}, nil
	default:
		return datum.Void{}, nil
	}
}

func chunkKindFromArg(v datum.Value) datum.ChunkKind {
	sym, ok := v.(datum.Symbol)
	if !ok {
		return datum.ChunkItem
	}
	switch strings.ToLower(sym.Val) {
	case "char", "chars":
		return datum.ChunkChar
	case "word", "words":
		return datum.ChunkWord
	case "line", "lines":
		return datum.ChunkLine
	default:
		return datum.ChunkItem
	}
}
