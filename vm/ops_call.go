package vm

import (
	"strings"

	"shockcore/datum"
)

// popArgs pops the single arg-list value a call opcode expects (built by a
// preceding push_arg_list/push_arg_list_no_ret) and returns its items,
// degrading gracefully to a one-element slice if the top of stack isn't
// actually an arg-list.
func popArgs(scope *Scope) []datum.Value {
	v := scope.pop()
	switch t := v.(type) {
	case datum.ArgList:
		return t.Items()
	case datum.ArgListNoRet:
		return t.Items()
	case datum.List:
		return t.Items()
	case datum.Void:
		return nil
	default:
		return []datum.Value{v}
	}
}

// stepExtCall implements ext_call: built-in wins over any user handler,
// then any movie/external-cast handler.
// `pass` is a language keyword, not a registered
// built-in or handler — it sets the scope's passed flag and ends the
// handler immediately.
func (vm *VM) stepExtCall(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	args := popArgs(scope)

	if strings.EqualFold(name, "pass") {
		scope.Passed = true
		return retOut(datum.Void{})
	}

	if v, err, handled := vm.Builtins.Call(name, vm.builtinContext(), args); handled {
		if err != nil {
			return errOut(&RuntimeError{ScriptID: scope.ScriptID, HandlerName: scope.HandlerName, Cause: err})
		}
		scope.push(v)
		return ok()
	}
	if h, found := vm.Handlers.FindHandler(name); found {
		res := vm.Execute(h, datum.Void{}, args)
		scope.push(res.Val)
		return ok()
	}
	return errOut(&RuntimeError{ScriptID: scope.ScriptID, HandlerName: scope.HandlerName, Cause: errUndefinedHandler})
}

// stepLocalCall implements local_call: resolution restricted to the
// calling scope's own script.
func (vm *VM) stepLocalCall(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	args := popArgs(scope)
	if h, found := vm.Handlers.FindHandlerByScriptID(scope.ScriptID, name); found {
		res := vm.Execute(h, scope.Receiver, args)
		scope.push(res.Val)
		return ok()
	}
	return errOut(&RuntimeError{ScriptID: scope.ScriptID, HandlerName: scope.HandlerName, Cause: errUndefinedHandler})
}

// stepObjCall implements obj_call: the popped arg-list's first element is
// the receiver, dispatched via the Datum method-dispatch rules.
func (vm *VM) stepObjCall(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	items := popArgs(scope)
	if len(items) == 0 {
		scope.push(datum.Void{})
		return ok()
	}
	receiver := items[0]
	args := items[1:]
	v, err := vm.callMethod(receiver, name, args, false)
	if err != nil {
		return errOut(&RuntimeError{ScriptID: scope.ScriptID, HandlerName: scope.HandlerName, Cause: err})
	}
	scope.push(v)
	return ok()
}

// stepTellCall implements tell_call: dispatch to the top of the scope's
// tell-target stack.
func (vm *VM) stepTellCall(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	args := popArgs(scope)
	target, has := scope.tellTop()
	if !has {
		scope.push(datum.Void{})
		return ok()
	}
	v, err := vm.callMethod(target, name, args, false)
	if err != nil {
		return errOut(&RuntimeError{ScriptID: scope.ScriptID, HandlerName: scope.HandlerName, Cause: err})
	}
	scope.push(v)
	return ok()
}

// stepNewObj implements new_obj: resolves nameId to a script cast member
// by name and constructs a ScriptInstance, invoking its `new` handler (if
// any) with the popped constructor arguments.
func (vm *VM) stepNewObj(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	args := popArgs(scope)
	sref, found := vm.findScriptRefByName(name)
	if !found {
		scope.push(datum.Void{})
		return ok()
	}
	inst := datum.NewScriptInstance(sref, datum.NewPropList())
	if h, ok := vm.Handlers.FindHandlerInScript(sref.CastLib, sref.Member, "new"); ok {
		vm.Execute(h, inst, args)
	}
	scope.push(inst)
	return ok()
}

// findScriptRefByName locates a script cast member by its display name
// across every loaded cast library, via the injected host.CastLibProvider
// so this package never imports the cast
// package directly.
func (vm *VM) findScriptRefByName(name string) (datum.ScriptRef, bool) {
	if vm.Casts == nil {
		return datum.ScriptRef{}, false
	}
	for i := int32(1); i <= int32(vm.Casts.GetCastLibCount()); i++ {
		cl, ok := vm.Casts.GetCastLibByNumber(i)
		if !ok {
			continue
		}
		mh, ok := cl.GetMemberByName(name)
		if !ok || mh.TypeName() != "script" {
			continue
		}
		return datum.ScriptRef{CastLib: cl.Number(), Member: mh.Number()}, true
	}
	return datum.ScriptRef{}, false
}
