package vm

import "shockcore/datum"

// stepPushChunkVarRef implements push_chunk_var_ref: the chunk kind, start
// bound, and end bound come off the stack (pushed in that order by the
// compiler, so they pop end, start, kind), and nameID names the target
// variable. Only globals
// are addressable this way — locals/params already have dedicated index
// opcodes, the same simplification push_var_ref makes.
func (vm *VM) stepPushChunkVarRef(scope *Scope, nameID int32) stepOutcome {
	name := vm.resolveName(scope, nameID)
	end := int(datum.ToInt(scope.pop()))
	start := int(datum.ToInt(scope.pop()))
	kind := chunkKindFromArg(scope.pop())
	scope.push(datum.ChunkVarRef{
		VarName:   name,
		Unit:      kind,
		Start:     start,
		End:       end,
		Delimiter: vm.ItemDelimiter,
	})
	return ok()
}

// stepPutRef implements put_ref: pops the value then the ref, and writes
// the value through it. A VarRef replaces the whole global;
// a ChunkVarRef splits the variable's current string into chunks, replaces
// the addressed range with the new value, and rejoins.
func (vm *VM) stepPutRef(scope *Scope) stepOutcome {
	val := scope.pop()
	ref := scope.pop()
	switch r := ref.(type) {
	case datum.VarRef:
		vm.Globals[r.Name] = val
	case datum.ChunkVarRef:
		vm.writeChunkRef(r, datum.ToString(val))
	}
	return ok()
}

// stepDeleteRef implements delete_ref: pops the ref and removes the
// chunk range it addresses from its source variable. A bare VarRef has no
// smaller unit to delete, so it clears the variable to an empty string.
func (vm *VM) stepDeleteRef(scope *Scope) stepOutcome {
	ref := scope.pop()
	switch r := ref.(type) {
	case datum.VarRef:
		vm.Globals[r.Name] = datum.NewStr("")
	case datum.ChunkVarRef:
		vm.deleteChunkRef(r)
	}
	return ok()
}

func (vm *VM) writeChunkRef(r datum.ChunkVarRef, replacement string) {
	current := datum.ToString(vm.Globals[r.VarName])
	parts := datum.SplitChunks(current, r.Unit, r.Delimiter)
	start, end := clampChunkRange(r.Start, r.End, len(parts))
	if start > len(parts) {
		parts = append(parts, replacement)
	} else {
		out := make([]string, 0, len(parts)-(end-start+1)+1)
		out = append(out, parts[:start-1]...)
		out = append(out, replacement)
		out = append(out, parts[end:]...)
		parts = out
	}
	vm.Globals[r.VarName] = datum.NewStr(datum.JoinChunks(parts, r.Unit, r.Delimiter))
}

func (vm *VM) deleteChunkRef(r datum.ChunkVarRef) {
	current := datum.ToString(vm.Globals[r.VarName])
	parts := datum.SplitChunks(current, r.Unit, r.Delimiter)
	start, end := clampChunkRange(r.Start, r.End, len(parts))
	if start > len(parts) {
		return
	}
	out := make([]string, 0, len(parts)-(end-start+1))
	out = append(out, parts[:start-1]...)
	out = append(out, parts[end:]...)
	vm.Globals[r.VarName] = datum.NewStr(datum.JoinChunks(out, r.Unit, r.Delimiter))
}

func clampChunkRange(start, end, n int) (int, int) {
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}
