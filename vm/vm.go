// Package vm implements the bytecode interpreter: scope pool, opcode
// dispatch, operator polymorphism, property access, method dispatch on
// every Datum kind, tell-block redirection, and handler call/return.
package vm

import (
	"fmt"

	"shockcore/builtins"
	"shockcore/chunk"
	"shockcore/datum"
	"shockcore/host"
	"shockcore/resolve"
)

// HandlerSource is the narrow surface the VM needs from resolve.Resolver,
// kept as an interface so tests can supply a fake without a full movie.
type HandlerSource interface {
	FindHandler(name string) (*resolve.Handle, bool)
	FindHandlerInScript(castLib, member int32, name string) (*resolve.Handle, bool)
	FindHandlerByScriptID(scriptID int32, name string) (*resolve.Handle, bool)
	ResolveName(nameID int32) string
}

// VM is the single-threaded cooperative interpreter. One VM
// instance is shared across every handler invocation in a movie's
// lifetime; it owns the scope pool, the global variable table, the
// VM-wide item delimiter, and the collaborators execute() consults to
// resolve calls.
type VM struct {
	Pool     *ScopePool
	Handlers HandlerSource
	Casts    host.CastLibProvider
	Builtins *builtins.Registry
	Trace    host.TraceListener

	// Sprites is wired in by the frame scheduler after construction, so
	// get_obj_prop/set_obj_prop on a SpriteRef can reach live runtime
	// sprite state without vm importing the scheduler package. Nil until
	// the scheduler attaches itself.
	Sprites SpriteProvider

	// Nav is wired in by the frame scheduler after construction, the same
	// way as Sprites, so the go/goToFrame/goToLabel built-ins can queue a
	// navigation without vm importing the scheduler package.
	Nav builtins.Navigator

	Globals       map[string]datum.Value
	ItemDelimiter string
	Platform      string
	Clock         func() builtins.Clock

	callDepth    int
	activeScopes []*Scope // innermost last; read by the debugger for snapshots/call-stack capture
}

// NewVM builds a VM with an empty scope pool and global table.
func NewVM(handlers HandlerSource, casts host.CastLibProvider, reg *builtins.Registry, trace host.TraceListener) *VM {
	if trace == nil {
		trace = host.NopTraceListener{}
	}
	return &VM{
		Pool:          NewScopePool(),
		Handlers:      handlers,
		Casts:         casts,
		Builtins:      reg,
		Trace:         trace,
		Globals:       map[string]datum.Value{},
		ItemDelimiter: ",",
	}
}

// RuntimeError wraps a VM-raised error with its script/handler/offset
// context so host.TraceListener.OnError gets a useful message.
type RuntimeError struct {
	ScriptID    int32
	HandlerName string
	Offset      int
	Cause       error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("script %d handler %s offset %d: %v", e.ScriptID, e.HandlerName, e.Offset, e.Cause)
}
func (e *RuntimeError) Unwrap() error { return e.Cause }

var errUndefinedHandler = fmt.Errorf("vm: undefined handler")
var errStackUnderflow = fmt.Errorf("vm: stack underflow")

// builtinContext adapts the VM's environment fields into the shape
// builtins.Func expects, rebuilt per call so Clock/ItemDelimiter reads are
// always current.
func (vm *VM) builtinContext() *builtins.Context {
	ctx := &builtins.Context{
		Casts:         vm.Casts,
		Nav:           vm.Nav,
		Platform:      vm.Platform,
		ItemDelimiter: vm.ItemDelimiter,
	}
	if vm.Clock != nil {
		ctx.Now = vm.Clock
	} else {
		ctx.Now = func() builtins.Clock { return builtins.Clock{} }
	}
	return ctx
}

// Execute runs a resolved handler to completion and returns its value.
// Handlers may recurse through Execute; each nested call acquires its own
// pool-allocated Scope, so call depth is exactly vm.Pool.Depth().
func (vm *VM) Execute(h *resolve.Handle, receiver datum.Value, args []datum.Value) Result {
	if h == nil || h.Handler == nil {
		return Ok(datum.Void{})
	}
	stream := newInstrStream(h.ScriptChunkID, h.Script, h.Handler, h.Names)
	scope := vm.Pool.Acquire(h.ScriptChunkID, h.Name, stream, receiver, args)
	defer vm.Pool.Release(scope)

	vm.callDepth++
	defer func() { vm.callDepth-- }()
	vm.activeScopes = append(vm.activeScopes, scope)
	defer func() { vm.activeScopes = vm.activeScopes[:len(vm.activeScopes)-1] }()

	vm.Trace.OnHandlerEnter(host.HandlerInfo{ScriptID: h.ScriptChunkID, HandlerName: h.Name, Depth: vm.callDepth})
	result := vm.run(scope)
	result.Passed = scope.Passed
	vm.Trace.OnHandlerExit(host.HandlerInfo{ScriptID: h.ScriptChunkID, HandlerName: h.Name, Depth: vm.callDepth}, result.Val)
	return result
}

// CallDepth reports the current handler nesting depth, used by the
// debugger's step-over/step-out suppression rule.
func (vm *VM) CallDepth() int { return vm.callDepth }

// CurrentScope returns the innermost executing scope, or nil if the VM is
// idle. The debugger reads this from inside its TraceListener callbacks
// (called synchronously on the player thread) to build DebugSnapshot's
// stack/locals/args/receiver fields.
func (vm *VM) CurrentScope() *Scope {
	if n := len(vm.activeScopes); n > 0 {
		return vm.activeScopes[n-1]
	}
	return nil
}

// CallStack returns every live call frame, outermost first, for the
// debugger's call-stack capture.
// Scripts carry no intrinsic name in this file format (chunk.Script has no
// name field — only an id), so ScriptName is left blank; callers that want
// a display name resolve it themselves from the owning cast member.
func (vm *VM) CallStack() []host.CallStackEntry {
	out := make([]host.CallStackEntry, len(vm.activeScopes))
	for i, s := range vm.activeScopes {
		out[i] = host.CallStackEntry{
			ScriptID:    s.ScriptID,
			HandlerName: s.HandlerName,
			Args:        append([]datum.Value(nil), s.Args...),
			Receiver:    s.Receiver,
		}
	}
	return out
}

// run drives the fetch-decode-execute loop for one scope until it returns,
// errors, or falls off the end of its code.
func (vm *VM) run(scope *Scope) Result {
	code := scope.Handler.code
	for scope.IP >= 0 && scope.IP < len(code) {
		instr := code[scope.IP]
		vm.Trace.OnInstruction(host.InstructionInfo{
			ScriptID:    scope.ScriptID,
			HandlerName: scope.HandlerName,
			Offset:      instr.Offset,
			Opcode:      instr.Op,
			Argument:    instr.Argument,
			Depth:       vm.callDepth,
		})

		outcome := vm.step(scope, instr)
		if outcome.result.IsError() {
			vm.Trace.OnError(outcome.result.Err.Error(), outcome.result.Err)
			return Ok(datum.Void{}) // unwind; the dispatcher treats the handler as returning VOID
		}
		if outcome.result.IsReturn() {
			return outcome.result
		}
		if outcome.jumped {
			continue
		}
		scope.IP++
	}
	// Fell off the end with no explicit ret: VOID return.
	return Ok(datum.Void{})
}

// stepOutcome lets an opcode either fall through to IP++ (the common
// case), or set scope.IP itself (jumped=true) for branches/loops.
type stepOutcome struct {
	result Result
	jumped bool
}

func ok() stepOutcome { return stepOutcome{result: Ok(datum.Void{})} }
func errOut(e error) stepOutcome { return stepOutcome{result: Errorf(e)} }
func retOut(v datum.Value) stepOutcome { return stepOutcome{result: Return(v)} }
func jumpTo(scope *Scope, idx int) stepOutcome {
	scope.IP = idx
	return stepOutcome{jumped: true}
}

// step dispatches one instruction. Unimplemented opcodes log and continue
// rather than crash.
func (vm *VM) step(scope *Scope, instr chunk.Instruction) stepOutcome {
	switch instr.Op {
	case OpNop:
		return ok()
	case OpPushZero:
		scope.push(datum.NewInt(0))
		return ok()
	case OpPushVoid:
		scope.push(datum.Void{})
		return ok()
	case OpPushCurrentMe:
		scope.push(scope.Receiver)
		return ok()
	case OpDup:
		scope.push(scope.peek())
		return ok()
	case OpSwap:
		b := scope.pop()
		a := scope.pop()
		scope.push(b)
		scope.push(a)
		return ok()

	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpJoinStr, OpJoinPadStr,
		OpLt, OpLtEq, OpNtEq, OpEq, OpGt, OpGtEq, OpAnd, OpOr, OpContainsStr:
		return vm.stepBinary(scope, instr.Op)
	case OpNot:
		v := scope.pop()
		if datum.IsTruthy(v) {
			scope.push(datum.NewInt(0))
		} else {
			scope.push(datum.NewInt(1))
		}
		return ok()
	case OpNegate:
		v := scope.pop()
		switch t := v.(type) {
		case datum.Int:
			scope.push(datum.NewInt(-t.Val))
		case datum.Float:
			scope.push(datum.NewFloat(-t.Val))
		default:
			scope.push(datum.NewInt(-datum.ToInt(v)))
		}
		return ok()

	case OpOntoSpr, OpIntoSpr:
		return vm.stepSpriteGeom(scope, instr.Op)

	case OpStartTell:
		target := scope.pop()
		scope.tellStack = append(scope.tellStack, target)
		return ok()
	case OpEndTell:
		if n := len(scope.tellStack); n > 0 {
			scope.tellStack = scope.tellStack[:n-1]
		}
		return ok()

	case OpRet:
		if len(scope.stack) > 0 {
			return retOut(scope.pop())
		}
		return retOut(datum.Void{})
	case OpRetFactory:
		return retOut(datum.Void{})

	case OpPushInt:
		scope.push(datum.NewInt(instr.Argument))
		return ok()
	case OpPushFloat:
		lit := scope.Handler.literal(instr.Argument)
		scope.push(datum.NewFloat(lit.Float))
		return ok()
	case OpPushLiteral:
		lit := scope.Handler.literal(instr.Argument)
		switch lit.Kind {
		case chunk.LiteralString:
			scope.push(datum.NewStr(lit.Str))
		case chunk.LiteralInt:
			scope.push(datum.NewInt(lit.Int))
		case chunk.LiteralFloat:
			scope.push(datum.NewFloat(lit.Float))
		default:
			scope.push(datum.Void{})
		}
		return ok()
	case OpPushSymbol:
		scope.push(datum.NewSymbol(vm.resolveName(scope, instr.Argument)))
		return ok()

	case OpGetLocal:
		return ok2(scope, vm.getLocal(scope, int(instr.Argument)))
	case OpSetLocal:
		v := scope.pop()
		vm.setLocal(scope, int(instr.Argument), v)
		vm.Trace.OnVariableSet("local", localName(scope, int(instr.Argument)), v)
		return ok()
	case OpGetParam:
		return ok2(scope, vm.getParam(scope, int(instr.Argument)))
	case OpSetParam:
		v := scope.pop()
		vm.setParam(scope, int(instr.Argument), v)
		return ok()
	case OpGetGlobal:
		name := vm.resolveName(scope, instr.Argument)
		if v, found := vm.Globals[name]; found {
			scope.push(v)
		} else {
			scope.push(datum.Void{})
		}
		return ok()
	case OpSetGlobal:
		name := vm.resolveName(scope, instr.Argument)
		v := scope.pop()
		vm.Globals[name] = v
		vm.Trace.OnVariableSet("global", name, v)
		return ok()

	case OpJmp:
		return jumpTo(scope, scope.Handler.indexForOffset(instr.Offset+int(instr.Argument)))
	case OpJmpIfZero:
		v := scope.pop()
		if !datum.IsTruthy(v) {
			return jumpTo(scope, scope.Handler.indexForOffset(instr.Offset+int(instr.Argument)))
		}
		return ok()
	case OpEndRepeat:
		return jumpTo(scope, scope.Handler.indexForOffset(instr.Offset-int(instr.Argument)))

	case OpPushList:
		n := int(instr.Argument)
		items := scope.popN(n)
		scope.push(datum.NewList(items...))
		return ok()
	case OpPushPropList:
		n := int(instr.Argument)
		items := scope.popN(n * 2)
		pairs := make([][2]datum.Value, 0, n)
		for i := 0; i+1 < len(items); i += 2 {
			pairs = append(pairs, [2]datum.Value{items[i], items[i+1]})
		}
		scope.push(datum.NewPropList(pairs...))
		return ok()
	case OpPushArgList:
		n := int(instr.Argument)
		scope.push(datum.NewArgList(scope.popN(n)...))
		return ok()
	case OpPushArgListNoRet:
		n := int(instr.Argument)
		scope.push(datum.NewArgListNoRet(scope.popN(n)...))
		return ok()
	case OpPop:
		scope.popN(int(instr.Argument))
		return ok()

	case OpExtCall:
		return vm.stepExtCall(scope, instr.Argument)
	case OpLocalCall:
		return vm.stepLocalCall(scope, instr.Argument)
	case OpObjCall:
		return vm.stepObjCall(scope, instr.Argument)
	case OpTellCall:
		return vm.stepTellCall(scope, instr.Argument)
	case OpNewObj:
		return vm.stepNewObj(scope, instr.Argument)

	case OpGetProp, OpSetProp, OpGetObjProp, OpSetObjProp, OpGetChainedProp,
		OpGetTopLevelProp, OpGetMovieProp, OpSetMovieProp, OpTheBuiltin:
		return vm.stepProp(scope, instr)

	case OpPushVarRef:
		scope.push(datum.VarRef{Name: vm.resolveName(scope, instr.Argument)})
		return ok()
	case OpPushChunkVarRef:
		return vm.stepPushChunkVarRef(scope, instr.Argument)
	case OpPutRef:
		return vm.stepPutRef(scope)
	case OpDeleteRef:
		return vm.stepDeleteRef(scope)

	default:
		vm.Trace.OnDebugMessage(fmt.Sprintf("vm: unimplemented opcode 0x%02x at offset %d", instr.Op, instr.Offset))
		return ok()
	}
}

func ok2(scope *Scope, v datum.Value) stepOutcome {
	scope.push(v)
	return ok()
}

func (vm *VM) resolveName(scope *Scope, nameID int32) string {
	if scope.Handler.names != nil {
		return scope.Handler.names.Resolve(nameID)
	}
	if vm.Handlers != nil {
		return vm.Handlers.ResolveName(nameID)
	}
	return ""
}

func localName(scope *Scope, idx int) string {
	if idx < 0 || idx >= len(scope.Handler.localNames) {
		return ""
	}
	return scope.Handler.localNames[idx]
}

func (vm *VM) getLocal(scope *Scope, idx int) datum.Value {
	if idx < 0 || idx >= len(scope.Locals) {
		return datum.Void{}
	}
	return scope.Locals[idx]
}

func (vm *VM) setLocal(scope *Scope, idx int, v datum.Value) {
	if idx < 0 || idx >= len(scope.Locals) {
		return
	}
	scope.Locals[idx] = v
}

func (vm *VM) getParam(scope *Scope, idx int) datum.Value {
	if idx < 0 || idx >= len(scope.Args) {
		return datum.Void{}
	}
	return scope.Args[idx]
}

func (vm *VM) setParam(scope *Scope, idx int, v datum.Value) {
	if idx < 0 || idx >= len(scope.Args) {
		return
	}
	scope.Args[idx] = v
}
