package debug

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"shockcore/datum"
	"shockcore/expr"
	"shockcore/host"
	"shockcore/vm"
)

// stepMode is the active stepping command, reset to stepNone once honored.
type stepMode int

const (
	stepNone stepMode = iota
	stepInto
	stepOver
	stepOut
)

// Controller implements host.TraceListener, turning the VM's instruction
// stream into pause points. Each pause cycle uses a fresh weighted size-1
// semaphore, self-acquired then Acquired a second time to block until a
// step/continue command releases it.
type Controller struct {
	Store    *Store
	Listener host.DebugStateListener
	VM       *vm.VM

	mu        sync.Mutex
	enabled   bool
	paused    bool
	gate      *semaphore.Weighted
	stepMode  stepMode
	baseDepth int
	pauseReq  bool

	watches map[string]string // name -> expression text, evaluated in declaration order
}

// NewController wires a debugger around vmInstance's TraceListener slot.
// Listener may be nil (equivalent to host.NopDebugStateListener).
func NewController(vmInstance *vm.VM, store *Store, listener host.DebugStateListener) *Controller {
	if listener == nil {
		listener = host.NopDebugStateListener{}
	}
	return &Controller{
		Store:    store,
		Listener: listener,
		VM:       vmInstance,
		watches:  map[string]string{},
	}
}

// SetEnabled turns pause evaluation on/off without detaching the listener;
// disabling while paused resumes immediately.
func (c *Controller) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()
	if !on {
		c.Reset()
	}
}

// Pause arms an unconditional pause at the next executed instruction.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.pauseReq = true
	c.mu.Unlock()
}

// Continue releases a paused VM with no pending step mode.
func (c *Controller) Continue() { c.resume(stepNone) }

// StepInto resumes and pauses again at the very next instruction,
// regardless of call depth.
func (c *Controller) StepInto() { c.resume(stepInto) }

// StepOver resumes and pauses again once execution returns to the same
// call depth it was at when the command was issued, skipping any nested
// calls entirely.
func (c *Controller) StepOver() { c.resume(stepOver) }

// StepOut resumes and pauses again once execution returns to a shallower
// call depth than it was at when the command was issued.
func (c *Controller) StepOut() { c.resume(stepOut) }

func (c *Controller) resume(mode stepMode) {
	c.mu.Lock()
	depth := 0
	if c.VM != nil {
		depth = c.VM.CallDepth()
	}
	c.stepMode = mode
	c.baseDepth = depth
	if mode == stepOut {
		// Step-out targets the caller's depth: pause only once execution is
		// shallower than the handler the command was issued in.
		c.baseDepth = depth - 1
	}
	c.pauseReq = false
	gate := c.gate
	c.gate = nil
	wasPaused := c.paused
	c.paused = false
	c.mu.Unlock()
	if gate != nil {
		gate.Release(1)
	}
	if wasPaused {
		c.Listener.OnResumed()
	}
}

// Reset clears every pending pause/step state and releases a blocked VM
// thread, if any — used when the movie is being torn down or reloaded so a
// paused VM never deadlocks the shutdown.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.stepMode = stepNone
	c.pauseReq = false
	gate := c.gate
	c.gate = nil
	wasPaused := c.paused
	c.paused = false
	c.mu.Unlock()
	if gate != nil {
		gate.Release(1)
	}
	if wasPaused {
		c.Listener.OnResumed()
	}
}

// SetWatch adds or replaces a named watch expression.
func (c *Controller) SetWatch(name, expression string) {
	c.mu.Lock()
	c.watches[name] = expression
	c.mu.Unlock()
	c.Listener.OnWatchExpressionsChanged()
}

// RemoveWatch deletes a named watch expression.
func (c *Controller) RemoveWatch(name string) {
	c.mu.Lock()
	delete(c.watches, name)
	c.mu.Unlock()
	c.Listener.OnWatchExpressionsChanged()
}

// --- host.TraceListener ---

func (c *Controller) OnHandlerEnter(host.HandlerInfo) {}

func (c *Controller) OnHandlerExit(host.HandlerInfo, datum.Value) {}

func (c *Controller) OnVariableSet(string, string, datum.Value) {}

func (c *Controller) OnError(message string, cause error) {}

func (c *Controller) OnDebugMessage(string) {}

// OnInstruction is the should-pause decision point, evaluated in a fixed
// order: an explicit pause request first, then step-over/out
// depth suppression (inside a skipped call, nothing else is evaluated),
// then breakpoint condition/hit-count/log-point handling, and finally the
// active step mode.
func (c *Controller) OnInstruction(info host.InstructionInfo) {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	pauseReq := c.pauseReq
	mode := c.stepMode
	base := c.baseDepth
	c.mu.Unlock()

	if pauseReq {
		c.pauseAt(info)
		return
	}

	if (mode == stepOver || mode == stepOut) && info.Depth > base {
		// Inside a skipped call: breakpoints never fire, but an encounter
		// still counts toward a hit-count threshold.
		if bp, ok := c.Store.Get(info.ScriptID, info.Offset); ok && bp.Enabled && c.evalCondition(bp) {
			c.Store.recordHit(info.ScriptID, info.Offset)
		}
		return
	}

	if bp, ok := c.Store.Get(info.ScriptID, info.Offset); ok && bp.Enabled {
		if c.evalCondition(bp) {
			hit, _ := c.Store.recordHit(info.ScriptID, info.Offset)
			if bp.IsLogPoint() {
				msg := expr.Interpolate(bp.LogMessage, c.envFor())
				c.Listener.OnLogPointHit(toHostBreakpoint(hit), msg)
			} else if hit.HitCountThreshold <= 0 || hit.HitCount >= hit.HitCountThreshold {
				c.pauseAt(info)
				return
			}
		}
	}

	switch mode {
	case stepInto:
		c.pauseAt(info)
	case stepOver, stepOut:
		if info.Depth <= base {
			c.pauseAt(info)
		}
	}
}

func (c *Controller) evalCondition(bp Breakpoint) bool {
	if bp.Condition == "" {
		return true
	}
	v, err := expr.Eval(bp.Condition, c.envFor())
	if err != nil {
		// A condition that fails to evaluate never pauses; the user sees
		// the parse error when they next edit the breakpoint.
		return false
	}
	return datum.IsTruthy(v)
}

// pauseAt builds the DebugSnapshot, publishes it, and blocks the calling
// (VM) goroutine until a step/continue/reset call releases the gate.
func (c *Controller) pauseAt(info host.InstructionInfo) {
	snapshot := c.snapshot(info)

	gate := semaphore.NewWeighted(1)
	_ = gate.Acquire(context.Background(), 1) // consume the only token; never blocks (fresh semaphore)

	c.mu.Lock()
	c.gate = gate
	c.paused = true
	c.stepMode = stepNone
	c.mu.Unlock()

	c.Listener.OnPaused(snapshot)

	_ = gate.Acquire(context.Background(), 1) // blocks until resume()/Reset() releases it
}

func (c *Controller) snapshot(info host.InstructionInfo) host.DebugSnapshot {
	snap := host.DebugSnapshot{
		ScriptID:    info.ScriptID,
		HandlerName: info.HandlerName,
		Offset:      info.Offset,
		Opcode:      info.Opcode,
		Argument:    info.Argument,
	}
	if c.VM != nil {
		globals := make(map[string]datum.Value, len(c.VM.Globals))
		for k, v := range c.VM.Globals {
			globals[k] = v
		}
		snap.Globals = globals
		snap.CallStack = c.VM.CallStack()
		if scope := c.VM.CurrentScope(); scope != nil {
			snap.Stack = scope.Stack()
			snap.Locals = append([]datum.Value(nil), scope.Locals...)
			snap.Args = append([]datum.Value(nil), scope.Args...)
			snap.Receiver = scope.Receiver
		}
	}
	snap.EvaluatedWatches = c.evaluateWatches()
	return snap
}

// evaluateWatches runs every registered watch expression against the
// current frame, capturing evaluation errors as the displayed text itself.
func (c *Controller) evaluateWatches() map[string]string {
	c.mu.Lock()
	names := make([]string, 0, len(c.watches))
	for name := range c.watches {
		names = append(names, name)
	}
	exprs := make(map[string]string, len(c.watches))
	for k, v := range c.watches {
		exprs[k] = v
	}
	c.mu.Unlock()
	sort.Strings(names)

	env := c.envFor()
	out := make(map[string]string, len(names))
	for _, name := range names {
		v, err := expr.Eval(exprs[name], env)
		if err != nil {
			out[name] = "<" + err.Error() + ">"
			continue
		}
		out[name] = v.String()
	}
	return out
}

// envFor builds the expr.Env for watch/condition/log-point evaluation at
// the current frame.
func (c *Controller) envFor() *expr.Env {
	env := &expr.Env{
		PropertyOf: func(receiver datum.Value, name string) (datum.Value, bool) {
			if c.VM == nil {
				return nil, false
			}
			return c.VM.GetObjectProp(receiver, name), true
		},
	}
	if c.VM == nil {
		return env
	}
	env.Globals = c.VM.Globals
	if scope := c.VM.CurrentScope(); scope != nil {
		locals := map[string]datum.Value{}
		if scope.Handler != nil {
			for i, n := range scope.Handler.LocalNames() {
				if i < len(scope.Locals) {
					locals[strings.ToLower(n)] = scope.Locals[i]
				}
			}
			for i, n := range scope.Handler.ArgNames() {
				if i < len(scope.Args) {
					locals[strings.ToLower(n)] = scope.Args[i]
				}
			}
		}
		env.Locals = locals
		env.Args = scope.Args
		env.Me = scope.Receiver
		env.HasMe = true
	}
	return env
}

func toHostBreakpoint(bp Breakpoint) host.Breakpoint {
	return host.Breakpoint{
		ScriptID:          bp.ScriptID,
		Offset:            bp.Offset,
		Enabled:           bp.Enabled,
		Condition:         bp.Condition,
		LogMessage:        bp.LogMessage,
		HitCount:          bp.HitCount,
		HitCountThreshold: bp.HitCountThreshold,
	}
}
