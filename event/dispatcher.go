// Package event implements the player-event cascade: sprite,
// frame-and-movie, and global event fan-out, with ancestor-chain `pass`
// continuation.
package event

import "shockcore/datum"

// Name enumerates the PlayerEvent kinds this core dispatches.
type Name string

const (
	PrepareMovie Name = "prepareMovie"
	StartMovie   Name = "startMovie"
	StopMovie    Name = "stopMovie"
	PrepareFrame Name = "prepareFrame"
	EnterFrame   Name = "enterFrame"
	ExitFrame    Name = "exitFrame"
	StepFrame    Name = "stepFrame"
	BeginSprite  Name = "beginSprite"
	EndSprite    Name = "endSprite"
	MouseDown    Name = "mouseDown"
	MouseUp      Name = "mouseUp"
	KeyDown      Name = "keyDown"
	KeyUp        Name = "keyUp"
	Idle         Name = "idle"
)

// ChannelSource supplies the live per-channel behavior instances and the
// frame-script/movie-script targets the dispatcher cascades events across.
// The frame scheduler implements this.
type ChannelSource interface {
	ChannelsInOrder() []int32
	BehaviorsOnChannel(channel int32) []datum.ScriptInstance
	FrameScriptInstance() (datum.ScriptInstance, bool)
	MovieScriptsInOrder() []datum.ScriptInstance
}

// Executor is the narrow VM surface the dispatcher needs: resolve name on
// the given script and run it against inst, reporting whether a handler
// was found at all and, if so, whether it ended in `pass`.
type Executor interface {
	Invoke(castLib, member int32, inst datum.ScriptInstance, name string, args []datum.Value) (handled, passed bool)
}

// Dispatcher fans PlayerEvents out to sprite/frame/movie targets.
type Dispatcher struct {
	VM       Executor
	Channels ChannelSource
}

// NewDispatcher builds a Dispatcher over the given VM-adapter and
// channel/script source (typically the frame scheduler).
func NewDispatcher(v Executor, channels ChannelSource) *Dispatcher {
	return &Dispatcher{VM: v, Channels: channels}
}

// DispatchSprite sends name to channel c's behavior chain, in score order.
func (d *Dispatcher) DispatchSprite(c int32, name string, args []datum.Value) {
	for _, inst := range d.Channels.BehaviorsOnChannel(c) {
		if !d.cascadeAncestors(inst, name, args) {
			return
		}
	}
}

// cascadeAncestors walks inst's own script, then its ancestor chain,
// invoking the first handler found at each link. A handler that ends
// without `pass` stops the overall cascade (returns false); an absent
// handler, or one that `pass`es, continues to the next ancestor, and once
// ancestors are exhausted, to the next target in the caller's list.
func (d *Dispatcher) cascadeAncestors(inst datum.ScriptInstance, name string, args []datum.Value) bool {
	cur := inst
	for hops := 0; hops <= datum.MaxAncestorHops; hops++ {
		sref := cur.Script()
		if handled, passed := d.VM.Invoke(sref.CastLib, sref.Member, cur, name, args); handled {
			if !passed {
				return false
			}
		}
		anc, has := cur.Ancestor()
		if !has {
			return true
		}
		cur = anc
	}
	return true
}

// DispatchFrameAndMovie sends name to the frame-script instance first,
// then every movie script's top-level handler in script-id order; any
// uncaught `pass` continues the cascade to the next target.
func (d *Dispatcher) DispatchFrameAndMovie(name string, args []datum.Value) {
	if fs, ok := d.Channels.FrameScriptInstance(); ok {
		if !d.cascadeAncestors(fs, name, args) {
			return
		}
	}
	for _, ms := range d.Channels.MovieScriptsInOrder() {
		if !d.cascadeAncestors(ms, name, args) {
			return
		}
	}
}

// DispatchGlobal fans name out to every channel's behaviors, then to the
// frame/movie scripts.
func (d *Dispatcher) DispatchGlobal(name string, args []datum.Value) {
	for _, c := range d.Channels.ChannelsInOrder() {
		d.DispatchSprite(c, name, args)
	}
	d.DispatchFrameAndMovie(name, args)
}
