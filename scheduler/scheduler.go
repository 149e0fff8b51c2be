// Package scheduler implements the per-tick frame state machine:
// stepFrame/prepareFrame/enterFrame dispatch, the exitFrame-then-advance
// transition with pendingFrame navigation, and sprite enter/leave
// tracking.
package scheduler

import (
	"sort"
	"strings"
	"sync"

	"shockcore/builtins"
	"shockcore/chunk"
	"shockcore/datum"
	"shockcore/event"
	"shockcore/resolve"
	"shockcore/timeout"
	"shockcore/vm"
)

// MovieScriptCastLib is the sentinel ScriptRef.CastLib value for
// frame-script and movie-script instances, which aren't owned by a
// numbered cast member the way sprite behaviors are — vm.Invoke resolves
// any negative castLib directly by scriptChunkID (ScriptRef.Member).
const MovieScriptCastLib int32 = -1

// Scheduler drives the frame loop over a decoded movie.
// It implements event.ChannelSource and vm.SpriteProvider, and wires
// itself into the VM and timeout manager it's built around.
type Scheduler struct {
	VM       *vm.VM
	Movie    *chunk.Movie
	Events   *event.Dispatcher
	Timeouts *timeout.Manager

	CurrentFrame  int32
	pendingFrame  int32
	inFrameScript bool

	active       map[int32]datum.ScriptInstance
	movieScripts []datum.ScriptInstance

	hasFrameScript bool
	frameScript    datum.ScriptInstance

	actorList []datum.ScriptInstance

	spriteMu sync.RWMutex
	sprites  map[int32]chunk.SpriteCell
}

// New builds a Scheduler over an already-decoded movie and the VM that
// will run its handlers, constructs every movie-level script instance up
// front in script-id order, and wires itself in as the VM's sprite
// property provider and navigator.
func New(v *vm.VM, m *chunk.Movie) *Scheduler {
	s := &Scheduler{
		VM:      v,
		Movie:   m,
		active:  map[int32]datum.ScriptInstance{},
		sprites: map[int32]chunk.SpriteCell{},
	}
	s.Events = event.NewDispatcher(v, s)
	s.Timeouts = timeout.NewManager(v)
	v.Sprites = s
	v.Nav = s
	s.registerActorBuiltins()

	var ids []int32
	for id := range m.Scripts {
		if resolve.ScriptKindOf(m, id) == chunk.ScriptKindMovie {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.movieScripts = append(s.movieScripts, datum.NewScriptInstance(
			datum.ScriptRef{CastLib: MovieScriptCastLib, Member: id}, datum.NewPropList()))
	}

	if m.Score != nil && len(m.Score.Rows) > 0 {
		s.CurrentFrame = 1
	}
	return s
}

// --- event.ChannelSource ---

func (s *Scheduler) ChannelsInOrder() []int32 {
	chans := make([]int32, 0, len(s.active))
	for c := range s.active {
		chans = append(chans, c)
	}
	sort.Slice(chans, func(i, j int) bool { return chans[i] < chans[j] })
	return chans
}

func (s *Scheduler) BehaviorsOnChannel(c int32) []datum.ScriptInstance {
	if inst, ok := s.active[c]; ok {
		return []datum.ScriptInstance{inst}
	}
	return nil
}

func (s *Scheduler) FrameScriptInstance() (datum.ScriptInstance, bool) {
	return s.frameScript, s.hasFrameScript
}

func (s *Scheduler) MovieScriptsInOrder() []datum.ScriptInstance {
	return s.movieScripts
}

// --- vm.SpriteProvider ---

func (s *Scheduler) GetSpriteProp(channel int32, prop string) datum.Value {
	s.spriteMu.RLock()
	cell, ok := s.sprites[channel]
	s.spriteMu.RUnlock()
	if !ok {
		return datum.Void{}
	}
	switch strings.ToLower(prop) {
	case "loch":
		return datum.NewInt(cell.LocH)
	case "locv":
		return datum.NewInt(cell.LocV)
	case "loc":
		return datum.Point{X: cell.LocH, Y: cell.LocV}
	case "width":
		return datum.NewInt(cell.Width)
	case "height":
		return datum.NewInt(cell.Height)
	case "locz":
		return datum.NewInt(cell.LocZ)
	case "ink":
		return datum.NewInt(cell.Ink)
	case "blend":
		return datum.NewInt(cell.Blend)
	case "rect":
		return datum.Rect{L: cell.LocH, T: cell.LocV, R: cell.LocH + cell.Width, B: cell.LocV + cell.Height}
	case "member":
		return datum.CastMemberRef{CastLib: normalizeCastLib(cell.MemberCastLib), Member: cell.MemberNumber}
	default:
		return datum.Void{}
	}
}

func (s *Scheduler) SetSpriteProp(channel int32, prop string, v datum.Value) bool {
	s.spriteMu.Lock()
	defer s.spriteMu.Unlock()
	cell, ok := s.sprites[channel]
	if !ok {
		return false
	}
	switch strings.ToLower(prop) {
	case "loch":
		cell.LocH = datum.ToInt(v)
	case "locv":
		cell.LocV = datum.ToInt(v)
	case "loc":
		if p, ok := v.(datum.Point); ok {
			cell.LocH, cell.LocV = p.X, p.Y
		}
	case "width":
		cell.Width = datum.ToInt(v)
	case "height":
		cell.Height = datum.ToInt(v)
	case "locz":
		cell.LocZ = datum.ToInt(v)
	case "ink":
		cell.Ink = datum.ToInt(v)
	case "blend":
		cell.Blend = datum.ToInt(v)
	default:
		return false
	}
	s.sprites[channel] = cell
	return true
}

// SpriteSnapshot returns the five-int positional snapshot the renderer
// reads, safe under concurrent script-driven moves.
func (s *Scheduler) SpriteSnapshot(channel int32) (locH, locV, width, height, locZ int32, ok bool) {
	s.spriteMu.RLock()
	defer s.spriteMu.RUnlock()
	cell, found := s.sprites[channel]
	if !found {
		return 0, 0, 0, 0, 0, false
	}
	return cell.LocH, cell.LocV, cell.Width, cell.Height, cell.LocZ, true
}

func normalizeCastLib(n int32) int32 {
	if n == 0 {
		return 1
	}
	return n
}

// registerActorBuiltins wires `addActor`/`removeActor`, the script-facing
// entry points into the actor list.
func (s *Scheduler) registerActorBuiltins() {
	if s.VM.Builtins == nil {
		return
	}
	s.VM.Builtins.Register("addActor", func(_ *builtins.Context, args []datum.Value) (datum.Value, error) {
		if len(args) > 0 {
			if inst, ok := args[0].(datum.ScriptInstance); ok {
				s.AddActor(inst)
			}
		}
		return datum.Void{}, nil
	})
	s.VM.Builtins.Register("removeActor", func(_ *builtins.Context, args []datum.Value) (datum.Value, error) {
		if len(args) > 0 {
			if inst, ok := args[0].(datum.ScriptInstance); ok {
				s.RemoveActor(inst)
			}
		}
		return datum.Void{}, nil
	})
}

// AddActor/RemoveActor maintain the VM-visible actorList.
func (s *Scheduler) AddActor(inst datum.ScriptInstance) {
	s.actorList = append(s.actorList, inst)
	s.syncActorList()
}

func (s *Scheduler) RemoveActor(inst datum.ScriptInstance) {
	out := s.actorList[:0]
	for _, a := range s.actorList {
		if !a.Equal(inst) {
			out = append(out, a)
		}
	}
	s.actorList = out
	s.syncActorList()
}

func (s *Scheduler) syncActorList() {
	items := make([]datum.Value, len(s.actorList))
	for i, a := range s.actorList {
		items[i] = a
	}
	s.VM.Globals["__actorList"] = datum.NewList(items...)
}

// Start runs the movie-lifecycle opening sequence: dispatch the two
// global lifecycle events, then transition into the movie's first frame
// so its sprites and
// frame script are constructed and beginSprite fires before the first
// Step/Advance tick. Calling Start on a scoreless movie dispatches the
// lifecycle events and leaves CurrentFrame at zero.
func (s *Scheduler) Start() {
	s.Events.DispatchGlobal(string(event.PrepareMovie), nil)
	s.Events.DispatchGlobal(string(event.StartMovie), nil)
	if s.Movie.Score != nil && len(s.Movie.Score.Rows) > 0 {
		s.transitionTo(1)
	}
}

// Stop dispatches the global stopMovie lifecycle event.
func (s *Scheduler) Stop() {
	s.Events.DispatchGlobal(string(event.StopMovie), nil)
}

// Step runs one tick's dispatch sequence: actor-list stepFrame (quiet),
// global stepFrame, timeout
// prepareFrame fan-out, global prepareFrame, then enterFrame with
// inFrameScript held true for its duration.
func (s *Scheduler) Step(now int64) {
	for _, actor := range s.actorList {
		s.VM.CallMethodQuiet(actor, "stepFrame", nil)
	}
	s.Events.DispatchGlobal(string(event.StepFrame), nil)
	s.Timeouts.ProcessTimeouts(now)
	s.Timeouts.DispatchSystemEvent(string(event.PrepareFrame))
	s.Events.DispatchGlobal(string(event.PrepareFrame), nil)
	s.inFrameScript = true
	s.Events.DispatchGlobal(string(event.EnterFrame), nil)
	s.inFrameScript = false
}

// Advance dispatches exitFrame, then moves to pendingFrame if one was set
// by a script's `go`/`goToFrame` call this tick, else to currentFrame+1
// wrapping to frame 1 past the last row.
func (s *Scheduler) Advance() {
	s.Timeouts.DispatchSystemEvent(string(event.ExitFrame))
	s.Events.DispatchGlobal(string(event.ExitFrame), nil)

	var next int32
	if s.pendingFrame != 0 {
		next = s.pendingFrame
	} else {
		next = s.CurrentFrame + 1
		if s.Movie.Score == nil || int(next) > len(s.Movie.Score.Rows) {
			next = 1
		}
	}
	s.pendingFrame = 0
	s.transitionTo(next)
}

// Go queues a navigation to an absolute frame number, taking effect on
// the next Advance; an out-of-range frame is
// a silent no-op.
func (s *Scheduler) Go(frame int32) {
	if s.Movie.Score == nil || frame < 1 || int(frame) > len(s.Movie.Score.Rows) {
		return
	}
	s.pendingFrame = frame
}

// GoToLabel resolves name against the decoded frame labels and queues
// that frame; an unknown label is a silent no-op.
func (s *Scheduler) GoToLabel(name string) {
	if s.Movie.Labels == nil {
		return
	}
	if f, ok := s.Movie.Labels.Resolve(name); ok {
		s.Go(f)
	}
}

func (s *Scheduler) rowForFrame(frame int32) (*chunk.FrameRow, bool) {
	if s.Movie.Score == nil || frame < 1 || int(frame) > len(s.Movie.Score.Rows) {
		return nil, false
	}
	return &s.Movie.Score.Rows[frame-1], true
}

// transitionTo moves the live state to frame next: fires endSprite for
// channels the new row drops, updates currentFrame and the movie-prop
// globals, constructs behavior/frame-script instances for what's newly
// present, and fires beginSprite for channels the old row didn't have and
// for the new frame-script instance.
func (s *Scheduler) transitionTo(next int32) {
	row, ok := s.rowForFrame(next)

	newChannels := map[int32]chunk.SpriteCell{}
	if ok {
		for _, cell := range row.Sprites {
			newChannels[cell.Channel] = cell
		}
	}

	for c, inst := range s.active {
		if _, stillPresent := newChannels[c]; !stillPresent {
			s.Events.DispatchSprite(c, string(event.EndSprite), []datum.Value{inst})
			delete(s.active, c)
			s.spriteMu.Lock()
			delete(s.sprites, c)
			s.spriteMu.Unlock()
		}
	}

	s.CurrentFrame = next
	s.VM.Globals["__currentFrame"] = datum.NewInt(next)
	if s.Movie.Score != nil {
		s.VM.Globals["__frameCount"] = datum.NewInt(int32(len(s.Movie.Score.Rows)))
	}

	s.hasFrameScript = false
	s.frameScript = datum.ScriptInstance{}

	var entered []int32
	if ok {
		for _, cell := range row.Sprites {
			s.spriteMu.Lock()
			s.sprites[cell.Channel] = cell
			s.spriteMu.Unlock()
			if _, existed := s.active[cell.Channel]; !existed {
				if inst, built := s.constructBehavior(cell); built {
					s.active[cell.Channel] = inst
				} else {
					s.active[cell.Channel] = datum.NewScriptInstance(datum.ScriptRef{}, datum.NewPropList())
				}
				entered = append(entered, cell.Channel)
			}
		}
		if row.FrameScript != 0 {
			s.frameScript = datum.NewScriptInstance(
				datum.ScriptRef{CastLib: MovieScriptCastLib, Member: row.FrameScript}, datum.NewPropList())
			s.hasFrameScript = true
		}
	}

	for _, c := range entered {
		s.Events.DispatchSprite(c, string(event.BeginSprite), []datum.Value{s.active[c]})
	}
	if s.hasFrameScript {
		fs := s.frameScript
		sref := fs.Script()
		s.VM.Invoke(sref.CastLib, sref.Member, fs, string(event.BeginSprite), []datum.Value{fs})
	}
}

// constructBehavior builds the sprite-behavior instance a score cell
// names and runs its `new` constructor with the channel number as its
// one argument.
func (s *Scheduler) constructBehavior(cell chunk.SpriteCell) (datum.ScriptInstance, bool) {
	if cell.ScriptMember == 0 {
		return datum.ScriptInstance{}, false
	}
	castLib := normalizeCastLib(cell.ScriptCastLib)
	ref := datum.ScriptRef{CastLib: castLib, Member: cell.ScriptMember}
	inst := datum.NewScriptInstance(ref, datum.NewPropList())
	s.VM.Invoke(castLib, cell.ScriptMember, inst, "new", []datum.Value{datum.NewInt(cell.Channel)})
	return inst, true
}
