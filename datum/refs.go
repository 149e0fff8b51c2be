package datum

import "fmt"

// CastLibRef refers to a cast library by 1-based number.
type CastLibRef struct{ Number int32 }

func (CastLibRef) Kind() Kind { return KindCastLibRef }
func (CastLibRef) Truthy() bool { return true }
func (c CastLibRef) String() string { return fmt.Sprintf("castLib %d", c.Number) }
func (c CastLibRef) Equal(o Value) bool {
	ov, ok := o.(CastLibRef)
	return ok && ov == c
}

// CastMemberRef refers to a member within a cast library. The packed
// Number() has the member number in the low 16 bits and the cast library
// in the high 16 bits.
type CastMemberRef struct {
	CastLib int32
	Member  int32
}

func (CastMemberRef) Kind() Kind { return KindCastMemberRef }
func (CastMemberRef) Truthy() bool { return true }
func (c CastMemberRef) String() string {
	return fmt.Sprintf("member %d of castLib %d", c.Member, c.CastLib)
}
func (c CastMemberRef) Equal(o Value) bool {
	ov, ok := o.(CastMemberRef)
	return ok && ov == c
}

// Number packs CastLib (high 16 bits) and Member (low 16 bits), matching
// the legacy packed-member-number convention.
func (c CastMemberRef) Number() int32 {
	return (c.CastLib << 16) | (c.Member & 0xFFFF)
}

// SpriteRef refers to a sprite channel (1-based).
type SpriteRef struct{ Channel int32 }

func (SpriteRef) Kind() Kind { return KindSpriteRef }
func (SpriteRef) Truthy() bool { return true }
func (s SpriteRef) String() string { return fmt.Sprintf("sprite %d", s.Channel) }
func (s SpriteRef) Equal(o Value) bool {
	ov, ok := o.(SpriteRef)
	return ok && ov == s
}

// ScriptRef refers to a script cast member, usable for `new()` and direct
// handler lookup.
type ScriptRef struct {
	CastLib int32
	Member  int32
}

func (ScriptRef) Kind() Kind { return KindScriptRef }
func (ScriptRef) Truthy() bool { return true }
func (s ScriptRef) String() string {
	return fmt.Sprintf("script %d of castLib %d", s.Member, s.CastLib)
}
func (s ScriptRef) Equal(o Value) bool {
	ov, ok := o.(ScriptRef)
	return ok && ov == s
}

// ScriptInstance is an allocated parent-script object: properties plus an
// optional ancestor link.
type ScriptInstance struct {
	cell *instanceCell
}

type instanceCell struct {
	Script     ScriptRef
	Properties PropList
	Ancestor   *ScriptInstance
}

// NewScriptInstance allocates a fresh instance backed by its own properties.
func NewScriptInstance(script ScriptRef, props PropList) ScriptInstance {
	return ScriptInstance{cell: &instanceCell{Script: script, Properties: props}}
}

func (ScriptInstance) Kind() Kind { return KindScriptInstance }
func (ScriptInstance) Truthy() bool { return true }
func (s ScriptInstance) String() string { return fmt.Sprintf("instance of %s", s.cell.Script) }
func (s ScriptInstance) Equal(o Value) bool {
	ov, ok := o.(ScriptInstance)
	return ok && ov.cell == s.cell
}

func (s ScriptInstance) Script() ScriptRef { return s.cell.Script }
func (s ScriptInstance) Properties() PropList { return s.cell.Properties }

// Ancestor returns the parent instance in the ancestor chain, if any.
func (s ScriptInstance) Ancestor() (ScriptInstance, bool) {
	if s.cell.Ancestor == nil {
		return ScriptInstance{}, false
	}
	return *s.cell.Ancestor, true
}

// SetAncestor wires the ancestor chain for `setAncestor`-style mutation.
func (s ScriptInstance) SetAncestor(a ScriptInstance) {
	cp := a
	s.cell.Ancestor = &cp
}

// MaxAncestorHops bounds the ancestor walk; chains may legally cycle.
const MaxAncestorHops = 20

// TimeoutRef names a live timeout object.
type TimeoutRef struct{ Name string }

func (TimeoutRef) Kind() Kind { return KindTimeoutRef }
func (TimeoutRef) Truthy() bool { return true }
func (t TimeoutRef) String() string { return fmt.Sprintf("timeout %q", t.Name) }
func (t TimeoutRef) Equal(o Value) bool {
	ov, ok := o.(TimeoutRef)
	return ok && ov.Name == t.Name
}

// ImageRef refers to a decoded bitmap buffer opaque to the VM.
type ImageRef struct{ BitmapID int64 }

func (ImageRef) Kind() Kind { return KindImageRef }
func (ImageRef) Truthy() bool { return true }
func (i ImageRef) String() string { return fmt.Sprintf("image %d", i.BitmapID) }
func (i ImageRef) Equal(o Value) bool {
	ov, ok := o.(ImageRef)
	return ok && ov == i
}

// SoundRef refers to a decoded sound buffer.
type SoundRef struct{ SoundID int64 }

func (SoundRef) Kind() Kind { return KindSoundRef }
func (SoundRef) Truthy() bool { return true }
func (s SoundRef) String() string { return fmt.Sprintf("sound %d", s.SoundID) }
func (s SoundRef) Equal(o Value) bool {
	ov, ok := o.(SoundRef)
	return ok && ov == s
}

// XtraInstance refers to a host-provided extension object by name/id.
type XtraInstance struct {
	XtraName string
	ID       int64
}

func (XtraInstance) Kind() Kind { return KindXtraInstance }
func (XtraInstance) Truthy() bool { return true }
func (x XtraInstance) String() string { return fmt.Sprintf("xtra %s %d", x.XtraName, x.ID) }
func (x XtraInstance) Equal(o Value) bool {
	ov, ok := o.(XtraInstance)
	return ok && ov == x
}
