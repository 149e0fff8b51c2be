// Package render produces the per-frame ordered list of render sprites
// from score state, runtime puppet overrides, and decoded cast media.
// It is consumer-agnostic: the pixel/audio compositor that turns a
// []Sprite into pixels is an external collaborator this package never
// imports. Positional fields are read through the scheduler's atomic
// snapshot so a script-driven move never tears, and large channel counts
// fan out across a golang.org/x/sync/errgroup worker pool.
package render

import (
	"context"

	"golang.org/x/sync/errgroup"

	"shockcore/cast"
	"shockcore/datum"
)

// fanoutThreshold is the channel count above which BuildFrame switches
// from its sequential fast path to the errgroup-parallel one. Small
// movies (the common case) never cross it.
const fanoutThreshold = 32

// ChannelSource is the narrow surface the frame scheduler exposes for
// building a render list — satisfied by *scheduler.Scheduler without this
// package importing it directly.
type ChannelSource interface {
	ChannelsInOrder() []int32
	SpriteSnapshot(channel int32) (locH, locV, width, height, locZ int32, ok bool)
	GetSpriteProp(channel int32, prop string) datum.Value
}

// Sprite is one renderable entry: position/size/z-order plus an optional
// decoded bitmap, ready for an external compositor to draw.
type Sprite struct {
	Channel       int32
	LocH, LocV    int32
	Width, Height int32
	LocZ          int32
	Ink           int32
	Blend         int32
	Visible       bool
	CastLib       int32
	Member        int32
	Bitmap        *cast.Bitmap
}

// Driver turns live sprite state into an ordered []Sprite every tick.
type Driver struct {
	Channels ChannelSource
	Casts    *cast.Manager
}

// New builds a Driver over a channel source and the cast manager used to
// resolve each sprite's decoded bitmap.
func New(channels ChannelSource, casts *cast.Manager) *Driver {
	return &Driver{Channels: channels, Casts: casts}
}

// BuildFrame returns sprites ordered by LocZ (ties broken by channel
// number, matching the score's paint order), reading each channel's
// snapshot and resolving its member's bitmap. Channel reads are
// independent, so a small movie (the common case) takes a sequential
// path; a large channel count fans out across a bounded worker group,
// recovering per-channel panics into a joined error rather than losing
// the whole frame to one bad channel.
func (d *Driver) BuildFrame() ([]Sprite, error) {
	channels := d.Channels.ChannelsInOrder()
	sprites := make([]Sprite, len(channels))

	if len(channels) < fanoutThreshold {
		for i, c := range channels {
			sprites[i] = d.buildSprite(c)
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		for i, c := range channels {
			i, c := i, c
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = panicErr{r}
					}
				}()
				sprites[i] = d.buildSprite(c)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	insertionSortByPaintOrder(sprites)
	return sprites, nil
}

func (d *Driver) buildSprite(channel int32) Sprite {
	locH, locV, width, height, locZ, ok := d.Channels.SpriteSnapshot(channel)
	if !ok {
		return Sprite{Channel: channel}
	}
	s := Sprite{
		Channel: channel,
		LocH:    locH, LocV: locV,
		Width: width, Height: height,
		LocZ:    locZ,
		Visible: true,
	}
	s.Ink = datum.ToInt(d.Channels.GetSpriteProp(channel, "ink"))
	s.Blend = datum.ToInt(d.Channels.GetSpriteProp(channel, "blend"))
	if v := d.Channels.GetSpriteProp(channel, "visible"); v != nil {
		if _, isVoid := v.(datum.Void); !isVoid {
			s.Visible = datum.IsTruthy(v)
		}
	}
	if ref, ok := d.Channels.GetSpriteProp(channel, "member").(datum.CastMemberRef); ok {
		s.CastLib = ref.CastLib
		s.Member = ref.Member
		s.Bitmap = d.resolveBitmap(ref.CastLib, ref.Member)
	}
	return s
}

func (d *Driver) resolveBitmap(castLib, member int32) *cast.Bitmap {
	if d.Casts == nil {
		return nil
	}
	cl, ok := d.Casts.Get(castLib)
	if !ok {
		return nil
	}
	m, ok := cl.GetMember(member)
	if !ok {
		return nil
	}
	bmp, ok := m.Bitmap()
	if !ok {
		return nil
	}
	return bmp
}

// insertionSortByPaintOrder sorts in place by (LocZ, Channel); insertion
// sort is appropriate here since channel counts are small and already
// near-sorted frame to frame.
func insertionSortByPaintOrder(sprites []Sprite) {
	for i := 1; i < len(sprites); i++ {
		for j := i; j > 0 && paintsBefore(sprites[j], sprites[j-1]); j-- {
			sprites[j], sprites[j-1] = sprites[j-1], sprites[j]
		}
	}
}

func paintsBefore(a, b Sprite) bool {
	if a.LocZ != b.LocZ {
		return a.LocZ < b.LocZ
	}
	return a.Channel < b.Channel
}

type panicErr struct{ v interface{} }

func (e panicErr) Error() string { return "render: panic building sprite: " + errString(e.v) }

func errString(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown panic"
}
