package render

import (
	"testing"

	"shockcore/datum"
)

type fakeChannels struct {
	chans []int32
	cells map[int32][5]int32
	props map[int32]map[string]datum.Value
}

func (f *fakeChannels) ChannelsInOrder() []int32 { return f.chans }

func (f *fakeChannels) SpriteSnapshot(channel int32) (int32, int32, int32, int32, int32, bool) {
	c, ok := f.cells[channel]
	if !ok {
		return 0, 0, 0, 0, 0, false
	}
	return c[0], c[1], c[2], c[3], c[4], true
}

func (f *fakeChannels) GetSpriteProp(channel int32, prop string) datum.Value {
	if m, ok := f.props[channel]; ok {
		if v, ok := m[prop]; ok {
			return v
		}
	}
	return datum.Void{}
}

func TestBuildFrameOrdersByLocZThenChannel(t *testing.T) {
	fc := &fakeChannels{
		chans: []int32{3, 1, 2},
		cells: map[int32][5]int32{
			1: {0, 0, 10, 10, 5},
			2: {0, 0, 10, 10, 1},
			3: {0, 0, 10, 10, 1},
		},
	}
	d := New(fc, nil)
	sprites, err := d.BuildFrame()
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if len(sprites) != 3 {
		t.Fatalf("expected 3 sprites, got %d", len(sprites))
	}
	// locZ=1 channels (2,3) paint before locZ=5 (1); ties break by channel.
	wantOrder := []int32{2, 3, 1}
	for i, ch := range wantOrder {
		if sprites[i].Channel != ch {
			t.Fatalf("position %d: want channel %d, got %d", i, ch, sprites[i].Channel)
		}
	}
}

func TestBuildFrameSkipsMissingChannel(t *testing.T) {
	fc := &fakeChannels{chans: []int32{7}, cells: map[int32][5]int32{}}
	d := New(fc, nil)
	sprites, err := d.BuildFrame()
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if len(sprites) != 1 || sprites[0].Visible {
		t.Fatalf("expected one invisible placeholder sprite, got %+v", sprites)
	}
}

func TestBuildFrameHonorsVisibleFalse(t *testing.T) {
	fc := &fakeChannels{
		chans: []int32{1},
		cells: map[int32][5]int32{1: {0, 0, 10, 10, 0}},
		props: map[int32]map[string]datum.Value{
			1: {"visible": datum.NewInt(0)},
		},
	}
	d := New(fc, nil)
	sprites, err := d.BuildFrame()
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if sprites[0].Visible {
		t.Fatalf("expected sprite to be invisible")
	}
}

func TestBuildFrameFansOutAboveThreshold(t *testing.T) {
	fc := &fakeChannels{cells: map[int32][5]int32{}}
	for i := int32(1); i <= fanoutThreshold+5; i++ {
		fc.chans = append(fc.chans, i)
		fc.cells[i] = [5]int32{0, 0, 1, 1, i}
	}
	d := New(fc, nil)
	sprites, err := d.BuildFrame()
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if len(sprites) != len(fc.chans) {
		t.Fatalf("expected %d sprites, got %d", len(fc.chans), len(sprites))
	}
	for i := 1; i < len(sprites); i++ {
		if sprites[i].LocZ < sprites[i-1].LocZ {
			t.Fatalf("sprites not sorted by LocZ at %d", i)
		}
	}
}
