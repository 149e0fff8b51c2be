package chunk

import "strings"

// SpriteCell is one channel's score row for a single frame span.
type SpriteCell struct {
	Channel       int32
	MemberCastLib int32
	MemberNumber  int32
	LocH, LocV    int32
	Width, Height int32
	LocZ          int32
	Ink           int32
	Blend         int32
	ScriptCastLib int32 // behavior script attached to this sprite, if any
	ScriptMember  int32
}

// FrameRow is one row (one frame) of the score.
type FrameRow struct {
	Frame          int32
	Sprites        []SpriteCell
	FrameScriptLib int32
	FrameScript    int32
}

// Score is the decoded VWSC chunk.
type Score struct {
	Rows []FrameRow
}

// DecodeScore reads a VWSC chunk: frameCount(4), channelCount(4), then per
// frame a frameScriptLib/frameScript pair followed by channelCount sprite
// cells.
func DecodeScore(raw Raw) *Score {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	frameCount := int(r.u32())
	channelCount := int(r.u32())
	sc := &Score{}
	for f := 0; f < frameCount; f++ {
		row := FrameRow{Frame: int32(f + 1)}
		row.FrameScriptLib = r.i32()
		row.FrameScript = r.i32()
		for c := 0; c < channelCount; c++ {
			cell := SpriteCell{Channel: int32(c + 1)}
			cell.MemberCastLib = r.i32()
			cell.MemberNumber = r.i32()
			cell.LocH = r.i32()
			cell.LocV = r.i32()
			cell.Width = r.i32()
			cell.Height = r.i32()
			cell.LocZ = r.i32()
			cell.Ink = r.i32()
			cell.Blend = r.i32()
			cell.ScriptCastLib = r.i32()
			cell.ScriptMember = r.i32()
			if cell.MemberNumber != 0 {
				row.Sprites = append(row.Sprites, cell)
			}
		}
		sc.Rows = append(sc.Rows, row)
	}
	return sc
}

// FrameLabel is one named frame marker.
type FrameLabel struct {
	Frame int32
	Name  string
}

// FrameLabels is the decoded VWLB chunk.
type FrameLabels struct {
	Labels []FrameLabel
}

// DecodeFrameLabels reads a VWLB chunk: count(2), then count (frame(4),
// nameLen(2)+name) records.
func DecodeFrameLabels(raw Raw) *FrameLabels {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	count := int(r.u16())
	fl := &FrameLabels{}
	for i := 0; i < count; i++ {
		frame := r.i32()
		fl.Labels = append(fl.Labels, FrameLabel{Frame: frame, Name: readPString(r)})
	}
	return fl
}

// Resolve looks up a label case-insensitively, returning its frame number.
func (fl *FrameLabels) Resolve(name string) (int32, bool) {
	for _, l := range fl.Labels {
		if strings.EqualFold(l.Name, name) {
			return l.Frame, true
		}
	}
	return 0, false
}
