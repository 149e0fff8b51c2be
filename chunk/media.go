package chunk

// Text is the decoded STXT chunk: raw styled-text content and the run
// table, kept opaque beyond line-ending normalization.
type Text struct {
	Content string
	Runs    []byte // style-run table, opaque to this core
}

// DecodeText reads an STXT chunk: contentLen(4)+content, then the
// remainder is the style-run table.
func DecodeText(raw Raw) *Text {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	n := int(r.u32())
	content := string(r.bytes(n))
	return &Text{Content: NormalizeLineEndings(content), Runs: r.bytes(r.remaining())}
}

// NormalizeLineEndings converts CRLF/LF sequences to the legacy \r line
// ending text members store.
func NormalizeLineEndings(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			out = append(out, '\r')
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
			out = append(out, '\r')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Bitmap is the decoded BITD chunk: opaque pixel buffer plus the geometry
// the cast package needs to interpret it.
type Bitmap struct {
	Width, Height int32
	BitDepth      int32
	Pixels        []byte // raw, possibly RLE-compressed per bitDepth
}

// DecodeBitmap reads a BITD chunk given the width/height/depth already
// known from the owning member's specific-info (the pixel chunk itself
// carries no header).
func DecodeBitmap(raw Raw, width, height, bitDepth int32) *Bitmap {
	return &Bitmap{Width: width, Height: height, BitDepth: bitDepth, Pixels: raw.Data}
}

// Palette is the decoded CLUT chunk: up to 256 RGB entries.
type Palette struct {
	Colors [][3]byte
}

// DecodePalette reads a CLUT chunk: triples of uint16 R,G,B (high byte
// used), terminated by the chunk length.
func DecodePalette(raw Raw) *Palette {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	p := &Palette{}
	for r.remaining() >= 6 {
		rr := byte(r.u16() >> 8)
		gg := byte(r.u16() >> 8)
		bb := byte(r.u16() >> 8)
		p.Colors = append(p.Colors, [3]byte{rr, gg, bb})
	}
	return p
}

// Sound is the decoded `snd ` chunk: opaque audio payload.
type Sound struct {
	SampleRate int32
	Channels   int32
	Data       []byte
}

// DecodeSound reads a `snd ` chunk: sampleRate(4), channels(4), remainder
// is raw sample data.
func DecodeSound(raw Raw) *Sound {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	s := &Sound{}
	s.SampleRate = r.i32()
	s.Channels = r.i32()
	s.Data = r.bytes(r.remaining())
	return s
}

// Media is the decoded `ediM` chunk: an embedded foreign-format media blob
// (e.g. imported video/audio), handed through untouched.
type Media struct {
	Format string
	Data   []byte
}

// DecodeMedia reads an ediM chunk: 4-byte format tag, remainder is data.
func DecodeMedia(raw Raw) *Media {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	format := string(r.bytes(4))
	return &Media{Format: format, Data: r.bytes(r.remaining())}
}

// StageConfig is the decoded DRCF chunk: movie-wide stage settings.
type StageConfig struct {
	StageWidth, StageHeight int32
	FrameRate               int32
	DefaultPalette          int32
	FrameCount              int32
}

// DecodeStageConfig reads a DRCF chunk.
func DecodeStageConfig(raw Raw) *StageConfig {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	return &StageConfig{
		StageWidth:     r.i32(),
		StageHeight:    r.i32(),
		FrameRate:      r.i32(),
		DefaultPalette: r.i32(),
		FrameCount:     r.i32(),
	}
}
