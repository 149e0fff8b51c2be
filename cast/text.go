package cast

import (
	"strings"

	"shockcore/chunk"
	"shockcore/datum"
)

// TextRenderer renders a TextMember's content to a bitmap and reports its
// rendered geometry. Real text rendering belongs to the host's text
// engine; DefaultTextRenderer below is the minimal stdlib-backed default.
type TextRenderer interface {
	Render(t *TextMember) (*Bitmap, error)
	MeasureLine(t *TextMember, line string) (width, height int32)
}

// TextMember holds a text cast member's content plus its dirty-flag-guarded
// rendering properties.
type TextMember struct {
	content string

	font        string
	size        int32
	styleBold   bool
	styleItalic bool
	alignment   string
	colorFG     datum.Color
	colorBG     datum.Color
	wrap        bool
	antialias   bool
	rect        datum.Rect
	lineSpacing int32

	dirty     bool
	cachedImg *Bitmap
	renderer  TextRenderer
}

func newTextMember(content string) *TextMember {
	return &TextMember{
		content:     content,
		font:        DefaultFontName,
		size:        12,
		alignment:   "left",
		colorFG:     datum.Color{R: 0, G: 0, B: 0},
		colorBG:     datum.Color{R: 255, G: 255, B: 255},
		wrap:        true,
		antialias:   true,
		lineSpacing: 2,
		dirty:       true,
		renderer:    DefaultTextRenderer{},
	}
}

func decodeTextContent(mc *chunk.Member) string {
	// The text chunk itself is keyed separately (STXT) in the real format;
	// when a member carries its script text inline (as some platform
	// versions do), fall back to decoding it as MacRoman bytes normalized
	// to \r line endings.
	return chunk.NormalizeLineEndings(DecodeMacRoman(mc.ScriptText))
}

// SetRenderer overrides the text-rendering backend.
func (t *TextMember) SetRenderer(r TextRenderer) { t.renderer = r; t.dirty = true }

// Content returns the normalized text content.
func (t *TextMember) Content() string { return t.content }

func (t *TextMember) markDirty() { t.dirty = true; t.cachedImg = nil }

// GetProp reads a text-rendering property.
func (t *TextMember) GetProp(prop string) (datum.Value, bool) {
	switch strings.ToLower(prop) {
	case "text":
		return datum.NewStr(t.content), true
	case "font":
		return datum.NewStr(t.font), true
	case "fontsize":
		return datum.NewInt(t.size), true
	case "fontstyle":
		return datum.NewStr(t.styleString()), true
	case "alignment":
		return datum.NewStr(t.alignment), true
	case "color":
		return t.colorFG, true
	case "bgcolor":
		return t.colorBG, true
	case "wordwrap":
		return boolDatum(t.wrap), true
	case "antialias":
		return boolDatum(t.antialias), true
	case "rect":
		return t.rect, true
	case "linespacing":
		return datum.NewInt(t.lineSpacing), true
	case "image":
		img, _ := t.Image()
		if img == nil {
			return datum.Void{}, true
		}
		return datum.ImageRef{}, true
	case "height":
		return datum.NewInt(t.Height()), true
	}
	return datum.Void{}, false
}

func boolDatum(b bool) datum.Value {
	if b {
		return datum.NewInt(1)
	}
	return datum.NewInt(0)
}

func (t *TextMember) styleString() string {
	var parts []string
	if t.styleBold {
		parts = append(parts, "bold")
	}
	if t.styleItalic {
		parts = append(parts, "italic")
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, ",")
}

// SetProp writes a text-rendering property, marking the cached image dirty.
func (t *TextMember) SetProp(prop string, v datum.Value) bool {
	switch strings.ToLower(prop) {
	case "text":
		t.content = chunk.NormalizeLineEndings(datum.ToString(v))
	case "font":
		t.font = datum.ToString(v)
	case "fontsize":
		t.size = datum.ToInt(v)
	case "alignment":
		t.alignment = datum.ToString(v)
	case "color":
		if c, ok := v.(datum.Color); ok {
			t.colorFG = c
		}
	case "bgcolor":
		if c, ok := v.(datum.Color); ok {
			t.colorBG = c
		}
	case "wordwrap":
		t.wrap = datum.IsTruthy(v)
	case "antialias":
		t.antialias = datum.IsTruthy(v)
	case "rect":
		if r, ok := v.(datum.Rect); ok {
			t.rect = r
		}
	case "linespacing":
		t.lineSpacing = datum.ToInt(v)
	default:
		return false
	}
	t.markDirty()
	return true
}

// Image renders the text to a bitmap the first time and on any setter.
func (t *TextMember) Image() (*Bitmap, error) {
	if !t.dirty && t.cachedImg != nil {
		return t.cachedImg, nil
	}
	img, err := t.renderer.Render(t)
	if err != nil {
		return nil, err
	}
	t.cachedImg = img
	t.dirty = false
	return img, nil
}

// Height returns the rendered height when available, else the rect height.
func (t *TextMember) Height() int32 {
	if img, err := t.Image(); err == nil && img != nil {
		return img.Height
	}
	return t.rect.Height()
}

// CharPosToLoc measures text geometry line-by-line to locate character i.
func (t *TextMember) CharPosToLoc(i int) datum.Point {
	lines := strings.Split(t.content, "\r")
	remaining := i
	y := int32(0)
	for _, line := range lines {
		if remaining <= len(line) {
			w, _ := t.renderer.MeasureLine(t, line[:remaining])
			return datum.Point{X: w, Y: y}
		}
		remaining -= len(line) + 1
		_, h := t.renderer.MeasureLine(t, line)
		y += h + t.lineSpacing
	}
	return datum.Point{X: 0, Y: y}
}

// DefaultFontName is the cross-platform fallback used when a script
// requests an unresolvable font.
const DefaultFontName = "Geneva"

// DefaultTextRenderer is a minimal stdlib-backed TextRenderer: it measures
// using a fixed-width heuristic and produces a solid-fill placeholder
// bitmap sized to the measured text. Real glyph rasterization is a host
// concern.
type DefaultTextRenderer struct{}

func (DefaultTextRenderer) Render(t *TextMember) (*Bitmap, error) {
	lines := strings.Split(t.content, "\r")
	var maxW int32
	h := int32(0)
	for _, line := range lines {
		w, lh := DefaultTextRenderer{}.MeasureLine(t, line)
		if w > maxW {
			maxW = w
		}
		h += lh + t.lineSpacing
	}
	if maxW == 0 {
		maxW = 1
	}
	if h == 0 {
		h = 1
	}
	pixels := make([]uint32, int(maxW)*int(h))
	bg := uint32(0xFF000000) | uint32(t.colorBG.R)<<16 | uint32(t.colorBG.G)<<8 | uint32(t.colorBG.B)
	for i := range pixels {
		pixels[i] = bg
	}
	return &Bitmap{Width: maxW, Height: h, BitDepth: 32, Pixels: pixels}, nil
}

func (DefaultTextRenderer) MeasureLine(t *TextMember, line string) (width, height int32) {
	charWidth := t.size * 6 / 10
	if charWidth < 1 {
		charWidth = 1
	}
	return int32(len(line)) * charWidth, t.size + 2
}
