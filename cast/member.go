package cast

import (
	"strings"
	"sync"

	"shockcore/chunk"
	"shockcore/datum"
)

// Member is a decoded cast member.
type Member struct {
	mu sync.Mutex

	castLib  *CastLib
	number   int32
	kindCode chunk.MemberKind
	name     string
	regPoint datum.Point

	raw *chunk.Member

	decoded bool
	bitmap  *Bitmap
	text    *TextMember
	dynamic bool
}

func newMember(cl *CastLib, n int32, mc *chunk.Member) *Member {
	regX, regY := mc.ScoreOffset()
	return &Member{
		castLib:  cl,
		number:   n,
		kindCode: mc.Kind,
		name:     mc.Name,
		regPoint: datum.Point{X: regX, Y: regY},
		raw:      mc,
	}
}

// NewDynamic constructs a member without a backing chunk; it is immediately loaded.
func NewDynamic(cl *CastLib, n int32, kind chunk.MemberKind, name string) *Member {
	return &Member{
		castLib:  cl,
		number:   n,
		kindCode: kind,
		name:     name,
		decoded:  true,
		dynamic:  true,
	}
}

// Number returns the 1-based member number within its library.
func (m *Member) Number() int32 { return m.number }

// Name returns the member's display name.
func (m *Member) Name() string { return m.name }

// CastLibNumber returns the owning library's number.
func (m *Member) CastLibNumber() int32 {
	if m.castLib == nil {
		return 0
	}
	return m.castLib.Number()
}

// TypeName returns the member's scripting-visible kind name.
func (m *Member) TypeName() string {
	switch m.kindCode {
	case chunk.MemberBitmap, chunk.MemberPicture:
		return "bitmap"
	case chunk.MemberText:
		return "text"
	case chunk.MemberScript:
		return "script"
	case chunk.MemberSound:
		return "sound"
	case chunk.MemberButton:
		return "button"
	case chunk.MemberShape:
		return "shape"
	case chunk.MemberFilmLoop:
		return "filmLoop"
	case chunk.MemberPalette:
		return "palette"
	case chunk.MemberMovie, chunk.MemberRTE:
		return "movie"
	default:
		return "empty"
	}
}

// ensureDecoded lazily decodes the member's media payload on first access.
func (m *Member) ensureDecoded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decoded || m.raw == nil {
		return
	}
	switch m.kindCode {
	case chunk.MemberBitmap, chunk.MemberPicture:
		m.bitmap = decodeBitmapFromRaw(m.raw)
	case chunk.MemberText:
		m.text = newTextMember(decodeTextContent(m.raw))
	}
	m.decoded = true
}

// Bitmap returns the decoded bitmap payload, decoding lazily.
func (m *Member) Bitmap() (*Bitmap, bool) {
	m.ensureDecoded()
	if m.bitmap == nil {
		return nil, false
	}
	return m.bitmap, true
}

// Text returns the decoded text payload, decoding lazily.
func (m *Member) Text() (*TextMember, bool) {
	m.ensureDecoded()
	if m.text == nil {
		return nil, false
	}
	return m.text, true
}

// GetProp reads a member property, returning invalid-member defaults for
// properties that don't apply to this member's kind.
func (m *Member) GetProp(prop string) datum.Value {
	switch strings.ToLower(prop) {
	case "number":
		return datum.NewInt(m.number)
	case "name":
		return datum.NewStr(m.name)
	case "type":
		return datum.NewSymbol(m.TypeName())
	case "regpoint":
		return m.regPoint
	case "castlibnum":
		return datum.NewInt(m.CastLibNumber())
	case "mediaready":
		return datum.NewInt(1)
	}
	if t, ok := m.Text(); ok {
		if v, ok := t.GetProp(prop); ok {
			return v
		}
	}
	return datum.Void{}
}

// SetProp writes a writable member property, reporting success.
func (m *Member) SetProp(prop string, v datum.Value) bool {
	switch strings.ToLower(prop) {
	case "name":
		m.name = datum.ToString(v)
		return true
	case "regpoint":
		if p, ok := v.(datum.Point); ok {
			m.regPoint = p
			return true
		}
		return false
	}
	if t, ok := m.Text(); ok {
		return t.SetProp(prop, v)
	}
	return false
}

// InvalidMemberProp returns the documented defaults for a member reference
// that doesn't resolve to a real member.
func InvalidMemberProp(prop string) datum.Value {
	switch strings.ToLower(prop) {
	case "name":
		return datum.NewStr("")
	case "number":
		return datum.NewInt(-1)
	case "type":
		return datum.NewSymbol("empty")
	default:
		return datum.Void{}
	}
}
