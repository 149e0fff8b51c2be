package chunk

// MemberKind is the cast member's media type tag, read from the CASt
// chunk header.
type MemberKind int32

const (
	MemberEmpty MemberKind = iota
	MemberBitmap
	MemberFilmLoop
	MemberText
	MemberPalette
	MemberPicture
	MemberSound
	MemberButton
	MemberShape
	MemberMovie
	MemberScript
	MemberRTE
)

// Member is the decoded CASt chunk for one cast member: fixed header plus
// a specific-info blob the cast package interprets lazily per kind.
type Member struct {
	Kind         MemberKind
	Name         string
	ScriptText   string
	RegPoint     [2]int32
	SpecificInfo []byte
}

// DecodeMember reads a CASt chunk. Layout: kind(4), specificInfoLen(4),
// nameLen(1)+name, then the specific-info blob.
func DecodeMember(raw Raw) *Member {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	m := &Member{}
	m.Kind = MemberKind(r.i32())
	infoLen := int(r.u32())
	nameLen := int(r.u8())
	m.Name = string(r.bytes(nameLen))
	m.SpecificInfo = r.bytes(infoLen)
	return m
}

// ScoreOffset reads the registration point out of SpecificInfo for bitmap-
// family members, where the first two fields are regY, regX (big-endian
// int16). Returns (0,0) if SpecificInfo is too short.
func (m *Member) ScoreOffset() (x, y int32) {
	if len(m.SpecificInfo) < 4 {
		return 0, 0
	}
	r := newReader(m.SpecificInfo, ByteOrder(NewFourCC("CASt")))
	regY := r.i16()
	regX := r.i16()
	return int32(regX), int32(regY)
}

// ScriptKind reads the script-subtype field stored in a script member's
// SpecificInfo (big-endian int16 at offset 0: 1=score, 2=movie, 3=parent,
// anything else or too-short degrades to ScriptKindMovie). This, not the
// Lscr chunk's own Kind field, is authoritative.
func (m *Member) ScriptKind() ScriptKind {
	if m.Kind != MemberScript || len(m.SpecificInfo) < 2 {
		return ScriptKindMovie
	}
	r := newReader(m.SpecificInfo, ByteOrder(NewFourCC("CASt")))
	switch r.i16() {
	case 1:
		return ScriptKindScore
	case 3:
		return ScriptKindParent
	case 4:
		return ScriptKindBehavior
	default:
		return ScriptKindMovie
	}
}
