package chunk

// Movie is the fully decoded set of chunks for one movie file, as handed
// to the cast/resolver/VM layers. Building one is the only place this
// package allocates maps keyed by chunk id; lookups afterward never
// allocate.
type Movie struct {
	Stage     *StageConfig
	CastList  *CastList
	Keys      *KeyTable
	CastEntry map[int32]*CastEntry
	Members   map[int32]*Member
	Scripts   map[int32]*Script
	Names     map[int32]*NameTable
	Contexts  map[int32]*ScriptContext
	Score     *Score
	Labels    *FrameLabels
	Bitmaps   map[int32]*Bitmap
	Texts     map[int32]*Text
	Palettes  map[int32]*Palette
	Sounds    map[int32]*Sound
	Media     map[int32]*Media
}

// Decode builds a Movie from the flat chunk list an external binary parser
// would hand over. Chunk kinds this core doesn't consume are ignored.
func Decode(raws []Raw) *Movie {
	m := &Movie{
		CastEntry: map[int32]*CastEntry{},
		Members:   map[int32]*Member{},
		Scripts:   map[int32]*Script{},
		Names:     map[int32]*NameTable{},
		Contexts:  map[int32]*ScriptContext{},
		Bitmaps:   map[int32]*Bitmap{},
		Texts:     map[int32]*Text{},
		Palettes:  map[int32]*Palette{},
		Sounds:    map[int32]*Sound{},
		Media:     map[int32]*Media{},
	}

	for _, raw := range raws {
		switch raw.Type.String() {
		case "DRCF":
			m.Stage = DecodeStageConfig(raw)
		case "MCsL":
			m.CastList = DecodeCastList(raw)
		case "KEY*":
			m.Keys = DecodeKeyTable(raw)
		case "CAS*":
			m.CastEntry[raw.ID] = DecodeCastEntry(raw)
		case "CASt":
			m.Members[raw.ID] = DecodeMember(raw)
		case "Lscr":
			m.Scripts[raw.ID] = DecodeScript(raw)
		case "Lnam":
			m.Names[raw.ID] = DecodeNameTable(raw)
		case "Lctx", "LctX":
			m.Contexts[raw.ID] = DecodeScriptContext(raw)
		case "VWSC":
			m.Score = DecodeScore(raw)
		case "VWLB":
			m.Labels = DecodeFrameLabels(raw)
		case "STXT":
			m.Texts[raw.ID] = DecodeText(raw)
		case "CLUT":
			m.Palettes[raw.ID] = DecodePalette(raw)
		case "snd ":
			m.Sounds[raw.ID] = DecodeSound(raw)
		case "ediM":
			m.Media[raw.ID] = DecodeMedia(raw)
		case "BITD":
			m.Bitmaps[raw.ID] = DecodeBitmap(raw, 0, 0, 0) // geometry filled by owning Member
		}
	}
	return m
}

// PrimaryNames returns the movie's shared script-context names table.
// Real movies carry
// exactly one Lnam per context; when more than one is present the first
// encountered by chunk id order wins.
func (m *Movie) PrimaryNames() *NameTable {
	var best int32
	var found *NameTable
	first := true
	for id, nt := range m.Names {
		if first || id < best {
			best, found, first = id, nt, false
		}
	}
	return found
}

// MemberOwningScript returns the cast member chunk that owns scriptChunkID
// via the key table, or nil if none is recorded.
func (m *Movie) MemberOwningScript(scriptChunkID int32) *Member {
	if m.Keys == nil {
		return nil
	}
	ownerID, ok := m.Keys.OwnerOf(scriptChunkID)
	if !ok {
		return nil
	}
	return m.Members[ownerID]
}

// FrameCount returns the score's frame count, falling back to the stage
// config's declared count when the score chunk is absent.
func (m *Movie) FrameCount() int {
	if m.Score != nil {
		return len(m.Score.Rows)
	}
	if m.Stage != nil {
		return int(m.Stage.FrameCount)
	}
	return 0
}
