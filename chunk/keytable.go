package chunk

// KeyTable is the decoded KEY* chunk: it maps an owning chunk to the
// chunk(s) it contains (e.g. a cast member owns its bitmap/script chunk).
// Two lookup directions are exposed: owner -> [entries] and
// sectionId -> owner.
type KeyTable struct {
	Entries      []KeyEntry
	byOwner      map[int32][]KeyEntry
	ownerOf      map[int32]int32
}

// KeyEntry is one row of the key table: sectionId is the chunk holding the
// data, ownerId is the chunk (usually a CASt) that owns it, and kind is
// that chunk's FourCC.
type KeyEntry struct {
	SectionID int32
	OwnerID   int32
	Kind      FourCC
}

// DecodeKeyTable reads a KEY* chunk. Malformed/truncated records are
// skipped.
func DecodeKeyTable(raw Raw) *KeyTable {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	kt := &KeyTable{byOwner: map[int32][]KeyEntry{}, ownerOf: map[int32]int32{}}

	// Header: entrySize(2), entrySize2(2), numEntries(4), maxEntries(4)
	entrySize := int(r.u16())
	_ = r.u16()
	numEntries := int(r.u32())
	_ = r.u32()
	if entrySize < 12 {
		entrySize = 12
	}

	for i := 0; i < numEntries; i++ {
		if r.remaining() < entrySize {
			break
		}
		start := r.pos
		section := r.i32()
		owner := r.i32()
		kindRaw := r.bytes(4)
		r.pos = start + entrySize

		var kind FourCC
		copy(kind[:], kindRaw)
		e := KeyEntry{SectionID: section, OwnerID: owner, Kind: kind}
		kt.Entries = append(kt.Entries, e)
		kt.byOwner[owner] = append(kt.byOwner[owner], e)
		kt.ownerOf[section] = owner
	}
	return kt
}

// EntriesForOwner returns every chunk owned by ownerID, in file order.
func (kt *KeyTable) EntriesForOwner(ownerID int32) []KeyEntry {
	return kt.byOwner[ownerID]
}

// OwnerOf returns the owning chunk id for sectionID, or (0, false).
func (kt *KeyTable) OwnerOf(sectionID int32) (int32, bool) {
	o, ok := kt.ownerOf[sectionID]
	return o, ok
}

// FindOwnedByKind returns the first chunk of kind owned by ownerID, if any.
func (kt *KeyTable) FindOwnedByKind(ownerID int32, kind FourCC) (int32, bool) {
	for _, e := range kt.byOwner[ownerID] {
		if e.Kind == kind {
			return e.SectionID, true
		}
	}
	return 0, false
}
