package chunk

// CastListEntry is one row of the MCsL chunk: a cast library's display
// metadata and the chunk id of its CAS* entry.
type CastListEntry struct {
	Name      string
	FilePath  string
	PreloadID int32
	MinMember int32
	CasID     int32
}

// CastList is the decoded MCsL chunk.
type CastList struct {
	Entries []CastListEntry
}

// DecodeCastList reads an MCsL chunk: a count, followed by length-prefixed
// (name, filePath) string pairs, followed by a parallel array of numeric
// records (preloadId, minMember, casId).
func DecodeCastList(raw Raw) *CastList {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	count := int(r.u32())
	cl := &CastList{}
	names := make([]string, 0, count)
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, readPString(r))
		paths = append(paths, readPString(r))
	}
	for i := 0; i < count; i++ {
		e := CastListEntry{
			PreloadID: r.i32(),
			MinMember: r.i32(),
			CasID:     r.i32(),
		}
		if i < len(names) {
			e.Name = names[i]
		}
		if i < len(paths) {
			e.FilePath = paths[i]
		}
		cl.Entries = append(cl.Entries, e)
	}
	return cl
}

// readPString reads a 2-byte-length-prefixed string, clamped to remaining
// bytes on malformed input.
func readPString(r *reader) string {
	n := int(r.u16())
	return string(r.bytes(n))
}

// CastEntry is the decoded CAS* chunk: the ordered list of member chunk ids
// belonging to one cast library.
type CastEntry struct {
	MemberChunkIDs []int32
}

// DecodeCastEntry reads a CAS* chunk: a flat array of int32 chunk ids, 0
// meaning "no member at this slot".
func DecodeCastEntry(raw Raw) *CastEntry {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	n := len(raw.Data) / 4
	ids := make([]int32, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, r.i32())
	}
	return &CastEntry{MemberChunkIDs: ids}
}
