package datum

import "strings"

type propEntry struct {
	key Value
	val Value
}

// propListCell is the shared backing store for a PropList datum, ref-shared
// for the same reason listCell is.
type propListCell struct {
	entries []propEntry
}

// PropList is a mutable, reference-shared, ordered key→value mapping
// ("property list" in the source platform's terms).
type PropList struct {
	cell *propListCell
}

// NewPropList builds a PropList from ordered key/value pairs.
func NewPropList(pairs ...[2]Value) PropList {
	entries := make([]propEntry, len(pairs))
	for i, p := range pairs {
		entries[i] = propEntry{key: p[0], val: p[1]}
	}
	return PropList{cell: &propListCell{entries: entries}}
}

func (p PropList) Kind() Kind { return KindPropList }
func (p PropList) Truthy() bool { return p.cell != nil && len(p.cell.entries) > 0 }

func (p PropList) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range p.cell.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.key.String())
		b.WriteString(": ")
		b.WriteString(e.val.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (p PropList) Equal(o Value) bool {
	ov, ok := o.(PropList)
	if !ok || len(p.cell.entries) != len(ov.cell.entries) {
		return false
	}
	for i, e := range p.cell.entries {
		oe := ov.cell.entries[i]
		if !e.key.Equal(oe.key) || !e.val.Equal(oe.val) {
			return false
		}
	}
	return true
}

// SameCell reports whether two PropList datums alias the same backing cell.
func (p PropList) SameCell(o PropList) bool { return p.cell == o.cell }

// Count returns the number of entries.
func (p PropList) Count() int { return len(p.cell.entries) }

func (p PropList) findIndex(key Value) int {
	for i, e := range p.cell.entries {
		if e.key.Equal(key) {
			return i
		}
	}
	return -1
}

// GetProp looks up value by key.
func (p PropList) GetProp(key Value) (Value, bool) {
	if i := p.findIndex(key); i >= 0 {
		return p.cell.entries[i].val, true
	}
	return Void{}, false
}

// SetProp overwrites an existing key's value in place, or appends if absent.
func (p PropList) SetProp(key, val Value) {
	if i := p.findIndex(key); i >= 0 {
		p.cell.entries[i].val = val
		return
	}
	p.cell.entries = append(p.cell.entries, propEntry{key: key, val: val})
}

// AddProp inserts a new key/value pair before the given 1-based position
// (0 or Count()+1 appends).
func (p PropList) AddProp(pos int, key, val Value) {
	entries := p.cell.entries
	if pos <= 0 || pos > len(entries)+1 {
		pos = len(entries) + 1
	}
	entries = append(entries, propEntry{})
	copy(entries[pos:], entries[pos-1:])
	entries[pos-1] = propEntry{key: key, val: val}
	p.cell.entries = entries
}

// DeleteProp removes the entry for key, reporting whether it existed.
func (p PropList) DeleteProp(key Value) bool {
	i := p.findIndex(key)
	if i < 0 {
		return false
	}
	p.cell.entries = append(p.cell.entries[:i], p.cell.entries[i+1:]...)
	return true
}

// GetAt returns the 1-based entry as a 2-element list [key, value].
func (p PropList) GetAt(n int) (Value, Value, bool) {
	if n < 1 || n > len(p.cell.entries) {
		return Void{}, Void{}, false
	}
	e := p.cell.entries[n-1]
	return e.key, e.val, true
}

// Clone makes a new prop list with copied entries but a fresh cell.
func (p PropList) Clone() PropList {
	entries := make([]propEntry, len(p.cell.entries))
	copy(entries, p.cell.entries)
	return PropList{cell: &propListCell{entries: entries}}
}
