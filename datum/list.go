package datum

import "strings"

// listCell is the shared backing store for a List datum. Every List value
// that points at the same cell observes the same mutations: lists alias,
// they are never copied on write.
type listCell struct {
	items []Value
}

// List is a mutable, reference-shared, 1-based ordered sequence of Datums.
type List struct {
	cell *listCell
}

// NewList builds a List around a fresh backing cell.
func NewList(items ...Value) List {
	cp := make([]Value, len(items))
	copy(cp, items)
	return List{cell: &listCell{items: cp}}
}

func (l List) Kind() Kind { return KindList }
func (l List) Truthy() bool { return l.cell != nil && len(l.cell.items) > 0 }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Equal compares by identity-of-contents, not cell identity: two distinct
// lists with equal elements are Equal. Aliasing only matters for mutation.
func (l List) Equal(o Value) bool {
	ov, ok := o.(List)
	if !ok {
		return false
	}
	a, b := l.Items(), ov.Items()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// SameCell reports whether two List datums alias the same backing cell.
func (l List) SameCell(o List) bool { return l.cell == o.cell }

// Count returns the number of items.
func (l List) Count() int { return len(l.cell.items) }

// Items returns the live backing slice. Callers must not retain it past a
// mutating call (Append/SetAt may reallocate).
func (l List) Items() []Value { return l.cell.items }

// GetAt returns the 1-based element n, or Void if out of range.
func (l List) GetAt(n int) Value {
	if n < 1 || n > len(l.cell.items) {
		return Void{}
	}
	return l.cell.items[n-1]
}

// SetAt mutates element n (1-based) in place, visible through every alias.
func (l List) SetAt(n int, v Value) bool {
	if n < 1 || n > len(l.cell.items) {
		return false
	}
	l.cell.items[n-1] = v
	return true
}

// Append adds v to the end, visible through every alias.
func (l List) Append(v Value) {
	l.cell.items = append(l.cell.items, v)
}

// AddAt inserts v before position n (1-based; n == Count()+1 appends).
func (l List) AddAt(n int, v Value) bool {
	items := l.cell.items
	if n < 1 || n > len(items)+1 {
		return false
	}
	items = append(items, Void{})
	copy(items[n:], items[n-1:])
	items[n-1] = v
	l.cell.items = items
	return true
}

// DeleteAt removes the 1-based element n.
func (l List) DeleteAt(n int) bool {
	items := l.cell.items
	if n < 1 || n > len(items) {
		return false
	}
	l.cell.items = append(items[:n-1], items[n:]...)
	return true
}

// DeleteOne removes the first element equal to v, reporting whether found.
func (l List) DeleteOne(v Value) bool {
	for i, item := range l.cell.items {
		if item.Equal(v) {
			return l.DeleteAt(i + 1)
		}
	}
	return false
}

// FindPos returns the 1-based position of the first element equal to v, or 0.
func (l List) FindPos(v Value) int {
	for i, item := range l.cell.items {
		if item.Equal(v) {
			return i + 1
		}
	}
	return 0
}

// GetLast returns the last element, or Void if the list is empty.
func (l List) GetLast() Value {
	if len(l.cell.items) == 0 {
		return Void{}
	}
	return l.cell.items[len(l.cell.items)-1]
}

// Sort orders the list in place using less as the comparator.
func (l List) Sort(less func(a, b Value) bool) {
	items := l.cell.items
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// Clone makes a new list with copied elements but a fresh, unaliased cell —
// used by script-level `duplicate()`-style builtins that want a snapshot.
func (l List) Clone() List {
	items := make([]Value, len(l.cell.items))
	copy(items, l.cell.items)
	return List{cell: &listCell{items: items}}
}
