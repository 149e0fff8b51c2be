package datum

// ArgList is the datum produced by push_arg_list: an ordered argument
// vector awaiting dispatch, distinct from List so the VM can tell a
// plain list from a call's argument vector.
type ArgList struct {
	cell *listCell
}

func NewArgList(items ...Value) ArgList {
	cp := make([]Value, len(items))
	copy(cp, items)
	return ArgList{cell: &listCell{items: cp}}
}

func (a ArgList) Kind() Kind { return KindArgList }
func (a ArgList) Truthy() bool { return len(a.cell.items) > 0 }
func (a ArgList) String() string { return List(a).String() }
func (a ArgList) Equal(o Value) bool {
	ov, ok := o.(ArgList)
	return ok && List(a).Equal(List(ov))
}
func (a ArgList) Items() []Value { return a.cell.items }
func (a ArgList) Count() int { return len(a.cell.items) }
func (a ArgList) At(n int) Value { return List(a).GetAt(n) }

// ArgListNoRet marks an arg-list built for a call whose return value is
// discarded.
type ArgListNoRet struct {
	cell *listCell
}

func NewArgListNoRet(items ...Value) ArgListNoRet {
	cp := make([]Value, len(items))
	copy(cp, items)
	return ArgListNoRet{cell: &listCell{items: cp}}
}

func (a ArgListNoRet) Kind() Kind { return KindArgListNoRet }
func (a ArgListNoRet) Truthy() bool { return len(a.cell.items) > 0 }
func (a ArgListNoRet) String() string { return List(a).String() }
func (a ArgListNoRet) Equal(o Value) bool {
	ov, ok := o.(ArgListNoRet)
	return ok && List(a).Equal(List(ov))
}
func (a ArgListNoRet) Items() []Value { return a.cell.items }
func (a ArgListNoRet) Count() int { return len(a.cell.items) }
