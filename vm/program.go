package vm

import (
	"shockcore/chunk"
)

// instrStream is a handler's decoded bytecode plus its offset->index map:
// branch targets are byte offsets (offset ± argument) and must be
// translated to instruction-slice indices before dispatch can jump to
// them.
type instrStream struct {
	scriptID int32
	handler  *chunk.Handler
	script   *chunk.Script
	names    *chunk.NameTable

	code        []chunk.Instruction
	offsetIndex map[int]int

	argNames   []string
	localNames []string
}

// newInstrStream decodes a handler's offset->index map once, at handler
// resolution time, so branch dispatch inside the hot loop never scans.
func newInstrStream(scriptID int32, script *chunk.Script, h *chunk.Handler, names *chunk.NameTable) *instrStream {
	is := &instrStream{
		scriptID:    scriptID,
		handler:     h,
		script:      script,
		names:       names,
		code:        h.Code,
		offsetIndex: make(map[int]int, len(h.Code)),
	}
	for i, instr := range h.Code {
		is.offsetIndex[instr.Offset] = i
	}
	if names != nil {
		for _, id := range h.ArgNameIDs {
			is.argNames = append(is.argNames, names.Resolve(id))
		}
		for _, id := range h.LocalNameIDs {
			is.localNames = append(is.localNames, names.Resolve(id))
		}
	}
	return is
}

// indexForOffset translates a byte offset to an instruction index; a miss
// (a branch into the middle of a multi-byte instruction, or past the end)
// clamps to len(code) so the interpreter falls off the end cleanly rather
// than panicking.
func (is *instrStream) indexForOffset(offset int) int {
	if idx, ok := is.offsetIndex[offset]; ok {
		return idx
	}
	return len(is.code)
}

// LocalNames returns the resolved local-variable names in index order, for
// the debugger's named-locals view.
func (is *instrStream) LocalNames() []string { return is.localNames }

// ArgNames returns the resolved parameter names in index order.
func (is *instrStream) ArgNames() []string { return is.argNames }

func (is *instrStream) literal(n int32) chunk.Literal {
	if n < 0 || int(n) >= len(is.script.Literals) {
		return chunk.Literal{}
	}
	return is.script.Literals[n]
}
