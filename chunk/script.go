package chunk

import (
	"math"
	"strconv"
)

// ScriptKind is the script's declared kind. This field is NOT
// authoritative — the owning cast member's kind must be consulted
// instead; this value is retained only for diagnostics.
type ScriptKind int16

const (
	ScriptKindScore ScriptKind = iota
	ScriptKindMovie
	ScriptKindParent
	ScriptKindBehavior
)

// LiteralKind tags an entry in a script's literal pool.
type LiteralKind int32

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralRaw
)

// Literal is one decoded literal-pool entry.
type Literal struct {
	Kind  LiteralKind
	Str   string
	Int   int32
	Float float64
	Raw   []byte
}

// Instruction is one decoded bytecode instruction: the
// opcode, the raw byte the opcode was derived from (multi-byte mnemonics
// of the same opcode normalize to the same Op but keep distinct RawOpcode
// for diagnostics), its byte Offset, and its decoded Argument.
type Instruction struct {
	Offset    int
	Op        byte
	RawOpcode byte
	Argument  int32
}

// Handler is one compiled handler record within a script chunk.
type Handler struct {
	NameID       int32
	ArgNameIDs   []int32
	LocalNameIDs []int32
	Code         []Instruction
}

// Script is the decoded Lscr chunk.
type Script struct {
	ID            int32
	Kind          ScriptKind
	Handlers      []Handler
	Literals      []Literal
	PropNameIDs   []int32
	GlobalNameIDs []int32
}

// argSize returns how many argument bytes follow an opcode byte, per the
// opcode-band encoding rule.
func argSize(op byte) int {
	switch {
	case op < 0x40:
		return 0
	case op < 0x80:
		return 1
	case op < 0xC0:
		return 2
	default:
		return 4
	}
}

// normalizeOp maps a multi-byte opcode variant to its canonical mnemonic
// byte, 0x40 + (op % 0x40).
func normalizeOp(op byte) byte {
	if op < 0x40 {
		return op
	}
	return 0x40 + (op % 0x40)
}

// decodeInstructions walks a handler's raw bytecode stream into decoded
// Instructions with byte offsets preserved, so branch targets (encoded as
// offset ± argument) can later be resolved to instruction indices.
func decodeInstructions(code []byte) []Instruction {
	var out []Instruction
	i := 0
	for i < len(code) {
		offset := i
		op := code[i]
		i++
		n := argSize(op)
		var arg int32
		if n > 0 && i+n <= len(code) {
			switch n {
			case 1:
				arg = int32(int8(code[i]))
			case 2:
				arg = int32(int16(uint16(code[i])<<8 | uint16(code[i+1])))
			case 4:
				arg = int32(uint32(code[i])<<24 | uint32(code[i+1])<<16 | uint32(code[i+2])<<8 | uint32(code[i+3]))
			}
		} else if n > 0 {
			i = len(code)
		}
		i += n
		out = append(out, Instruction{
			Offset:    offset,
			Op:        normalizeOp(op),
			RawOpcode: op,
			Argument:  arg,
		})
	}
	return out
}

// DecodeScript reads an Lscr chunk. The literal pool and per-handler
// bytecode blobs are both length-prefixed; malformed/truncated regions
// degrade to a shorter-than-declared Handlers/Literals slice rather than
// erroring.
func DecodeScript(raw Raw) *Script {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	s := &Script{ID: raw.ID}

	numHandlers := int(r.u16())
	for h := 0; h < numHandlers; h++ {
		nameID := r.i32()
		numArgs := int(r.u16())
		argIDs := make([]int32, numArgs)
		for i := range argIDs {
			argIDs[i] = r.i32()
		}
		numLocals := int(r.u16())
		localIDs := make([]int32, numLocals)
		for i := range localIDs {
			localIDs[i] = r.i32()
		}
		codeLen := int(r.u32())
		code := r.bytes(codeLen)
		s.Handlers = append(s.Handlers, Handler{
			NameID:       nameID,
			ArgNameIDs:   argIDs,
			LocalNameIDs: localIDs,
			Code:         decodeInstructions(code),
		})
	}

	numLiterals := int(r.u16())
	for l := 0; l < numLiterals; l++ {
		kind := LiteralKind(r.i32())
		lit := Literal{Kind: kind}
		switch kind {
		case LiteralString:
			n := int(r.u32())
			lit.Str = string(r.bytes(n))
		case LiteralInt:
			lit.Int = r.i32()
		case LiteralFloat:
			lit.Float = float64(math.Float32frombits(r.u32()))
		case LiteralRaw:
			n := int(r.u32())
			lit.Raw = r.bytes(n)
		}
		s.Literals = append(s.Literals, lit)
	}

	numProps := int(r.u16())
	for i := 0; i < numProps; i++ {
		s.PropNameIDs = append(s.PropNameIDs, r.i32())
	}
	numGlobals := int(r.u16())
	for i := 0; i < numGlobals; i++ {
		s.GlobalNameIDs = append(s.GlobalNameIDs, r.i32())
	}
	return s
}

// NameTable is the decoded Lnam chunk: the shared per-script-context names
// table used to resolve nameIDs to handler/property/variable names.
type NameTable struct {
	Names []string
}

// DecodeNameTable reads an Lnam chunk: a count followed by length-prefixed
// strings.
func DecodeNameTable(raw Raw) *NameTable {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	count := int(r.u16())
	nt := &NameTable{}
	for i := 0; i < count; i++ {
		nt.Names = append(nt.Names, readPString(r))
	}
	return nt
}

// Resolve returns the string for nameID, or the `#<id>` sentinel when it's
// out of range.
func (nt *NameTable) Resolve(nameID int32) string {
	if nameID < 0 || int(nameID) >= len(nt.Names) {
		return sentinelName(nameID)
	}
	return nt.Names[nameID]
}

func sentinelName(id int32) string {
	return "#" + strconv.Itoa(int(id))
}

// ScriptContext is the decoded Lctx/LctX chunk: maps a script's position in
// the context to its Lscr chunk id.
type ScriptContext struct {
	ScriptChunkIDs []int32
}

// DecodeScriptContext reads an Lctx/LctX chunk: a flat array of int32
// script chunk ids.
func DecodeScriptContext(raw Raw) *ScriptContext {
	r := newReader(raw.Data, ByteOrder(raw.Type))
	n := len(raw.Data) / 4
	ids := make([]int32, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, r.i32())
	}
	return &ScriptContext{ScriptChunkIDs: ids}
}
