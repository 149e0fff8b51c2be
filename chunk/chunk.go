// Package chunk provides a typed view over the already-parsed chunks of a
// compiled movie file. The binary tagged-chunk parser itself is an external
// collaborator: this package's input is a flat slice of raw
// chunks as that parser would hand them over, and its job is to interpret
// the bytes of the chunk kinds the player core needs, never
// to find chunk boundaries in a raw file stream.
package chunk

import "encoding/binary"

// FourCC is a 4-byte chunk type tag, e.g. "CASt", "Lscr".
type FourCC [4]byte

func (f FourCC) String() string { return string(f[:]) }

// NewFourCC builds a FourCC from a string, padding/truncating to 4 bytes.
func NewFourCC(s string) FourCC {
	var f FourCC
	copy(f[:], s)
	return f
}

// Raw is one chunk as handed over by the external binary parser: a type
// tag, an owning id (assigned by that parser, e.g. a key-table resource
// id), and the chunk's payload bytes.
type Raw struct {
	Type FourCC
	ID   int32
	Data []byte
}

// bigEndianKinds is the set of chunk types that must be read big-endian
// regardless of the file's own declared byte order.
var bigEndianKinds = map[FourCC]bool{
	NewFourCC("CAS*"): true,
	NewFourCC("CASt"): true,
	NewFourCC("Lscr"): true,
	NewFourCC("Lctx"): true,
	NewFourCC("LctX"): true,
	NewFourCC("VWSC"): true,
	NewFourCC("VWLB"): true,
	NewFourCC("STXT"): true,
}

// ByteOrder returns the byte order this core must use to decode a chunk of
// the given type, regardless of what the container file declares.
func ByteOrder(t FourCC) binary.ByteOrder {
	if bigEndianKinds[t] {
		return binary.BigEndian
	}
	return binary.BigEndian // the player core never reads little-endian payloads itself
}

// reader is a small cursor over a chunk's payload bytes. Malformed/short
// reads degrade to zero values rather than panicking.
type reader struct {
	data []byte
	pos  int
	ord  binary.ByteOrder
}

func newReader(data []byte, ord binary.ByteOrder) *reader {
	return &reader{data: data, ord: ord}
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) u8() uint8 {
	if r.remaining() < 1 {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u16() uint16 {
	if r.remaining() < 2 {
		r.pos = len(r.data)
		return 0
	}
	v := r.ord.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u32() uint32 {
	if r.remaining() < 4 {
		r.pos = len(r.data)
		return 0
	}
	v := r.ord.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) i16() int16 { return int16(r.u16()) }
func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) bytes(n int) []byte {
	if n < 0 || r.remaining() < n {
		n = max0(r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) skip(n int) {
	r.pos += n
	if r.pos > len(r.data) {
		r.pos = len(r.data)
	}
	if r.pos < 0 {
		r.pos = 0
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
