package chunk

import (
	"encoding/binary"
	"fmt"
)

// SplitRawChunks is a minimal stand-in for the external binary-format
// parser, which this core otherwise treats as a black box that yields
// typed chunks and raw media buffers.
// Callers that already have a real parser should bypass this and build
// []Raw directly; this function exists so the external-cast fetch path
// and cmd/player have something to call against a RIFF-style tagged
// container: a 4-byte magic, then a flat sequence of [FourCC(4)][len(4)]
// [data(len)] records, IDs assigned by sequence position. It does not
// resolve KEY*/IMAP indirection tables found in real movie files beyond
// what the KeyTable decoder above already does from the records it sees.
func SplitRawChunks(data []byte) ([]Raw, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("chunk: container too short")
	}
	var raws []Raw
	pos := 4 // skip magic
	id := int32(0)
	for pos+8 <= len(data) {
		var tag FourCC
		copy(tag[:], data[pos:pos+4])
		length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8
		if length < 0 || pos+length > len(data) {
			length = max0(len(data) - pos)
		}
		raws = append(raws, Raw{Type: tag, ID: id, Data: data[pos : pos+length]})
		pos += length
		id++
	}
	return raws, nil
}
