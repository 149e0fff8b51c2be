package datum

import (
	"fmt"
	"strings"
)

// ChunkKind selects which textual unit a StringChunk addresses.
type ChunkKind int

const (
	ChunkChar ChunkKind = iota
	ChunkWord
	ChunkItem
	ChunkLine
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkChar:
		return "char"
	case ChunkWord:
		return "word"
	case ChunkItem:
		return "item"
	case ChunkLine:
		return "line"
	default:
		return "chunk"
	}
}

// StringChunk is a reference to a word/line/item/char range of a source
// string, produced by push_chunk_var_ref and used by chunk get/put/delete
// opcodes.
type StringChunk struct {
	Source      string
	Unit        ChunkKind
	Start       int
	End         int
	Delimiter   string
	cachedValue *string
}

func NewStringChunk(source string, kind ChunkKind, start, end int, delimiter string) StringChunk {
	return StringChunk{Source: source, Unit: kind, Start: start, End: end, Delimiter: delimiter}
}

func (StringChunk) Kind() Kind { return KindStringChunk }
func (s StringChunk) Truthy() bool { return false }
func (s StringChunk) String() string {
	return fmt.Sprintf("chunk(%s, %d, %d)", s.Unit, s.Start, s.End)
}
func (s StringChunk) Equal(o Value) bool {
	ov, ok := o.(StringChunk)
	if !ok {
		return false
	}
	return s.Source == ov.Source && s.Unit == ov.Unit && s.Start == ov.Start && s.End == ov.End
}

// Value resolves the chunk to its underlying substring, caching the
// result for repeated reads.
func (s *StringChunk) Value() string {
	if s.cachedValue != nil {
		return *s.cachedValue
	}
	parts := SplitChunks(s.Source, s.Unit, s.Delimiter)
	if s.Start < 1 || s.End < s.Start || s.Start > len(parts) {
		return ""
	}
	end := s.End
	if end > len(parts) {
		end = len(parts)
	}
	v := JoinChunks(parts[s.Start-1:end], s.Unit, s.Delimiter)
	s.cachedValue = &v
	return v
}

// SplitChunks splits s into the units named by kind: individual runes for
// ChunkChar, whitespace-separated runs for ChunkWord, `\r`-delimited runs
// for ChunkLine (text content is normalized to `\r` line endings), or
// delim-separated runs for ChunkItem (the VM-global item
// delimiter, default ","). Shared by the chunk builtins (count/item of/
// word of) and the VM's chunk get/put/delete opcodes so both agree on
// splitting rules.
func SplitChunks(s string, kind ChunkKind, delim string) []string {
	switch kind {
	case ChunkChar:
		runes := []rune(s)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	case ChunkWord:
		return strings.Fields(s)
	case ChunkLine:
		return strings.Split(s, "\r")
	case ChunkItem:
		if delim == "" {
			delim = ","
		}
		return strings.Split(s, delim)
	default:
		return []string{s}
	}
}

// JoinChunks re-joins chunk parts with the kind-appropriate separator, used
// by chunk put/delete to rebuild the source string after a mutation.
func JoinChunks(parts []string, kind ChunkKind, delim string) string {
	switch kind {
	case ChunkChar:
		return strings.Join(parts, "")
	case ChunkWord:
		return strings.Join(parts, " ")
	case ChunkLine:
		return strings.Join(parts, "\r")
	case ChunkItem:
		if delim == "" {
			delim = ","
		}
		return strings.Join(parts, delim)
	default:
		return strings.Join(parts, "")
	}
}
