package builtins

import (
	"strings"

	"shockcore/datum"
)

// registerStringBuiltins wires the string chunk/search/case builtins,
// each validating argument count before type.
func (r *Registry) registerStringBuiltins() {
	r.Register("length", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) == 0 {
			return datum.NewInt(0), nil
		}
		if l, ok := args[0].(datum.List); ok {
			return datum.NewInt(int32(l.Count())), nil
		}
		return datum.NewInt(int32(len([]rune(datum.ToString(args[0]))))), nil
	})

	r.Register("chars", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return joinChunks(ctx, args, datum.ChunkChar)
	})
	r.Register("words", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return joinChunks(ctx, args, datum.ChunkWord)
	})
	r.Register("lines", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return joinChunks(ctx, args, datum.ChunkLine)
	})
	r.Register("items", func(ctx *Context, args []datum.Value) (datum.Value, error) {
		return joinChunks(ctx, args, datum.ChunkItem)
	})

	r.Register("offset", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		needle := datum.ToString(args[0])
		hay := datum.ToString(args[1])
		idx := strings.Index(strings.ToLower(hay), strings.ToLower(needle))
		if idx < 0 {
			return datum.NewInt(0), nil
		}
		return datum.NewInt(int32(idx + 1)), nil
	})

	r.Register("contains", func(_ *Context, args []datum.Value) (datum.Value, error) {
		if len(args) < 2 {
			return datum.NewInt(0), nil
		}
		hay := strings.ToLower(datum.ToString(args[0]))
		needle := strings.ToLower(datum.ToString(args[1]))
		if strings.Contains(hay, needle) {
			return datum.NewInt(1), nil
		}
		return datum.NewInt(0), nil
	})

	r.Register("upperCase", func(_ *Context, args []datum.Value) (datum.Value, error) {
		return datum.NewStr(strings.ToUpper(arg0String(args))), nil
	})
	r.Register("lowerCase", func(_ *Context, args []datum.Value) (datum.Value, error) {
		return datum.NewStr(strings.ToLower(arg0String(args))), nil
	})

	r.Register("chartonum", func(_ *Context, args []datum.Value) (datum.Value, error) {
		s := arg0String(args)
		if len(s) == 0 {
			return datum.NewInt(0), nil
		}
		return datum.NewInt(int32(s[0])), nil
	})
	r.Register("numtochar", func(_ *Context, args []datum.Value) (datum.Value, error) {
		n := arg0Int(args)
		return datum.NewStr(string(rune(byte(n)))), nil
	})
}

// joinChunks splits a string by chunk kind using the VM-global item
// delimiter for #items and returns the count when called with one argument,
// or the Nth chunk when called with (string, n).
func joinChunks(ctx *Context, args []datum.Value, kind datum.ChunkKind) (datum.Value, error) {
	if len(args) == 0 {
		return datum.NewInt(0), nil
	}
	s := datum.ToString(args[0])
	delim := ","
	if ctx != nil && ctx.ItemDelimiter != "" {
		delim = ctx.ItemDelimiter
	}
	parts := datum.SplitChunks(s, kind, delim)
	if len(args) >= 2 {
		n := int(datum.ToInt(args[1]))
		if n < 1 || n > len(parts) {
			return datum.NewStr(""), nil
		}
		return datum.NewStr(parts[n-1]), nil
	}
	return datum.NewInt(int32(len(parts))), nil
}

// Split implements the List()-returning `split(delim)` method on String
// datums.
func Split(s, delim string) datum.List {
	if delim == "" {
		delim = ","
	}
	parts := strings.Split(s, delim)
	items := make([]datum.Value, len(parts))
	for i, p := range parts {
		items[i] = datum.NewStr(p)
	}
	return datum.NewList(items...)
}
