package vm

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"shockcore/chunk"
	"shockcore/datum"
)

// The opcode-semantics suite is data-driven: each fixture case is a small
// handler (literal pool + instruction list) plus the value its ret must
// produce. Offsets are assigned sequentially, matching the one-instruction-
// per-offset layout the inline tests in vm_test.go use.

type goldenDoc struct {
	Cases []goldenCase `yaml:"cases"`
}

type goldenCase struct {
	Name     string          `yaml:"name"`
	Names    []string        `yaml:"names"`
	Literals []goldenLiteral `yaml:"literals"`
	Code     []goldenInstr   `yaml:"code"`
	Want     goldenWant      `yaml:"want"`
}

type goldenLiteral struct {
	Kind  string  `yaml:"kind"`
	Str   string  `yaml:"str"`
	Int   int32   `yaml:"int"`
	Float float64 `yaml:"float"`
}

type goldenInstr struct {
	Op  string `yaml:"op"`
	Arg int32  `yaml:"arg"`
}

type goldenWant struct {
	Kind  string  `yaml:"kind"`
	Int   int32   `yaml:"int"`
	Float float64 `yaml:"float"`
	Str   string  `yaml:"str"`
}

var opByName = map[string]Op{
	"nop":                  OpNop,
	"push_zero":            OpPushZero,
	"push_void":            OpPushVoid,
	"add":                  OpAdd,
	"sub":                  OpSub,
	"mul":                  OpMul,
	"div":                  OpDiv,
	"mod":                  OpMod,
	"negate":               OpNegate,
	"join_str":             OpJoinStr,
	"join_pad_str":         OpJoinPadStr,
	"lt":                   OpLt,
	"lt_eq":                OpLtEq,
	"nt_eq":                OpNtEq,
	"eq":                   OpEq,
	"gt":                   OpGt,
	"gt_eq":                OpGtEq,
	"and":                  OpAnd,
	"or":                   OpOr,
	"not":                  OpNot,
	"contains_str":         OpContainsStr,
	"swap":                 OpSwap,
	"dup":                  OpDup,
	"ret":                  OpRet,
	"ret_factory":          OpRetFactory,
	"push_int":             OpPushInt,
	"push_float":           OpPushFloat,
	"push_literal":         OpPushLiteral,
	"push_symbol":          OpPushSymbol,
	"get_local":            OpGetLocal,
	"set_local":            OpSetLocal,
	"get_param":            OpGetParam,
	"set_param":            OpSetParam,
	"get_global":           OpGetGlobal,
	"set_global":           OpSetGlobal,
	"jmp":                  OpJmp,
	"jmp_if_zero":          OpJmpIfZero,
	"end_repeat":           OpEndRepeat,
	"push_list":            OpPushList,
	"push_prop_list":       OpPushPropList,
	"push_arg_list":        OpPushArgList,
	"push_arg_list_no_ret": OpPushArgListNoRet,
	"pop":                  OpPop,
}

func loadGoldenDoc(t *testing.T, path string) goldenDoc {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var doc goldenDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return doc
}

func (c goldenCase) build(t *testing.T) *chunk.Handler {
	t.Helper()
	code := make([]chunk.Instruction, len(c.Code))
	for i, gi := range c.Code {
		op, ok := opByName[gi.Op]
		if !ok {
			t.Fatalf("case %q: unknown opcode %q", c.Name, gi.Op)
		}
		code[i] = chunk.Instruction{Offset: i, Op: op, Argument: gi.Arg}
	}
	return &chunk.Handler{Code: code}
}

func (c goldenCase) literalPool(t *testing.T) []chunk.Literal {
	t.Helper()
	pool := make([]chunk.Literal, len(c.Literals))
	for i, gl := range c.Literals {
		switch gl.Kind {
		case "string":
			pool[i] = chunk.Literal{Kind: chunk.LiteralString, Str: gl.Str}
		case "int":
			pool[i] = chunk.Literal{Kind: chunk.LiteralInt, Int: gl.Int}
		case "float":
			pool[i] = chunk.Literal{Kind: chunk.LiteralFloat, Float: gl.Float}
		default:
			t.Fatalf("case %q: unknown literal kind %q", c.Name, gl.Kind)
		}
	}
	return pool
}

func (w goldenWant) check(t *testing.T, got datum.Value) {
	t.Helper()
	switch w.Kind {
	case "void":
		if _, ok := got.(datum.Void); !ok {
			t.Fatalf("want Void, got %T (%v)", got, got)
		}
	case "int":
		v, ok := got.(datum.Int)
		if !ok || v.Val != w.Int {
			t.Fatalf("want Int(%d), got %T (%v)", w.Int, got, got)
		}
	case "float":
		v, ok := got.(datum.Float)
		if !ok || v.Val != w.Float {
			t.Fatalf("want Float(%v), got %T (%v)", w.Float, got, got)
		}
	case "string":
		if got.String() != w.Str {
			t.Fatalf("want %q, got %T %q", w.Str, got, got.String())
		}
	default:
		t.Fatalf("unknown want kind %q", w.Kind)
	}
}

func TestOpcodeGoldenCases(t *testing.T) {
	doc := loadGoldenDoc(t, "testdata/opcodes.yaml")
	if len(doc.Cases) == 0 {
		t.Fatal("no golden cases loaded")
	}
	for _, tc := range doc.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			handle := handlerOf("golden", tc.build(t).Code, tc.literalPool(t))
			handle.Names = &chunk.NameTable{Names: tc.Names}
			v := newTestVM()
			result := v.Execute(handle, datum.Void{}, nil)
			tc.Want.check(t, result.Val)
		})
	}
}
