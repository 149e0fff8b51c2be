package trace

import (
	"bytes"
	"strings"
	"testing"

	"shockcore/datum"
	"shockcore/host"
)

func TestTracerFiltersByScriptHandler(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, []string{"1:*"}, &buf)

	tr.OnHandlerEnter(host.HandlerInfo{ScriptID: 1, HandlerName: "go", Depth: 1})
	tr.OnHandlerEnter(host.HandlerInfo{ScriptID: 2, HandlerName: "go", Depth: 1})

	out := buf.String()
	if !strings.Contains(out, "1:go") {
		t.Fatalf("expected matching script to be traced, got %q", out)
	}
	if strings.Contains(out, "2:go") {
		t.Fatalf("expected non-matching script to be filtered out, got %q", out)
	}
}

func TestTracerDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	tr := New(false, nil, &buf)
	tr.OnInstruction(host.InstructionInfo{ScriptID: 1, HandlerName: "go", Offset: 0})
	if buf.Len() != 0 {
		t.Fatalf("expected no output while disabled, got %q", buf.String())
	}
}

func TestTracerOnHandlerExitIncludesReturnValue(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	tr.OnHandlerExit(host.HandlerInfo{ScriptID: 1, HandlerName: "f"}, datum.NewInt(42))
	if !strings.Contains(buf.String(), "=> 42") {
		t.Fatalf("expected return value in output, got %q", buf.String())
	}
}

func TestGlobalDefaultsToDisabled(t *testing.T) {
	global = nil
	if IsEnabled() {
		t.Fatalf("expected global tracer to default to disabled")
	}
}
