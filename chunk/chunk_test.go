package chunk

import "testing"

func be32(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

func be16(v int16) []byte {
	u := uint16(v)
	return []byte{byte(u >> 8), byte(u)}
}

func TestDecodeKeyTableLookup(t *testing.T) {
	var data []byte
	data = append(data, be16(12)...)
	data = append(data, be16(12)...)
	data = append(data, be32(2)...)
	data = append(data, be32(2)...)
	data = append(data, be32(10)...)
	data = append(data, be32(1)...)
	data = append(data, []byte("BITD")...)
	data = append(data, be32(11)...)
	data = append(data, be32(1)...)
	data = append(data, []byte("Lscr")...)

	kt := DecodeKeyTable(Raw{Type: NewFourCC("KEY*"), Data: data})
	entries := kt.EntriesForOwner(1)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries owned by chunk 1, got %d", len(entries))
	}
	owner, ok := kt.OwnerOf(10)
	if !ok || owner != 1 {
		t.Fatalf("expected section 10 owned by 1, got %d ok=%v", owner, ok)
	}
	if id, ok := kt.FindOwnedByKind(1, NewFourCC("Lscr")); !ok || id != 11 {
		t.Fatalf("expected Lscr owned by 1 to be chunk 11, got %d ok=%v", id, ok)
	}
}

func TestInstructionDecodingArgSizes(t *testing.T) {
	// op=0x10 (no arg), op=0x41 (1-byte arg=5), op=0xC1 (4-byte arg)
	code := []byte{0x10, 0x41, 0x05, 0xC1, 0x00, 0x00, 0x01, 0x00}
	instrs := decodeInstructions(code)
	if len(instrs) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(instrs))
	}
	if instrs[0].Offset != 0 || instrs[0].Argument != 0 {
		t.Errorf("instr0 = %+v", instrs[0])
	}
	if instrs[1].Offset != 1 || instrs[1].Argument != 5 {
		t.Errorf("instr1 = %+v", instrs[1])
	}
	if instrs[2].Offset != 3 || instrs[2].Argument != 256 {
		t.Errorf("instr2 = %+v", instrs[2])
	}
}

func TestFrameLabelResolveCaseInsensitive(t *testing.T) {
	fl := &FrameLabels{Labels: []FrameLabel{{Frame: 3, Name: "Intro"}}}
	frame, ok := fl.Resolve("INTRO")
	if !ok || frame != 3 {
		t.Fatalf("expected case-insensitive resolve to find frame 3, got %d ok=%v", frame, ok)
	}
	if _, ok := fl.Resolve("missing"); ok {
		t.Fatal("expected unknown label to miss")
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	got := NormalizeLineEndings("a\r\nb\nc\rd")
	want := "a\rb\rc\rd"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNameTableResolveSentinel(t *testing.T) {
	nt := &NameTable{Names: []string{"hello", "world"}}
	if nt.Resolve(0) != "hello" {
		t.Fatal("expected name 0 to resolve")
	}
	if nt.Resolve(99) != "#99" {
		t.Fatalf("expected sentinel for missing id, got %q", nt.Resolve(99))
	}
}
