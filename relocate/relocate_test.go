package relocate_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/blin/nuc1261-fwreloc/relocate"
)

func mapLine(base, size uint32, kind string, idx int, name string) string {
	return fmt.Sprintf("    0x%08x   0x%08x   0x%08x   %s   RO          %d    *  %s   obj.o\n", base, base, size, kind, idx, name)
}

func writeMap(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.map")
	content := "Memory Map of the image\n\n"
	for _, l := range lines {
		content += l
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write map file: %v", err)
	}
	return path
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func put32(buf []byte, off uint32, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

func get32(buf []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

func newVectorImage(length int, sp uint32, handlers ...uint32) []byte {
	img := make([]byte, length)
	put32(img, 0, sp)
	for i, h := range handlers {
		put32(img, uint32((i+1)*4), h)
	}
	return img
}

func TestEmptyPatchIsNoOp(t *testing.T) {
	handlers := make([]uint32, 47)
	for i := range handlers {
		handlers[i] = uint32(0x101 + i*4)
	}
	img := newVectorImage(192, 0x20001000, handlers...)
	orig := append([]byte{}, img...)

	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Bytes) != string(orig) {
		t.Errorf("expected a delta-0 relocation to leave bytes unchanged")
	}
}

func TestPureVectorRelocation(t *testing.T) {
	handlers := []uint32{0, 0x101, 0x105, 0x109}
	img := newVectorImage(192, 0x20001000, handlers...)

	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := get32(res.Bytes, 0); got != 0x20001000 {
		t.Errorf("stack pointer changed: got %#x", got)
	}
	if got := get32(res.Bytes, 4); got != 0 {
		t.Errorf("zero vector entry should remain zero, got %#x", got)
	}
	if got := get32(res.Bytes, 8); got != 0x10101 {
		t.Errorf("vector[2] = %#x, want %#x", got, 0x10101)
	}
	if got := get32(res.Bytes, 12); got != 0x10105 {
		t.Errorf("vector[3] = %#x, want %#x", got, 0x10105)
	}
	if got := get32(res.Bytes, 16); got != 0x10109 {
		t.Errorf("vector[4] = %#x, want %#x", got, 0x10109)
	}
}

func TestLiteralInDataIsRelocated(t *testing.T) {
	img := make([]byte, 0x300)
	put32(img, 0, 0x20001000)
	binary.LittleEndian.PutUint16(img[0x200:], 0x4801) // ldr r0, [pc, #4] -> literal at 0x208
	put32(img, 0x208, 0x20000400)

	mapPath := writeMap(t,
		mapLine(0x0, 0x1000, "Code", 1, ".text"),
		mapLine(0x20000000, 0x1000, "Data", 2, ".data"),
	)

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := get32(res.Bytes, 0x208); got != 0x20010400 {
		t.Errorf("data literal = %#x, want %#x", got, 0x20010400)
	}
	if _, touched := res.Ledger.PatchedBranches[0x208]; touched {
		t.Errorf("expected the branch ledger not to record a data literal address")
	}
}

func TestLiteralInCodeIsPatchedExactlyOnce(t *testing.T) {
	img := make([]byte, 0x1000)
	put32(img, 0, 0x20001000)
	binary.LittleEndian.PutUint16(img[0x200:], 0x4801) // ldr r0, [pc, #4] -> literal at 0x208
	put32(img, 0x208, 0x00000301)

	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := get32(res.Bytes, 0x208); got != 0x00010301 {
		t.Errorf("code literal = %#x, want %#x", got, 0x00010301)
	}
	if _, doubled := res.Ledger.PatchedConsts[0x301]; doubled {
		t.Errorf("expected pass 3 to skip a literal already claimed by pass 2")
	}
}

func TestJumpTableSweepPatchesRunsOfFourOrMore(t *testing.T) {
	img := make([]byte, 0x500)
	put32(img, 0, 0x20001000)

	values := []uint32{0x101, 0x121, 0x145, 0x167, 0x189, 0x1AB, 0x1CD, 0x1EF}
	for i, v := range values {
		put32(img, uint32(0x400+i*4), v)
	}
	put32(img, uint32(0x400+len(values)*4), 0xFFFFFFFF)

	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range values {
		got := get32(res.Bytes, uint32(0x400+i*4))
		want := v + 0x10000
		if got != want {
			t.Errorf("jump table entry %d = %#x, want %#x", i, got, want)
		}
	}
	if got := get32(res.Bytes, uint32(0x400+len(values)*4)); got != 0xFFFFFFFF {
		t.Errorf("terminator word should be untouched, got %#x", got)
	}
}

func TestJumpTableBelowThresholdIsIgnored(t *testing.T) {
	img := make([]byte, 0x500)
	put32(img, 0, 0x20001000)

	values := []uint32{0x101, 0x121, 0x145}
	for i, v := range values {
		put32(img, uint32(0x400+i*4), v)
	}
	put32(img, uint32(0x400+len(values)*4), 0xFFFFFFFF)

	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range values {
		got := get32(res.Bytes, uint32(0x400+i*4))
		if got != v {
			t.Errorf("jump table entry %d should be untouched below threshold, got %#x want %#x", i, got, v)
		}
	}
}

func TestImageTooSmallIsRejected(t *testing.T) {
	img := make([]byte, 10)
	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	_, err := relocate.Relocate(img, "fw.bin", mapPath, 0x0, 0x10000, 0)
	if err == nil {
		t.Fatal("expected an error for an image shorter than the vector table")
	}
}

func TestOutputHintNamesTheNewBase(t *testing.T) {
	img := newVectorImage(192, 0x20001000)
	mapPath := writeMap(t, mapLine(0x0, 0x1000, "Code", 1, ".text"))

	res, err := relocate.Relocate(img, "app.bin", mapPath, 0x0, 0x10000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "app_at_0x10000.bin"; res.OutputHint != want {
		t.Errorf("OutputHint = %q, want %q", res.OutputHint, want)
	}
}
