package rom

import (
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
)

func TestParse_Basic(t *testing.T) {
	data := []byte{0x00, 0xE0, 0x12, 0x00}
	r, err := Parse("loop", data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Name != "loop" || r.Size() != 4 {
		t.Fatalf("got name %q size %d", r.Name, r.Size())
	}
	if r.CRC32 != crc32.ChecksumIEEE(data) {
		t.Fatalf("CRC32 got %08x want %08x", r.CRC32, crc32.ChecksumIEEE(data))
	}

	data[0] = 0xFF
	if r.Data[0] != 0x00 {
		t.Fatalf("Parse must copy the input")
	}
}

func TestParse_SizeLimits(t *testing.T) {
	if _, err := Parse("empty", nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty: got %v want ErrEmpty", err)
	}
	if _, err := Parse("max", make([]byte, chip8.MaxROMSize)); err != nil {
		t.Fatalf("max size rejected: %v", err)
	}
	if _, err := Parse("big", make([]byte, chip8.MaxROMSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("oversize: got %v want ErrTooLarge", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PONG.ch8")
	if err := os.WriteFile(path, []byte{0x6A, 0x02}, 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if r.Name != "PONG" || r.Path != path {
		t.Fatalf("got name %q path %q", r.Name, r.Path)
	}

	if _, err := Load(filepath.Join(dir, "missing.ch8")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: got %v", err)
	}

	empty := filepath.Join(dir, "empty.ch8")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty file: got %v want ErrEmpty", err)
	}
}
