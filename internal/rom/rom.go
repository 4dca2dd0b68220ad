// Package rom loads CHIP-8 program images.
package rom

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
)

var (
	ErrEmpty    = errors.New("rom: empty image")
	ErrTooLarge = errors.New("rom: image exceeds program memory")
)

// ROM is a validated program image.
type ROM struct {
	Name  string // file name without extension
	Path  string // source path, empty when parsed from memory
	Data  []byte
	CRC32 uint32
}

// Parse validates data as a CHIP-8 program. Images must fit between
// 0x200 and the end of memory.
func Parse(name string, data []byte) (*ROM, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > chip8.MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), chip8.MaxROMSize)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &ROM{
		Name:  name,
		Data:  buf,
		CRC32: crc32.ChecksumIEEE(buf),
	}, nil
}

// Load reads and validates the image at path.
func Load(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom: %w", err)
	}
	base := filepath.Base(path)
	r, err := Parse(strings.TrimSuffix(base, filepath.Ext(base)), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Path = path
	return r, nil
}

// Size is the image length in bytes.
func (r *ROM) Size() int { return len(r.Data) }

func (r *ROM) String() string {
	return fmt.Sprintf("%q size=%dB crc32=%08x", r.Name, len(r.Data), r.CRC32)
}
