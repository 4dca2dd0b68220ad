package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
)

var red = color.RGBA{R: 0xFF, A: 0xFF}

func TestSetResolution_ReusesBuffer(t *testing.T) {
	c := New(4, 2)
	assert.NoError(t, c.SetPixel(1, 1, red))
	first := &c.Pixels()[0]

	c.SetResolution(4, 2)
	assert.True(t, first == &c.Pixels()[0])
	assert.Equal(t, red, c.At(1, 1))

	// same pixel count, different shape: buffer is kept
	c.SetResolution(2, 4)
	assert.True(t, first == &c.Pixels()[0])
	assert.Equal(t, 2, c.Width())
	assert.Equal(t, 4, c.Height())

	c.SetResolution(8, 8)
	assert.Equal(t, 64, len(c.Pixels()))
	assert.False(t, first == &c.Pixels()[0])
}

func TestSetPixel_Bounds(t *testing.T) {
	c := New(3, 3)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		err := c.SetPixel(p[0], p[1], red)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
	}
	assert.NoError(t, c.SetPixel(2, 0, red))
	assert.Equal(t, red, c.Pixels()[2])
}

func TestClear(t *testing.T) {
	c := New(5, 5)
	c.Clear(red)
	for i, p := range c.Pixels() {
		if p != red {
			t.Fatalf("pixel %d got %v want %v", i, p, red)
		}
	}
}

func TestRenderChip8_FlipsVertically(t *testing.T) {
	var screen [chip8.ScreenBytes]byte
	// (0, 0) top-left and (63, 31) bottom-right
	screen[0] = 0x80
	screen[7*chip8.ScreenHeight+31] = 0x01

	c := New(chip8.ScreenWidth, chip8.ScreenHeight)
	assert.NoError(t, RenderChip8(screen, c, On, Off))

	assert.Equal(t, On, c.At(0, chip8.ScreenHeight-1))
	assert.Equal(t, On, c.At(63, 0))
	assert.Equal(t, Off, c.At(0, 0))
	assert.Equal(t, Off, c.At(1, chip8.ScreenHeight-1))

	lit := 0
	for _, p := range c.Pixels() {
		if p == On {
			lit++
		}
	}
	assert.Equal(t, 2, lit)
}

func TestRenderChip8_CanvasTooSmall(t *testing.T) {
	var screen [chip8.ScreenBytes]byte
	err := RenderChip8(screen, New(32, 32), On, Off)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestTopDownRGBA(t *testing.T) {
	c := New(2, 2)
	assert.NoError(t, c.SetPixel(0, 1, red)) // top-left
	buf := c.TopDownRGBA(nil)
	assert.Equal(t, 16, len(buf))
	assert.Equal(t, byte(0xFF), buf[0])
	assert.Equal(t, byte(0xFF), buf[3])
	assert.Equal(t, byte(0x00), buf[8])

	reused := c.TopDownRGBA(buf)
	assert.True(t, &reused[0] == &buf[0])
}

func TestCRC32_TracksContent(t *testing.T) {
	c := New(2, 2)
	before := c.CRC32()
	assert.NoError(t, c.SetPixel(1, 1, red))
	assert.True(t, before != c.CRC32())
}

func TestWritePNG_Scaled(t *testing.T) {
	c := New(2, 1)
	assert.NoError(t, c.SetPixel(1, 0, red))

	var buf bytes.Buffer
	assert.NoError(t, WritePNG(&buf, c, 3))
	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())

	r, _, _, a := img.At(5, 2).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), a)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}
