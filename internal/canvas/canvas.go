// Package canvas is a resizable RGBA framebuffer with a bottom-left origin,
// the hand-off point between the VM bitmap and the display collaborators.
package canvas

import (
	"errors"
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
)

var ErrOutOfBounds = errors.New("canvas: pixel out of bounds")

// Default colors for lit and unlit CHIP-8 pixels.
var (
	On  = colornames.White
	Off = colornames.Black
)

// Canvas stores pixels row-major, row 0 at the bottom.
type Canvas struct {
	width, height int
	pix           []color.RGBA
}

// New returns a canvas of the given size.
func New(width, height int) *Canvas {
	c := &Canvas{}
	c.SetResolution(width, height)
	return c
}

// SetResolution resizes the canvas. The backing buffer is reallocated only
// when the pixel count changes; otherwise existing contents are kept.
func (c *Canvas) SetResolution(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width, c.height = width, height
	if n := width * height; n != len(c.pix) {
		c.pix = make([]color.RGBA, n)
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// SetPixel writes one pixel; (0, 0) is the bottom-left corner.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) error {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, c.width, c.height)
	}
	c.pix[y*c.width+x] = col
	return nil
}

// At returns the pixel at (x, y), transparent black when out of bounds.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.RGBA{}
	}
	return c.pix[y*c.width+x]
}

// Clear fills every pixel with col.
func (c *Canvas) Clear(col color.RGBA) {
	for i := range c.pix {
		c.pix[i] = col
	}
}

// Pixels exposes the backing buffer, bottom row first.
func (c *Canvas) Pixels() []color.RGBA { return c.pix }

// RenderChip8 converts a packed VM bitmap into the canvas. Bitmap row 0 is the
// top of the screen, so it lands on canvas row height-1.
func RenderChip8(screen [chip8.ScreenBytes]byte, c *Canvas, on, off color.RGBA) error {
	if c.width < chip8.ScreenWidth || c.height < chip8.ScreenHeight {
		return fmt.Errorf("%w: %dx%d canvas cannot hold %dx%d", ErrOutOfBounds,
			c.width, c.height, chip8.ScreenWidth, chip8.ScreenHeight)
	}
	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			b := screen[(x/8)*chip8.ScreenHeight+y]
			col := off
			if (b>>(7-uint(x%8)))&1 == 1 {
				col = on
			}
			c.pix[(c.height-1-y)*c.width+x] = col
		}
	}
	return nil
}
