// Package tty draws the canvas on a text terminal using half-block glyphs,
// two pixel rows per character cell.
package tty

import (
	"bufio"
	"errors"
	"image/color"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/canvas"
)

var ErrNotTerminal = errors.New("tty: output is not a terminal")

const (
	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
)

// Frame renders c top row first. A pixel counts as lit when it equals on.
func Frame(c *canvas.Canvas, on color.RGBA) string {
	var sb strings.Builder
	w, h := c.Width(), c.Height()
	sb.Grow((w*3 + 1) * (h + 1) / 2)
	for row := 0; row < h; row += 2 {
		// canvas rows count from the bottom
		upperY := h - 1 - row
		lowerY := upperY - 1
		for x := 0; x < w; x++ {
			upper := c.At(x, upperY) == on
			lower := lowerY >= 0 && c.At(x, lowerY) == on
			sb.WriteRune(halfBlock(upper, lower))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func halfBlock(upper, lower bool) rune {
	switch {
	case upper && lower:
		return '█'
	case upper:
		return '▀'
	case lower:
		return '▄'
	default:
		return ' '
	}
}

// Renderer repaints frames in place on a terminal.
type Renderer struct {
	w     *bufio.Writer
	on    color.RGBA
	first bool
}

// NewRenderer writes to w. Lit pixels are those equal to on.
func NewRenderer(w io.Writer, on color.RGBA) *Renderer {
	return &Renderer{w: bufio.NewWriter(w), on: on, first: true}
}

// Open attaches a renderer to f after checking that f is a terminal wide and
// tall enough for c.
func Open(f *os.File, c *canvas.Canvas, on color.RGBA) (*Renderer, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return nil, err
	}
	if cols < c.Width() || rows < (c.Height()+1)/2 {
		return nil, errors.New("tty: terminal too small")
	}
	return NewRenderer(f, on), nil
}

// Draw writes one frame, clearing the screen before the first.
func (r *Renderer) Draw(c *canvas.Canvas) error {
	if r.first {
		r.first = false
		if _, err := r.w.WriteString(clearAll); err != nil {
			return err
		}
	}
	if _, err := r.w.WriteString(cursorHome); err != nil {
		return err
	}
	if _, err := r.w.WriteString(Frame(c, r.on)); err != nil {
		return err
	}
	return r.w.Flush()
}
