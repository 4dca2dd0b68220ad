package canvas

import (
	"hash/crc32"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// TopDownRGBA writes the canvas into dst as 8-bit RGBA with the top row
// first, the layout ebiten and image.RGBA expect. dst is grown as needed.
func (c *Canvas) TopDownRGBA(dst []byte) []byte {
	n := c.width * c.height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	i := 0
	for y := c.height - 1; y >= 0; y-- {
		for _, p := range c.pix[y*c.width : (y+1)*c.width] {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = p.R, p.G, p.B, p.A
			i += 4
		}
	}
	return dst
}

// Image returns a top-down copy of the canvas.
func (c *Canvas) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    c.TopDownRGBA(nil),
		Stride: 4 * c.width,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}

// CRC32 is the IEEE checksum of the top-down RGBA bytes. Headless runs use it
// to compare frames.
func (c *Canvas) CRC32() uint32 {
	return crc32.ChecksumIEEE(c.TopDownRGBA(nil))
}

// WritePNG encodes the canvas as PNG, upscaled by an integer factor with
// nearest-neighbour sampling.
func WritePNG(w io.Writer, c *Canvas, scale int) error {
	src := c.Image()
	if scale <= 1 {
		return png.Encode(w, src)
	}
	dst := image.NewRGBA(image.Rect(0, 0, c.width*scale, c.height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
