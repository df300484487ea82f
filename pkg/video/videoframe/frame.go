package videoframe

import (
	"image"
	"math"

	"github.com/tauraamui/xerror"
)

// Channels is the number of interleaved bytes per pixel (R, G, B, A).
const Channels = 4

type Dimensions struct {
	W, H int
}

// Len is the number of bytes a buffer of these dimensions holds.
func (d Dimensions) Len() int {
	return d.W * d.H * Channels
}

// Buffer is a flat row-major RGBA pixel buffer. Filters mutate Pix in place
// but never change its length or the dimensions.
type Buffer struct {
	Dimensions
	Pix []uint8
}

func New(d Dimensions) *Buffer {
	return &Buffer{Dimensions: d, Pix: make([]uint8, d.Len())}
}

// NewFromRGBA copies the pixels of img into a new buffer.
func NewFromRGBA(img *image.RGBA) *Buffer {
	b := img.Bounds()
	buf := New(Dimensions{W: b.Dx(), H: b.Dy()})
	row := b.Dx() * Channels
	for y := 0; y < b.Dy(); y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf.Pix[y*row:(y+1)*row], img.Pix[start:start+row])
	}
	return buf
}

func (b *Buffer) Validate() error {
	if b == nil {
		return xerror.New("pixel buffer is nil")
	}
	if b.W < 0 || b.H < 0 {
		return xerror.Errorf("pixel buffer has negative dimensions %dx%d", b.W, b.H)
	}
	if len(b.Pix) != b.Len() {
		return xerror.Errorf(
			"pixel buffer holds %d bytes, %dx%d requires %d", len(b.Pix), b.W, b.H, b.Len(),
		)
	}
	return nil
}

// Offset returns the index of the red byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return Channels * (y*b.W + x)
}

func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Dimensions: b.Dimensions, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// CopyFrom overwrites b with the pixels of src. Both must share dimensions.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if b.Dimensions != src.Dimensions {
		return xerror.Errorf(
			"cannot copy %dx%d buffer into %dx%d buffer", src.W, src.H, b.W, b.H,
		)
	}
	copy(b.Pix, src.Pix)
	return nil
}

// RGBA wraps the buffer as an image without copying. The image aliases Pix,
// so callers must not keep it past the point the buffer is handed back.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.W * Channels,
		Rect:   image.Rect(0, 0, b.W, b.H),
	}
}

// ClampUint8 rounds v half to even and clamps it into [0,255].
func ClampUint8(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// ClampIndex pins i into [0, n-1], replicating the nearest edge sample.
func ClampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
