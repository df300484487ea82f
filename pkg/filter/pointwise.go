package filter

import (
	"fmt"
	"math"

	"github.com/tauraamui/cinefilter/pkg/colorspace"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// ColorLevel scales each colour channel by its own multiplier.
type ColorLevel struct {
	Red, Green, Blue float64
}

func NewColorLevel(red, green, blue float64) *ColorLevel {
	return &ColorLevel{Red: red, Green: green, Blue: blue}
}

func (c *ColorLevel) String() string {
	return fmt.Sprintf("ColorLevel(%v, %v, %v)", c.Red, c.Green, c.Blue)
}

func (c *ColorLevel) ProcessFrame(buf *videoframe.Buffer) error {
	eachPixel(buf, func(p []uint8) {
		p[0] = videoframe.ClampUint8(float64(p[0]) * c.Red)
		p[1] = videoframe.ClampUint8(float64(p[1]) * c.Green)
		p[2] = videoframe.ClampUint8(float64(p[2]) * c.Blue)
	})
	return nil
}

// BrightnessContrast shifts brightness by a fraction of full scale in [-1,1]
// and stretches contrast around mid grey. Contrast below 1 flattens the image,
// above 1 sharpens it.
type BrightnessContrast struct {
	Brightness float64
	Contrast   float64
}

func NewBrightnessContrast(brightness, contrast float64) *BrightnessContrast {
	return &BrightnessContrast{Brightness: brightness, Contrast: contrast}
}

func (b *BrightnessContrast) String() string {
	return fmt.Sprintf("BrightnessContrast(%v, %v)", b.Brightness, b.Contrast)
}

func (b *BrightnessContrast) Validate() error {
	if b.Brightness < -1 || b.Brightness > 1 {
		return xerror.Errorf("brightness must be within [-1,1], got %v", b.Brightness)
	}
	if b.Contrast < 0 {
		return xerror.Errorf("contrast must not be negative, got %v", b.Contrast)
	}
	return nil
}

func (b *BrightnessContrast) subpixel(v uint8) uint8 {
	f := float64(v)
	if b.Contrast != 1 {
		f = (f-128)*b.Contrast + 128
	}
	f += 255 * b.Brightness
	return videoframe.ClampUint8(f)
}

func (b *BrightnessContrast) ProcessFrame(buf *videoframe.Buffer) error {
	eachPixel(buf, func(p []uint8) {
		p[0] = b.subpixel(p[0])
		p[1] = b.subpixel(p[1])
		p[2] = b.subpixel(p[2])
	})
	return nil
}

type Invert struct{}

func NewInvert() *Invert { return &Invert{} }

func (Invert) String() string { return "Invert" }

func (Invert) ProcessFrame(buf *videoframe.Buffer) error {
	eachPixel(buf, func(p []uint8) {
		p[0] = 255 - p[0]
		p[1] = 255 - p[1]
		p[2] = 255 - p[2]
	})
	return nil
}

// Posterise quantizes each channel into Levels buckets of width 256/Levels,
// rounding to the nearest bucket. The top bucket saturates at 255.
type Posterise struct {
	Levels int
}

func NewPosterise(levels int) *Posterise {
	return &Posterise{Levels: levels}
}

func (p *Posterise) String() string {
	return fmt.Sprintf("Posterise(%d levels)", p.Levels)
}

func (p *Posterise) Validate() error {
	if p.Levels < 1 {
		return xerror.Errorf("posterise needs at least 1 level, got %d", p.Levels)
	}
	return nil
}

// Divisor is the width of a single bucket.
func (p *Posterise) Divisor() float64 {
	return 256 / float64(p.Levels)
}

func (p *Posterise) ProcessFrame(buf *videoframe.Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	divisor := p.Divisor()
	quantize := func(v uint8) uint8 {
		return videoframe.ClampUint8(divisor * math.Floor(float64(v)/divisor+0.5))
	}
	eachPixel(buf, func(px []uint8) {
		px[0] = quantize(px[0])
		px[1] = quantize(px[1])
		px[2] = quantize(px[2])
	})
	return nil
}

// Greyscale replaces each colour with its luma.
type Greyscale struct{}

func NewGreyscale() *Greyscale { return &Greyscale{} }

func (Greyscale) String() string { return "Greyscale" }

func (Greyscale) ProcessFrame(buf *videoframe.Buffer) error {
	eachPixel(buf, func(p []uint8) {
		luma := videoframe.ClampUint8(0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2]))
		p[0], p[1], p[2] = luma, luma, luma
	})
	return nil
}

// HSVRoundTrip converts every pixel to HSV and straight back. It is an
// identity up to rounding and mostly exists to exercise the conversions.
type HSVRoundTrip struct{}

func NewHSVRoundTrip() *HSVRoundTrip { return &HSVRoundTrip{} }

func (HSVRoundTrip) String() string { return "HSVRoundTrip" }

func (HSVRoundTrip) ProcessFrame(buf *videoframe.Buffer) error {
	eachPixel(buf, func(p []uint8) {
		h, s, v := colorspace.RGBToHSV(float64(p[0]), float64(p[1]), float64(p[2]))
		r, g, b := colorspace.HSVToRGB(h, s, v)
		p[0] = videoframe.ClampUint8(r)
		p[1] = videoframe.ClampUint8(g)
		p[2] = videoframe.ClampUint8(b)
	})
	return nil
}
