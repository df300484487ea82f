package videotext

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const DefaultSize = 24.0

var (
	parseOnce  sync.Once
	parsedFont *truetype.Font
	parseErr   error
)

func regularFont() (*truetype.Font, error) {
	parseOnce.Do(func() {
		parsedFont, parseErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, parseErr
}

// Draw renders text onto canvas with its top-left corner at (x, y).
func Draw(canvas draw.Image, x, y int, size float64, fg color.Color, text string) error {
	if len(text) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}

	f, err := regularFont()
	if err != nil {
		return xerror.Errorf("unable to parse caption font: %w", err)
	}

	drawer := &font.Drawer{
		Dst: canvas,
		Src: image.NewUniform(fg),
		Face: truetype.NewFace(f, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		}),
	}

	bounds, _ := drawer.BoundString(text)
	ascent := -bounds.Min.Y
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + ascent,
	}
	drawer.DrawString(text)
	return nil
}

// Measure returns the pixel width and height text occupies at size.
func Measure(size float64, text string) (int, int, error) {
	if size <= 0 {
		size = DefaultSize
	}
	f, err := regularFont()
	if err != nil {
		return 0, 0, xerror.Errorf("unable to parse caption font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil(), nil
}
