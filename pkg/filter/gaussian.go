package filter

import (
	"fmt"
	"math"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// DefaultSigma is used when a blur is built without a positive sigma.
const DefaultSigma = 0.8

// GaussianKernel builds a normalized 1D kernel of length 2*radius+1. The
// density's leading constant is skipped since normalizing removes it anyway.
// A non-positive sigma falls back to DefaultSigma.
func GaussianKernel(radius int, sigma float64) []float64 {
	if radius < 0 {
		radius = 0
	}
	if !(sigma > 0) {
		sigma = DefaultSigma
	}

	kernel := make([]float64, 0, 2*radius+1)
	twoSigmaSq := 2 * sigma * sigma
	for i := 0; i <= radius; i++ {
		d := float64(radius - i)
		kernel = append(kernel, math.Exp(-(d*d)/twoSigmaSq))
	}
	for i := radius - 1; i >= 0; i-- {
		kernel = append(kernel, kernel[i])
	}

	var sum float64
	for _, v := range kernel {
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur blurs with a separable Gaussian: a horizontal pass along each
// row then a vertical pass along each column, each clamping samples to the
// buffer edge.
type GaussianBlur struct {
	Radius int
	Sigma  float64
	kernel []float64
}

func NewGaussianBlur(radius int, sigma float64) *GaussianBlur {
	if !(sigma > 0) {
		sigma = DefaultSigma
	}
	return &GaussianBlur{
		Radius: radius,
		Sigma:  sigma,
		kernel: GaussianKernel(radius, sigma),
	}
}

func (g *GaussianBlur) String() string {
	return fmt.Sprintf("GaussianBlur(radius %d, sigma %v)", g.Radius, g.Sigma)
}

func (g *GaussianBlur) Validate() error {
	if g.Radius < 0 {
		return xerror.Errorf("blur radius must not be negative, got %d", g.Radius)
	}
	return nil
}

// Kernel returns a copy of the blur's 1D kernel.
func (g *GaussianBlur) Kernel() []float64 {
	return append([]float64{}, g.kernel...)
}

func (g *GaussianBlur) ProcessFrame(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if len(g.kernel) != 2*g.Radius+1 {
		g.kernel = GaussianKernel(g.Radius, g.Sigma)
	}

	width, height := buf.W, buf.H
	scratch := getScratch(width * height * 3)
	defer putScratch(scratch)
	tmp := scratch.data

	// horizontal: frame -> scratch
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			var red, green, blue float64
			for k, weight := range g.kernel {
				fcol := videoframe.ClampIndex(col+k-g.Radius, width)
				src := buf.Offset(fcol, row)
				red += weight * float64(buf.Pix[src+0])
				green += weight * float64(buf.Pix[src+1])
				blue += weight * float64(buf.Pix[src+2])
			}
			t := 3 * (row*width + col)
			tmp[t+0], tmp[t+1], tmp[t+2] = red, green, blue
		}
	}

	// vertical: scratch -> frame
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			var red, green, blue float64
			for k, weight := range g.kernel {
				frow := videoframe.ClampIndex(row+k-g.Radius, height)
				t := 3 * (frow*width + col)
				red += weight * tmp[t+0]
				green += weight * tmp[t+1]
				blue += weight * tmp[t+2]
			}
			dst := buf.Offset(col, row)
			buf.Pix[dst+0] = videoframe.ClampUint8(red)
			buf.Pix[dst+1] = videoframe.ClampUint8(green)
			buf.Pix[dst+2] = videoframe.ClampUint8(blue)
			buf.Pix[dst+3] = 255
		}
	}
	return nil
}
