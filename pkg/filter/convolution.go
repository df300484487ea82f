package filter

import (
	"fmt"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// Kernel is a square weight matrix with an implicit centre, plus the divisor
// and offset applied to each accumulated channel.
type Kernel struct {
	Matrix  [][]float64
	Divisor float64
	Offset  float64
}

func (k Kernel) Validate() error {
	return validateMatrix(k.Matrix, k.Divisor)
}

func validateMatrix(matrix [][]float64, divisor float64) error {
	size := len(matrix)
	if size == 0 {
		return xerror.New("convolution kernel is empty")
	}
	if size%2 == 0 {
		return xerror.Errorf("convolution kernel size must be odd, got %d", size)
	}
	for j, row := range matrix {
		if len(row) != size {
			return xerror.Errorf("convolution kernel row %d has %d columns, expected %d", j, len(row), size)
		}
	}
	if divisor == 0 {
		return xerror.New("convolution divisor must not be zero")
	}
	return nil
}

// ApplyConvolution convolves buf with matrix. For every output pixel each
// kernel cell samples the source pixel at the cell's offset from the centre,
// with coordinates clamped to the buffer edges. The weighted R, G and B sums
// are divided by divisor, shifted by offset and clamped; alpha is forced to
// 255. The whole result is built in scratch before any pixel is written back.
func ApplyConvolution(buf *videoframe.Buffer, matrix [][]float64, divisor, offset float64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := validateMatrix(matrix, divisor); err != nil {
		return err
	}

	width, height := buf.W, buf.H
	size := len(matrix)
	half := size / 2

	scratch := getScratch(width * height * 3)
	defer putScratch(scratch)
	out := scratch.data

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var red, green, blue float64
			for j := 0; j < size; j++ {
				row := videoframe.ClampIndex(y+j-half, height)
				for i := 0; i < size; i++ {
					col := videoframe.ClampIndex(x+i-half, width)
					weight := matrix[j][i]
					if weight == 0 {
						continue
					}
					src := buf.Offset(col, row)
					red += weight * float64(buf.Pix[src+0])
					green += weight * float64(buf.Pix[src+1])
					blue += weight * float64(buf.Pix[src+2])
				}
			}

			o := 3 * (y*width + x)
			out[o+0] = red/divisor + offset
			out[o+1] = green/divisor + offset
			out[o+2] = blue/divisor + offset
		}
	}

	for p := 0; p < width*height; p++ {
		d := p * videoframe.Channels
		buf.Pix[d+0] = videoframe.ClampUint8(out[3*p+0])
		buf.Pix[d+1] = videoframe.ClampUint8(out[3*p+1])
		buf.Pix[d+2] = videoframe.ClampUint8(out[3*p+2])
		buf.Pix[d+3] = 255
	}
	return nil
}

// Convolution is a filter backed by a fixed kernel.
type Convolution struct {
	name   string
	Kernel Kernel
}

func NewConvolution(matrix [][]float64, divisor, offset float64) *Convolution {
	return &Convolution{
		name:   "Convolution",
		Kernel: Kernel{Matrix: matrix, Divisor: divisor, Offset: offset},
	}
}

// NewEmboss builds the classic libgd emboss kernel.
func NewEmboss() *Convolution {
	return &Convolution{
		name: "Emboss",
		Kernel: Kernel{
			Matrix: [][]float64{
				{1.5, 0, 0},
				{0, 0, 0},
				{0, 0, -1.5},
			},
			Divisor: 1,
			Offset:  127,
		},
	}
}

// NewSmooth builds a 3x3 smoothing kernel. Lower weights (towards 0) smooth
// more heavily.
func NewSmooth(weight float64) *Convolution {
	return &Convolution{
		name: fmt.Sprintf("Smooth(%v)", weight),
		Kernel: Kernel{
			Matrix: [][]float64{
				{1, 1, 1},
				{1, weight, 1},
				{1, 1, 1},
			},
			Divisor: weight + 8,
			Offset:  0,
		},
	}
}

func NewEdgeDetect() *Convolution {
	return &Convolution{
		name: "EdgeDetect",
		Kernel: Kernel{
			Matrix: [][]float64{
				{-1, 0, -1},
				{0, 4, 0},
				{-1, 0, -1},
			},
			Divisor: 1,
			Offset:  127,
		},
	}
}

func (c *Convolution) String() string { return c.name }

func (c *Convolution) Validate() error { return c.Kernel.Validate() }

func (c *Convolution) ProcessFrame(buf *videoframe.Buffer) error {
	return ApplyConvolution(buf, c.Kernel.Matrix, c.Kernel.Divisor, c.Kernel.Offset)
}
