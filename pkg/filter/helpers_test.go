package filter_test

import (
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

func filledBuffer(w, h int, r, g, b, a uint8) *videoframe.Buffer {
	buf := videoframe.New(videoframe.Dimensions{W: w, H: h})
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i+0], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = r, g, b, a
	}
	return buf
}

// everyValueBuffer holds one pixel per byte value v: R and B carry v, G
// carries 255-v and alpha carries v/2.
func everyValueBuffer() *videoframe.Buffer {
	buf := videoframe.New(videoframe.Dimensions{W: 256, H: 1})
	for v := 0; v < 256; v++ {
		buf.Pix[4*v+0] = uint8(v)
		buf.Pix[4*v+1] = uint8(255 - v)
		buf.Pix[4*v+2] = uint8(v)
		buf.Pix[4*v+3] = uint8(v / 2)
	}
	return buf
}

func pixelAt(buf *videoframe.Buffer, x, y int) []uint8 {
	o := buf.Offset(x, y)
	return append([]uint8{}, buf.Pix[o:o+4]...)
}

func setPixel(buf *videoframe.Buffer, x, y int, px ...uint8) {
	copy(buf.Pix[buf.Offset(x, y):], px)
}
