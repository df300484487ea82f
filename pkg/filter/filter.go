// Package filter holds the per-frame image transformations and the chain that
// applies them in order.
//
// Every filter mutates a videoframe.Buffer in place and must leave each
// channel within [0,255] without resizing the buffer. Pointwise filters only
// touch R, G and B. Convolution based filters regenerate whole pixels and
// always write an alpha of 255.
package filter

import (
	"fmt"
	"strings"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

type Filter interface {
	ProcessFrame(*videoframe.Buffer) error
}

// Validator is implemented by filters whose parameters can be invalid. It is
// called during preflight, never per frame.
type Validator interface {
	Validate() error
}

// Name returns a human readable name for f, used in logs and errors.
func Name(f Filter) string {
	if f == nil {
		return "unknown"
	}
	if s, ok := f.(fmt.Stringer); ok {
		return s.String()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", f), "*")
}

// Func adapts a plain function into a Filter.
type Func func(*videoframe.Buffer) error

func (fn Func) ProcessFrame(buf *videoframe.Buffer) error {
	return fn(buf)
}

// eachPixel calls fn with the R, G, B, A slice of every pixel in buf.
func eachPixel(buf *videoframe.Buffer, fn func(p []uint8)) {
	for i := 0; i+videoframe.Channels <= len(buf.Pix); i += videoframe.Channels {
		fn(buf.Pix[i : i+videoframe.Channels : i+videoframe.Channels])
	}
}
