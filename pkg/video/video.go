package video

import (
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

// Source produces frames on demand. Capture must fill the whole buffer it is
// given, scaling its own pixels to the buffer's dimensions.
type Source interface {
	Paused() bool
	Ended() bool
	Capture(*videoframe.Buffer) error
}

// Destination receives each processed frame. Its dimensions decide the size
// of the buffer frames are captured into.
type Destination interface {
	Dimensions() videoframe.Dimensions
	Present(*videoframe.Buffer) error
}

// Surface is implemented by destinations which expose their own pixel buffer.
// When no filters are configured frames are captured straight into it and
// no intermediate buffer is allocated.
type Surface interface {
	Destination
	Surface() *videoframe.Buffer
}

// Closer is implemented by sources and destinations holding resources.
type Closer interface {
	Close() error
}
