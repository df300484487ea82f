package filter

import (
	"fmt"
	"image/color"
	"time"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/cinefilter/pkg/video/videotext"
)

const DefaultCaptionTimeFormat = "2006/01/02 15:04:05.000"

// TimeNow is the clock used for caption timestamps.
var TimeNow = func() time.Time {
	return time.Now()
}

// Caption stamps a line of text, and optionally the current time, onto each
// frame.
type Caption struct {
	Text       string
	Timestamp  bool
	TimeFormat string
	X, Y       int
	Size       float64
	Color      color.Color
}

func NewCaption(text string) *Caption {
	return &Caption{Text: text, X: 5, Y: 5, Size: videotext.DefaultSize, Color: color.White}
}

func (c *Caption) String() string {
	return fmt.Sprintf("Caption(%q)", c.Text)
}

func (c *Caption) line() string {
	if !c.Timestamp {
		return c.Text
	}
	format := c.TimeFormat
	if len(format) == 0 {
		format = DefaultCaptionTimeFormat
	}
	stamp := TimeNow().Format(format)
	if len(c.Text) == 0 {
		return stamp
	}
	return c.Text + " " + stamp
}

func (c *Caption) ProcessFrame(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	fg := c.Color
	if fg == nil {
		fg = color.White
	}
	return videotext.Draw(buf.RGBA(), c.X, c.Y, c.Size, fg, c.line())
}
