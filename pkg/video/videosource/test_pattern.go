package videosource

import (
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/cinefilter/pkg/video/videotext"
)

const TimestampFormat = "2006-01-02 15:04:05.000"

var TimeNow = func() time.Time {
	return time.Now()
}

// TestPattern renders three overlapping primary circles with the stream
// title and the current time written over them. A limit of zero or less
// never ends.
type TestPattern struct {
	playback
	title string
	limit int

	frameMu  sync.Mutex
	rendered int
	base     *videoframe.Buffer
}

func NewTestPattern(title string, limit int) *TestPattern {
	return &TestPattern{title: title, limit: limit}
}

func (t *TestPattern) Ended() bool {
	if t.isStopped() {
		return true
	}
	t.frameMu.Lock()
	defer t.frameMu.Unlock()
	return t.limit > 0 && t.rendered >= t.limit
}

func (t *TestPattern) Rendered() int {
	t.frameMu.Lock()
	defer t.frameMu.Unlock()
	return t.rendered
}

func (t *TestPattern) Capture(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	t.frameMu.Lock()
	defer t.frameMu.Unlock()

	if t.base == nil || t.base.Dimensions != buf.Dimensions {
		t.base = renderCircles(buf.Dimensions)
	}
	copy(buf.Pix, t.base.Pix)

	size := float64(buf.H) / 8
	canvas := buf.RGBA()
	if err := videotext.Draw(canvas, 5, 5, size, color.White, t.title); err != nil {
		return err
	}
	stamp := TimeNow().Format(TimestampFormat)
	if err := videotext.Draw(canvas, 5, 5+int(size*1.5), size, color.White, stamp); err != nil {
		return err
	}

	t.rendered++
	return nil
}

func renderCircles(d videoframe.Dimensions) *videoframe.Buffer {
	buf := videoframe.New(d)
	hw, hh := float64(d.W)/2, float64(d.H)/2
	short := math.Min(float64(d.W), float64(d.H))
	r := short / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), short * 0.75}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), short * 0.75}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), short * 0.75}

	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			o := buf.Offset(x, y)
			fx, fy := float64(x), float64(y)
			buf.Pix[o+0] = cr.Brightness(fx, fy)
			buf.Pix[o+1] = cg.Brightness(fx, fy)
			buf.Pix[o+2] = cb.Brightness(fx, fy)
			buf.Pix[o+3] = 255
		}
	}
	return buf
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
