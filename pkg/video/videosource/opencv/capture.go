// Package opencv reads frames from video files, devices and network streams
// through OpenCV.
package opencv

import (
	"context"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// Capture is a frame source over a gocv.VideoCapture. It reads one frame
// ahead so it can report the end of a file before a tick is wasted on it.
type Capture struct {
	uuid string
	addr string

	mu      sync.Mutex
	vc      *gocv.VideoCapture
	next    gocv.Mat
	hasNext bool
	paused  bool
	closed  bool
}

type openResult struct {
	vc  *gocv.VideoCapture
	err error
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

// Open connects to addr, which may be a file path, device index or stream
// URL. Opening a network stream can hang, so it gives up when ctx is done.
func Open(ctx context.Context, addr string) (*Capture, error) {
	opened := make(chan openResult, 1)
	open := openVideoCapture
	go func() {
		vc, err := open(addr)
		opened <- openResult{vc: vc, err: err}
	}()

	select {
	case r := <-opened:
		if r.err != nil {
			return nil, xerror.Errorf("unable to open video capture %s: %w", addr, r.err)
		}
		c := &Capture{uuid: uuid.NewString(), addr: addr, vc: r.vc, next: gocv.NewMat()}
		c.prefetch()
		return c, nil
	case <-ctx.Done():
		go func() {
			if r := <-opened; r.vc != nil {
				r.vc.Close()
			}
		}()
		return nil, xerror.Errorf("opening video capture %s cancelled", addr)
	}
}

func (c *Capture) UUID() string {
	return c.uuid
}

func (c *Capture) prefetch() {
	c.hasNext = readFromVideoCapture(c.vc, &c.next) && !c.next.Empty()
}

func (c *Capture) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Capture) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Capture) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

func (c *Capture) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || !c.hasNext
}

// Capture converts the prefetched frame to RGBA at the buffer's size, then
// reads the following frame.
func (c *Capture) Capture(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.hasNext {
		return xerror.Errorf("video capture %s has no more frames", c.addr)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(c.next, &resized, image.Pt(buf.W, buf.H), 0, 0, gocv.InterpolationLinear)

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(resized, &rgba, gocv.ColorBGRToRGBA)

	data := rgba.ToBytes()
	if len(data) != len(buf.Pix) {
		return xerror.Errorf("converted frame holds %d bytes, expected %d", len(data), len(buf.Pix))
	}
	copy(buf.Pix, data)

	c.prefetch()
	return nil
}

func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.next.Close()
	return c.vc.Close()
}
