// Package videosource holds the frame sources which need nothing beyond Go
// itself: a synthetic test pattern and still images read from disk.
package videosource

import (
	"image"
	"sync"

	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"golang.org/x/image/draw"
)

var fs = afero.NewOsFs()

// playback tracks the paused and stopped flags every source here shares.
type playback struct {
	mu      sync.Mutex
	paused  bool
	stopped bool
}

func (p *playback) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *playback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

func (p *playback) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
}

// Stop ends the source. Sessions reading from it stop at their next tick.
func (p *playback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}

func (p *playback) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// scaleInto resamples img over the whole of buf.
func scaleInto(buf *videoframe.Buffer, img image.Image) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	dst := buf.RGBA()
	if img.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		return nil
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return nil
}
