// Package videosink holds the destinations processed frames are presented to.
package videosink

import (
	"sync"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

// Memory keeps the most recently presented frame. It exposes its own buffer
// as a capture surface.
type Memory struct {
	surface *videoframe.Buffer

	mu        sync.Mutex
	last      *videoframe.Buffer
	presented int
}

func NewMemory(d videoframe.Dimensions) *Memory {
	return &Memory{surface: videoframe.New(d)}
}

func (m *Memory) Dimensions() videoframe.Dimensions {
	return m.surface.Dimensions
}

func (m *Memory) Surface() *videoframe.Buffer {
	return m.surface
}

func (m *Memory) Present(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = buf.Clone()
	m.presented++
	return nil
}

// Frame returns a copy of the last presented frame, or nil.
func (m *Memory) Frame() *videoframe.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	return m.last.Clone()
}

func (m *Memory) Presented() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented
}
