package player_test

import (
	"errors"
	"sync"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

// mockSource yields limit frames, each filled with its own frame number in
// every colour channel. A negative limit never ends.
type mockSource struct {
	mu         sync.Mutex
	limit      int
	captured   int
	paused     bool
	captureErr error
	buffers    []*videoframe.Buffer
}

func (m *mockSource) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *mockSource) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit >= 0 && m.captured >= m.limit
}

func (m *mockSource) Capture(buf *videoframe.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.captureErr != nil {
		return m.captureErr
	}
	m.captured++
	m.buffers = append(m.buffers, buf)
	for i := 0; i < len(buf.Pix); i += videoframe.Channels {
		v := uint8(m.captured)
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = v, v, v, 255
	}
	return nil
}

func (m *mockSource) capturedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captured
}

func (m *mockSource) setPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

type mockDestination struct {
	mu         sync.Mutex
	dimensions videoframe.Dimensions
	presented  []*videoframe.Buffer
	presentErr error
	onPresent  func()
}

func (m *mockDestination) Dimensions() videoframe.Dimensions {
	return m.dimensions
}

func (m *mockDestination) Present(buf *videoframe.Buffer) error {
	m.mu.Lock()
	if m.presentErr != nil {
		m.mu.Unlock()
		return m.presentErr
	}
	m.presented = append(m.presented, buf.Clone())
	onPresent := m.onPresent
	m.mu.Unlock()
	if onPresent != nil {
		onPresent()
	}
	return nil
}

func (m *mockDestination) frames() []*videoframe.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*videoframe.Buffer{}, m.presented...)
}

// mockSurface exposes its own buffer for capture.
type mockSurface struct {
	mockDestination
	surface *videoframe.Buffer
}

func newMockSurface(d videoframe.Dimensions) *mockSurface {
	return &mockSurface{
		mockDestination: mockDestination{dimensions: d},
		surface:         videoframe.New(d),
	}
}

func (m *mockSurface) Surface() *videoframe.Buffer {
	return m.surface
}

var errMockFailure = errors.New("mock failure")
