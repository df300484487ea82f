package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/cinefilter/pkg/filter"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/cinefilter/pkg/video"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type State int

const (
	Idle State = iota
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type Stats struct {
	Frames  uint64
	Elapsed time.Duration
	FPS     float64
}

var TimeNow = func() time.Time {
	return time.Now()
}

var timeAfter = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Session drives a single source through the filter chain into a
// destination, one frame at a time, until the source pauses or ends, the
// session is stopped or a tick fails. A stopped session cannot be replayed.
type Session struct {
	uuid   string
	config Config

	mu       sync.Mutex
	state    State
	frames   uint64
	started  time.Time
	ended    time.Time
	err      error
	cancel   context.CancelFunc
	stopping chan interface{}

	// only touched by the run loop
	intermediate *videoframe.Buffer
}

func New(config Config) *Session {
	if config.Filters == nil {
		config.Filters = filter.NewChain()
	}
	return &Session{
		uuid:     uuid.NewString(),
		config:   config,
		stopping: make(chan interface{}),
	}
}

func (s *Session) UUID() string {
	return s.uuid
}

// Filters returns the session's chain. Changes to it take effect from the
// next frame.
func (s *Session) Filters() *filter.Chain {
	return s.config.Filters
}

func (s *Session) FrameDelay() time.Duration {
	return s.config.FrameDelay
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Play validates the session's config and starts the frame loop in the
// background. A configuration error leaves the session idle.
func (s *Session) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return ErrAlreadyStarted
	}
	if err := s.config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = Playing
	s.started = TimeNow()

	log.Info("Starting playback session [%s] with %d filter(s)...", s.uuid, s.config.Filters.Len())
	go s.run(ctx)
	return nil
}

// Stop ends the session. A session which was never played moves straight
// to stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Idle:
		s.state = Stopped
		close(s.stopping)
	case Playing:
		s.cancel()
	}
}

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan interface{} {
	return s.stopping
}

// Wait blocks until the session has stopped and returns the error which
// ended it, if any.
func (s *Session) Wait() error {
	<-s.stopping
	return s.Err()
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Frames: s.frames}
	if s.started.IsZero() {
		return stats
	}
	end := s.ended
	if end.IsZero() {
		end = TimeNow()
	}
	stats.Elapsed = end.Sub(s.started)
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		stats.FPS = float64(stats.Frames) / secs
	}
	return stats
}

func (s *Session) run(ctx context.Context) {
	defer close(s.stopping)

	for {
		if ctx.Err() != nil || !s.sourceActive() {
			s.finish(nil)
			return
		}

		if err := s.tick(); err != nil {
			s.finish(withKind(ErrProcessing, err))
			return
		}

		select {
		case <-ctx.Done():
			s.finish(nil)
			return
		case <-timeAfter(s.config.FrameDelay):
		}
	}
}

func (s *Session) sourceActive() bool {
	src := s.config.Source
	return !src.Paused() && !src.Ended()
}

func (s *Session) tick() error {
	src, dest := s.config.Source, s.config.Destination

	if s.config.Filters.Len() == 0 {
		if surface, ok := dest.(video.Surface); ok {
			buf := surface.Surface()
			if err := src.Capture(buf); err != nil {
				return xerror.Errorf("unable to capture frame: %w", err)
			}
			return s.present(buf)
		}
	}

	buf := s.buffer(dest.Dimensions())
	if err := src.Capture(buf); err != nil {
		return xerror.Errorf("unable to capture frame: %w", err)
	}
	if err := s.config.Filters.Apply(buf); err != nil {
		return err
	}
	return s.present(buf)
}

func (s *Session) present(buf *videoframe.Buffer) error {
	if err := s.config.Destination.Present(buf); err != nil {
		return xerror.Errorf("unable to present frame: %w", err)
	}
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
	return nil
}

func (s *Session) buffer(d videoframe.Dimensions) *videoframe.Buffer {
	if s.intermediate == nil || s.intermediate.Dimensions != d {
		s.intermediate = videoframe.New(d)
	}
	return s.intermediate
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	s.state = Stopped
	s.err = err
	s.ended = TimeNow()
	s.cancel()
	s.mu.Unlock()

	if err != nil {
		log.Error("Playback session [%s] failed: %v", s.uuid, err)
	}
	stats := s.Stats()
	log.Info("Playback session [%s] stopped after %d frames (%.2f fps)", s.uuid, stats.Frames, stats.FPS)
}
