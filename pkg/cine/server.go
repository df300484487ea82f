// Package cine runs one playback session per configured stream.
package cine

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tauraamui/cinefilter/pkg/configdef"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/cinefilter/pkg/player"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config       configdef.Values
	ctx          context.Context
	cancel       context.CancelFunc
	mux          *http.ServeMux
	httpServer   *http.Server
	shutdownOnce sync.Once
	shutdownDone chan interface{}
	mu           sync.Mutex
	streams      []*stream
}

func NewServer(cr configdef.Resolver) (*Server, error) {
	config, err := cr.Resolve()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:       config,
		ctx:          ctx,
		cancel:       cancel,
		mux:          http.NewServeMux(),
		shutdownDone: make(chan interface{}),
	}, nil
}

func (s *Server) Connect() []error {
	return s.connect(context.Background())
}

func (s *Server) ConnectWithCancel(cancel context.Context) []error {
	return s.connect(cancel)
}

func (s *Server) connect(cancel context.Context) []error {
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, def := range s.config.Streams {
		select {
		case <-cancel.Done():
			return errs
		default:
			if def.Disabled {
				log.Warn("Stream [%s] is disabled... skipping...", def.Title)
				continue
			}

			log.Info("Setting up stream: [%s]...", def.Title)
			st, err := buildStream(cancel, def)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if len(st.path) > 0 {
				s.mux.Handle(st.path, s.guard(st.title, st.viewer))
				log.Info("Stream [%s] viewable at: %s", st.title, ViewerPath(st.title))
			}
			s.streams = append(s.streams, st)
		}
	}
	return errs
}

// RunStreams starts playback of every connected stream.
func (s *Server) RunStreams() []error {
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.streams {
		if err := st.session.Play(s.ctx); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info("Playing stream [%s] with %d filters", st.title, st.session.Filters().Len())
	}
	return errs
}

// Handler serves the viewer endpoints of every websocket destination.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens on the configured address until Shutdown. It returns
// straight away when no stream can be viewed.
func (s *Server) Serve() error {
	s.mu.Lock()
	viewable := false
	for _, st := range s.streams {
		if st.viewer != nil {
			viewable = true
			break
		}
	}
	if !viewable || len(s.config.Listen) == 0 || s.ctx.Err() != nil {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{Addr: s.config.Listen, Handler: s.mux}
	srv := s.httpServer
	s.mu.Unlock()

	log.Info("Serving stream viewers on: %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Streams() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.streams))
	for _, st := range s.streams {
		titles = append(titles, st.title)
	}
	return titles
}

func (s *Server) Session(title string) *player.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.streams {
		if st.title == title {
			return st.session
		}
	}
	return nil
}

func (s *Server) shutdown() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error("Unable to stop serving stream viewers: %v", err)
		}
		cancel()
	}

	wg := sync.WaitGroup{}
	wg.Add(len(s.streams))
	for _, st := range s.streams {
		go func(wg *sync.WaitGroup, st *stream) {
			defer wg.Done()
			log.Warn("Closing stream: [%s]...", st.title)
			st.close()
		}(&wg, st)
	}
	wg.Wait()
	close(s.shutdownDone)
}

func (s *Server) Shutdown() chan interface{} {
	s.shutdownOnce.Do(s.shutdown)
	return s.shutdownDone
}
