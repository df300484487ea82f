package cine

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tauraamui/cinefilter/pkg/configdef"
	"github.com/tauraamui/cinefilter/pkg/filter"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/cinefilter/pkg/player"
	"github.com/tauraamui/cinefilter/pkg/video"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/cinefilter/pkg/video/videosink"
	sinkopencv "github.com/tauraamui/cinefilter/pkg/video/videosink/opencv"
	"github.com/tauraamui/cinefilter/pkg/video/videosource"
	"github.com/tauraamui/cinefilter/pkg/video/videostorage"
	sourceopencv "github.com/tauraamui/cinefilter/pkg/video/videosource/opencv"
	"github.com/tauraamui/xerror"
)

const viewerPathPrefix = "/streams/"

var openCapture = func(ctx context.Context, addr string) (video.Source, error) {
	c, err := sourceopencv.Open(ctx, addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type stream struct {
	title   string
	path    string
	viewer  http.Handler
	session *player.Session
	closers []video.Closer
}

// ViewerPath is the escaped URL path serving the frames of a websocket
// destination stream.
func ViewerPath(title string) string {
	return viewerPathPrefix + url.PathEscape(title)
}

func buildStream(ctx context.Context, def configdef.Stream) (*stream, error) {
	chain, err := filter.BuildChain(def.FilterSpecs()...)
	if err != nil {
		return nil, xerror.Errorf("unable to build filters for stream [%s]: %w", def.Title, err)
	}

	delay := time.Duration(def.FrameDelayMS) * time.Millisecond
	st := &stream{title: def.Title}

	src, err := buildSource(ctx, def)
	if err != nil {
		return nil, xerror.Errorf("unable to open source for stream [%s]: %w", def.Title, err)
	}
	st.track(src)

	dest, err := buildDestination(def, delay)
	if err != nil {
		st.close()
		return nil, xerror.Errorf("unable to open destination for stream [%s]: %w", def.Title, err)
	}
	st.track(dest)

	if ws, ok := dest.(*videosink.WebSocket); ok {
		st.path = viewerPathPrefix + def.Title
		st.viewer = ws
	}

	st.session = player.New(player.Config{
		FrameDelay:  delay,
		Source:      src,
		Destination: dest,
		Filters:     chain,
	})
	return st, nil
}

func buildSource(ctx context.Context, def configdef.Stream) (video.Source, error) {
	switch def.Source.Type {
	case configdef.SourceTestPattern:
		return videosource.NewTestPattern(def.Title, def.Source.Limit), nil
	case configdef.SourceImage:
		return videosource.NewStill(def.Source.Path), nil
	case configdef.SourceSequence:
		return videosource.NewSequenceFromDir(def.Source.Path, def.Source.Loop)
	case configdef.SourceOpenCV:
		return openCapture(ctx, def.Source.Addr)
	}
	return nil, xerror.Errorf("unknown source type %q", def.Source.Type)
}

func buildDestination(def configdef.Stream, delay time.Duration) (video.Destination, error) {
	d := videoframe.Dimensions{W: def.Destination.Width, H: def.Destination.Height}
	switch def.Destination.Type {
	case configdef.DestinationMemory:
		return videosink.NewMemory(d), nil
	case configdef.DestinationPNGDir:
		return videosink.NewPNGDir(def.Destination.Path, def.Destination.Prefix, d), nil
	case configdef.DestinationWebSocket:
		return videosink.NewWebSocket(d), nil
	case configdef.DestinationVideoFile:
		return sinkopencv.NewWriter(def.Destination.Path, sinkopencv.FPSForDelay(delay), d), nil
	case configdef.DestinationSQLite:
		return videostorage.NewArchive(def.Destination.Path, def.Title, d)
	}
	return nil, xerror.Errorf("unknown destination type %q", def.Destination.Type)
}

func (st *stream) track(v interface{}) {
	if c, ok := v.(video.Closer); ok {
		st.closers = append(st.closers, c)
	}
}

func (st *stream) close() {
	if st.session != nil {
		st.session.Stop()
		if err := st.session.Wait(); err != nil {
			log.Error("Stream [%s] ended with error: %v", st.title, err)
		}
	}
	for _, c := range st.closers {
		if err := c.Close(); err != nil {
			log.Error("Unable to close stream [%s]: %v", st.title, err)
		}
	}
}
