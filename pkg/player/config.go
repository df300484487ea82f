package player

import (
	"reflect"
	"time"

	"github.com/tauraamui/cinefilter/pkg/filter"
	"github.com/tauraamui/cinefilter/pkg/video"
	"github.com/tauraamui/xerror"
)

const DefaultFrameDelay = 25 * time.Millisecond

// Config is everything a session needs. It is copied when the session is
// created, so only the filter chain can change once playback has begun.
// A zero FrameDelay runs ticks back to back; use NewConfig for the default.
type Config struct {
	FrameDelay  time.Duration
	Source      video.Source
	Destination video.Destination
	Filters     *filter.Chain
}

func NewConfig(source video.Source, destination video.Destination, filters ...filter.Filter) Config {
	return Config{
		FrameDelay:  DefaultFrameDelay,
		Source:      source,
		Destination: destination,
		Filters:     filter.NewChain(filters...),
	}
}

// Validate is the preflight check run by Play. Every error it returns
// matches ErrConfiguration.
func (c Config) Validate() error {
	if isNil(c.Source) {
		return configurationError("the source option must be a valid frame source")
	}
	if isNil(c.Destination) {
		return configurationError("the destination option must be a valid frame destination")
	}
	if c.FrameDelay < 0 {
		return configurationError("the frame delay must be a non-negative number, got %s", c.FrameDelay)
	}
	if d := c.Destination.Dimensions(); d.W <= 0 || d.H <= 0 {
		return configurationError("the destination must have positive dimensions, got %dx%d", d.W, d.H)
	}
	if c.Filters != nil {
		if err := c.Filters.Validate(); err != nil {
			return withKind(ErrConfiguration, err)
		}
	}
	return nil
}

func configurationError(format string, a ...interface{}) error {
	return xerror.Errorf("%w: "+format, append([]interface{}{ErrConfiguration}, a...)...)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
