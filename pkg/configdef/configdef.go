package configdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tauraamui/cinefilter/pkg/filter"
	"gopkg.in/dealancer/validate.v2"
)

const (
	DefaultFrameDelayMS = 25
	DefaultWidth        = 640
	DefaultHeight       = 480
)

const (
	SourceTestPattern = "test_pattern"
	SourceImage       = "image"
	SourceSequence    = "sequence"
	SourceOpenCV      = "opencv"
)

const (
	DestinationMemory    = "memory"
	DestinationPNGDir    = "png_dir"
	DestinationWebSocket = "websocket"
	DestinationVideoFile = "video_file"
	DestinationSQLite    = "sqlite"
)

type SourceDef struct {
	Type  string `json:"type" validate:"one_of=test_pattern,image,sequence,opencv"`
	Path  string `json:"path"`
	Addr  string `json:"address"`
	Loop  bool   `json:"loop"`
	Limit int    `json:"limit" validate:"gte=0"`
}

type DestinationDef struct {
	Type   string `json:"type" validate:"one_of=memory,png_dir,websocket,video_file,sqlite"`
	Width  int    `json:"width" validate:"gte=1"`
	Height int    `json:"height" validate:"gte=1"`
	Path   string `json:"path"`
	Prefix string `json:"prefix"`
}

func (d *DestinationDef) UnmarshalJSON(data []byte) error {
	type rawDestination DestinationDef
	raw := rawDestination{Width: DefaultWidth, Height: DefaultHeight}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = DestinationDef(raw)
	return nil
}

type FilterDef struct {
	Name   string             `json:"name" validate:"empty=false"`
	Params map[string]float64 `json:"params"`
	Text   string             `json:"text"`
}

func (f FilterDef) Spec() filter.Spec {
	return filter.Spec{Name: f.Name, Params: filter.Params(f.Params), Text: f.Text}
}

type Stream struct {
	Title        string         `json:"title" validate:"empty=false"`
	Disabled     bool           `json:"disabled"`
	FrameDelayMS int            `json:"frame_delay_ms" validate:"gte=0 & lte=60000"`
	Source       SourceDef      `json:"source"`
	Destination  DestinationDef `json:"destination"`
	Filters      []FilterDef    `json:"filters"`
}

func (s *Stream) UnmarshalJSON(data []byte) error {
	type rawStream Stream
	raw := rawStream{
		FrameDelayMS: DefaultFrameDelayMS,
		Destination:  DestinationDef{Width: DefaultWidth, Height: DefaultHeight},
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Stream(raw)
	return nil
}

func (s Stream) FilterSpecs() []filter.Spec {
	specs := make([]filter.Spec, 0, len(s.Filters))
	for _, f := range s.Filters {
		specs = append(specs, f.Spec())
	}
	return specs
}

type Values struct {
	Debug   bool     `json:"debug"`
	Secret  string   `json:"secret"`
	Listen  string   `json:"listen"`
	Streams []Stream `json:"streams"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupStreamTitles(v.Streams) {
		return fmt.Errorf(validationErrorHeader, errors.New("stream titles must be unique"))
	}
	for _, s := range v.Streams {
		if err := s.validateSource(); err != nil {
			return fmt.Errorf(validationErrorHeader, err)
		}
		if err := s.validateDestination(); err != nil {
			return fmt.Errorf(validationErrorHeader, err)
		}
		for _, f := range s.Filters {
			if !filter.Registered(f.Name) {
				return fmt.Errorf(validationErrorHeader, fmt.Errorf(
					"stream %q uses unknown filter %q, expected one of: %s",
					s.Title, f.Name, strings.Join(filter.Names(), ", "),
				))
			}
		}
	}
	return nil
}

func (s Stream) validateSource() error {
	switch s.Source.Type {
	case SourceImage, SourceSequence:
		if len(s.Source.Path) == 0 {
			return fmt.Errorf("stream %q %s source requires a path", s.Title, s.Source.Type)
		}
	case SourceOpenCV:
		if len(s.Source.Addr) == 0 {
			return fmt.Errorf("stream %q opencv source requires an address", s.Title)
		}
	}
	return nil
}

func (s Stream) validateDestination() error {
	switch s.Destination.Type {
	case DestinationPNGDir, DestinationVideoFile, DestinationSQLite:
		if len(s.Destination.Path) == 0 {
			return fmt.Errorf("stream %q %s destination requires a path", s.Title, s.Destination.Type)
		}
	}
	return nil
}

func hasDupStreamTitles(streams []Stream) (hasDup bool) {
	hasDup = false
	if len(streams) == 0 {
		return
	}

	for si, stream := range streams {
		for i := si; i < len(streams); i++ {
			if i == si {
				continue
			}
			if stream.Title == streams[i].Title {
				hasDup = true
				return
			}
		}
	}
	return
}
