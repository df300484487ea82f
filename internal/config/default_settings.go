package config

import "github.com/tauraamui/cinefilter/pkg/configdef"

type defaultSettingKey uint

const (
	STREAMS defaultSettingKey = 0x0
	LISTEN  defaultSettingKey = 0x1
)

var defaultSettings = map[defaultSettingKey]interface{}{
	STREAMS: []configdef.Stream{testPatternStream},
	LISTEN:  ":8080",
}

var testPatternStream = configdef.Stream{
	Title:        "Test Pattern",
	FrameDelayMS: configdef.DefaultFrameDelayMS,
	Source:       configdef.SourceDef{Type: configdef.SourceTestPattern},
	Destination: configdef.DestinationDef{
		Type:   configdef.DestinationWebSocket,
		Width:  configdef.DefaultWidth,
		Height: configdef.DefaultHeight,
	},
	Filters: []configdef.FilterDef{
		{Name: "caption", Params: map[string]float64{"timestamp": 1}, Text: "Test Pattern"},
	},
}
