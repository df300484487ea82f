package config

import (
	"github.com/tauraamui/cinefilter/internal/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
