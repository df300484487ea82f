package config

import (
	"github.com/tauraamui/cinefilter/internal/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
