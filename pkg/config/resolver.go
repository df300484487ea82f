package config

import (
	"github.com/tauraamui/cinefilter/internal/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
