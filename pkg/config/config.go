// Package config exposes resolving, creating and removing the stream
// configuration file.
package config

import (
	"github.com/tauraamui/cinefilter/internal/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
