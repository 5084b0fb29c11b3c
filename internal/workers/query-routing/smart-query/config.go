// internal/workers/query-routing/smart-query/config.go
package smartquery

import (
	"time"

	"nft-query-router/internal/common/config"
)

type Config struct {
	// Timeout bounds one zeebe job; HTTP requests use the caller's context.
	Timeout         time.Duration
	MaxWallets      int
	MaxCollections  int
	ClosingSentence string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         2 * time.Minute,
		MaxWallets:      3,
		MaxCollections:  3,
		ClosingSentence: config.DefaultClosingSentence,
	}
}

// FromAppConfig derives the pipeline settings from the service configuration.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if cfg.Camunda.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Camunda.Timeout)
	}
	c.MaxWallets = cfg.Pipeline.MaxWallets
	c.MaxCollections = cfg.Pipeline.MaxCollections
	if cfg.Pipeline.ClosingSentence != "" {
		c.ClosingSentence = cfg.Pipeline.ClosingSentence
	}
	return c
}
