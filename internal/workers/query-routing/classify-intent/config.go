// internal/workers/query-routing/classify-intent/config.go
package classifyintent

import "time"

type Config struct {
	Timeout time.Duration
	// MaxScan bounds how much of a reply the JSON extractor reads.
	MaxScan int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
		MaxScan: 64 * 1024,
	}
}
