// internal/workers/query-routing/fallback-response/config.go
package fallbackresponse

import "time"

type Config struct {
	ClosingSentence string
	ExcerptChars    int
	Timeout         time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ClosingSentence: "Stay safe in the NFT market!",
		ExcerptChars:    200,
		Timeout:         15 * time.Second,
	}
}
