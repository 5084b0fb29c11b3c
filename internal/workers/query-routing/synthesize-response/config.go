// internal/workers/query-routing/synthesize-response/config.go
package synthesizeresponse

import "time"

const DefaultClosingSentence = "Stay safe in the NFT market!"

type Config struct {
	ClosingSentence string
	Timeout         time.Duration
	// MaxDataChars bounds the serialized data embedded in a prompt.
	MaxDataChars int
}

func LoadConfig() *Config {
	return &Config{
		ClosingSentence: DefaultClosingSentence,
		Timeout:         60 * time.Second,
		MaxDataChars:    12000,
	}
}
