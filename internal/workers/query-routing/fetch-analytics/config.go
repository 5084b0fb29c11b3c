// internal/workers/query-routing/fetch-analytics/config.go
package fetchanalytics

const (
	MaxWallets        = 3
	MaxCollectionsCap = 5
)

type Config struct {
	MaxWallets     int
	MaxCollections int
}

func LoadConfig() *Config {
	return &Config{
		MaxWallets:     3,
		MaxCollections: 3,
	}
}

func (c *Config) walletCap() int {
	if c.MaxWallets <= 0 || c.MaxWallets > MaxWallets {
		return MaxWallets
	}
	return c.MaxWallets
}

func (c *Config) collectionCap() int {
	switch {
	case c.MaxCollections <= 0:
		return 3
	case c.MaxCollections > MaxCollectionsCap:
		return MaxCollectionsCap
	}
	return c.MaxCollections
}
