// internal/workers/query-routing/fetch-analytics/models.go
package fetchanalytics

import (
	"context"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/models"
)

type Input struct {
	Decision *models.Decision
	Query    models.Query
}

// DataSource is the subset of the analytics client the orchestrator calls.
type DataSource interface {
	WalletHealth(ctx context.Context, wallet string, p analytics.Params) (*analytics.Result, error)
	CollectionStats(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	CollectionWashtrade(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	CollectionTraits(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	CollectionWhales(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketWhales(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	TrendingCollections(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	TopCollections(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketAnalytics(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketHolders(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketTraders(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketScores(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	MarketplaceAnalytics(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	NFTValuation(ctx context.Context, contract, tokenID string, p analytics.Params) (*analytics.Result, error)
}

// Context annotations set on the FetchResult.
const (
	ViewSingleWallet = "single_wallet_detail"
	ViewComparison   = "comparison"
)
