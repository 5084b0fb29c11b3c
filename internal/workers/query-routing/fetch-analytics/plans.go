// internal/workers/query-routing/fetch-analytics/plans.go
package fetchanalytics

import (
	"context"
	"fmt"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

// plan fetches the data for one intent into r.
type plan func(ctx context.Context, h *Handler, in *Input, r *models.FetchResult)

var plans = map[registry.Intent]plan{
	registry.IntentGeneralConversation: planConversation,
	registry.IntentWalletOverview:      planWalletOverview,
	registry.IntentWalletComparison:    planWalletComparison,
	registry.IntentCollectionStats:     planCollectionStats,
	registry.IntentMarketTrending:      planMarketTrending,
	registry.IntentMarketInsights:      planMarketInsights,
	registry.IntentPortfolioAnalysis:   planPortfolio,
	registry.IntentRiskAnalysis:        planRisk,
	registry.IntentCollectionTraits:    planCollectionTraits,
	registry.IntentWhaleAnalysis:       planWhales,
	registry.IntentNFTValuation:        planValuation,
}

func planConversation(_ context.Context, _ *Handler, in *Input, r *models.FetchResult) {
	s := in.Query.Summary()
	r.Annotate("wallet_count", s.WalletCount())
	r.Annotate("collection_count", s.CollectionCount())
}

func planWalletOverview(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	wallet := firstNonEmpty(in.Decision.TargetWallet, in.Query.FirstWallet())
	if wallet == "" {
		r.Precondition = "wallet_overview needs a wallet address"
		return
	}
	r.DataSource = wallet
	h.walletHealth(ctx, r, wallet, "Wallet 1")
}

func planWalletComparison(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	wallets := h.wallets(in)
	switch len(wallets) {
	case 0:
		r.Precondition = "wallet_comparison needs at least one wallet address"
		return
	case 1:
		r.Annotate("view", ViewSingleWallet)
	default:
		r.Annotate("view", ViewComparison)
	}
	r.DataSource = wallets[0]
	r.Annotate("wallets_compared", len(wallets))
	for i, w := range wallets {
		h.walletHealth(ctx, r, w, fmt.Sprintf("Wallet %d", i+1))
	}
}

func planPortfolio(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	wallets := h.wallets(in)
	if len(wallets) == 0 {
		r.Precondition = "portfolio_analysis needs at least one wallet address"
		return
	}
	r.DataSource = wallets[0]
	r.Annotate("wallets_analyzed", len(wallets))
	for i, w := range wallets {
		h.walletHealth(ctx, r, w, fmt.Sprintf("Wallet %d", i+1))
	}
}

func planCollectionStats(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	collection := firstNonEmpty(in.Decision.TargetCollection, in.Query.FirstCollection())
	if collection == "" {
		r.Precondition = "collection_stats needs a collection"
		return
	}
	r.DataSource = collection
	h.fetchEntity(ctx, r, models.CategoryCollectionStats, collection, "Collection 1", func(ctx context.Context) (*analytics.Result, error) {
		return h.source.CollectionStats(ctx, analytics.ForCollection(collection))
	})
}

func planMarketTrending(ctx context.Context, h *Handler, _ *Input, r *models.FetchResult) {
	r.DataSource = "market"
	h.fetchMarket(ctx, r, models.CategoryTrending, h.source.TrendingCollections)
	h.fetchMarket(ctx, r, models.CategoryTopCollections, h.source.TopCollections)
	h.fetchMarket(ctx, r, models.CategoryMarketAnalytics, h.source.MarketAnalytics)
}

func planMarketInsights(ctx context.Context, h *Handler, _ *Input, r *models.FetchResult) {
	r.DataSource = "market"
	h.fetchMarket(ctx, r, models.CategoryMarketplaceRanks, h.source.MarketplaceAnalytics)
	h.fetchMarket(ctx, r, models.CategoryMarketAnalytics, h.source.MarketAnalytics)
	h.fetchMarket(ctx, r, models.CategoryHolderInsights, h.source.MarketHolders)
	h.fetchMarket(ctx, r, models.CategoryTraderInsights, h.source.MarketTraders)
	h.fetchMarket(ctx, r, models.CategoryMarketScores, h.source.MarketScores)
}

func planRisk(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	wallets := h.wallets(in)
	collections := h.collections(in)
	if len(wallets) == 0 && len(collections) == 0 {
		r.Precondition = "risk_analysis needs a wallet or a collection"
		return
	}
	r.DataSource = firstNonEmpty(first(wallets), first(collections))
	r.Annotate("wallets_assessed", len(wallets))
	r.Annotate("collections_assessed", len(collections))

	for i, w := range wallets {
		h.walletHealth(ctx, r, w, fmt.Sprintf("Wallet %d", i+1))
	}
	for i, c := range collections {
		c := c
		label := fmt.Sprintf("Collection %d", i+1)
		h.fetchEntity(ctx, r, models.CategoryRiskScore, c, label, func(ctx context.Context) (*analytics.Result, error) {
			return h.source.CollectionWashtrade(ctx, analytics.ForCollection(c))
		})
		h.fetchEntity(ctx, r, models.CategoryCollectionStats, c, label, func(ctx context.Context) (*analytics.Result, error) {
			return h.source.CollectionStats(ctx, analytics.ForCollection(c))
		})
	}
}

func planCollectionTraits(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	collections := h.collections(in)
	if len(collections) == 0 {
		r.Precondition = "collection_traits needs a watched collection"
		return
	}
	r.DataSource = collections[0]
	for i, c := range collections {
		c := c
		h.fetchEntity(ctx, r, models.CategoryCollectionTraits, c, fmt.Sprintf("Collection %d", i+1), func(ctx context.Context) (*analytics.Result, error) {
			return h.source.CollectionTraits(ctx, analytics.ForCollection(c))
		})
	}
}

func planWhales(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	collections := h.collections(in)
	if len(collections) == 0 {
		r.DataSource = "market"
		h.fetchMarket(ctx, r, models.CategoryMarketWhales, h.source.MarketWhales)
		return
	}
	r.DataSource = collections[0]
	for i, c := range collections {
		c := c
		h.fetchEntity(ctx, r, models.CategoryCollectionWhales, c, fmt.Sprintf("Collection %d", i+1), func(ctx context.Context) (*analytics.Result, error) {
			return h.source.CollectionWhales(ctx, analytics.ForCollection(c))
		})
	}
}

func planValuation(ctx context.Context, h *Handler, in *Input, r *models.FetchResult) {
	collection := firstNonEmpty(in.Decision.TargetCollection, in.Query.FirstCollection())
	token := firstNonEmpty(in.Decision.TargetToken, in.Query.TokenID)
	if collection == "" || token == "" {
		r.Precondition = "nft_valuation needs both a collection and a token id"
		return
	}
	r.DataSource = collection
	r.Annotate("token_id", token)
	h.fetchEntity(ctx, r, models.CategoryNFTValuation, collection, "Token "+token, func(ctx context.Context) (*analytics.Result, error) {
		return h.source.NFTValuation(ctx, collection, token, analytics.Params{})
	})
}

func first(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
