// internal/clients/analytics/endpoints.go
package analytics

// endpoint describes one provider operation: its path and the defaults the
// provider expects when the caller leaves a parameter unset.
type endpoint struct {
	path      string
	sortBy    string
	timeRange string
	// noChain omits blockchain/time_range (wallet profile, marketplace metadata, chain list).
	noChain bool
	// collectionKey is the parameter a non-0x collection id is sent as.
	collectionKey string
}

var (
	epWalletHealth    = endpoint{path: "nft/wallet/scores", sortBy: "portfolio_value", timeRange: "all"}
	epWalletAnalytics = endpoint{path: "nft/wallet/analytics", sortBy: "volume"}
	epWalletScores    = endpoint{path: "nft/wallet/scores", sortBy: "portfolio_value"}
	epWalletTraders   = endpoint{path: "nft/wallet/traders", sortBy: "traders"}
	epWalletWashtrade = endpoint{path: "nft/wallet/washtrade", sortBy: "washtrade_volume"}
	epWalletProfile   = endpoint{path: "nft/wallet/profile", noChain: true}

	epCollectionStats      = endpoint{path: "nft/collection/analytics", sortBy: "sales", timeRange: "all", collectionKey: "slug_name"}
	epCollectionAnalytics  = endpoint{path: "nft/collection/analytics", sortBy: "sales", collectionKey: "slug_name"}
	epCollectionHolders    = endpoint{path: "nft/collection/holders", sortBy: "holders", collectionKey: "slug_name"}
	epCollectionTraders    = endpoint{path: "nft/collection/traders", sortBy: "traders", collectionKey: "slug_name"}
	epCollectionScores     = endpoint{path: "nft/collection/scores", sortBy: "marketcap", collectionKey: "slug_name"}
	epCollectionWhales     = endpoint{path: "nft/collection/whales", sortBy: "nft_count", collectionKey: "slug_name"}
	epCollectionWashtrade  = endpoint{path: "nft/collection/washtrade", sortBy: "washtrade_volume", collectionKey: "slug_name"}
	epCollectionProfile    = endpoint{path: "nft/collection/profile", sortBy: "washtrade_index", collectionKey: "slug_name"}
	epCollectionTraits     = endpoint{path: "nft/collection/traits", sortBy: "trait_type", timeRange: "all", collectionKey: "collection"}
	epCollectionMetadata   = endpoint{path: "nft/collection/metadata", timeRange: "all", collectionKey: "slug_name"}
	epCollectionCategories = endpoint{path: "nft/collection/categories", sortBy: "volume", timeRange: "all"}
	epCollectionOwners     = endpoint{path: "nft/collection/owner", sortBy: "acquired_date", timeRange: "all", collectionKey: "collection"}

	epMarketAnalytics = endpoint{path: "nft/market-insights/analytics"}
	epMarketHolders   = endpoint{path: "nft/market-insights/holders"}
	epMarketTraders   = endpoint{path: "nft/market-insights/traders"}
	epMarketScores    = endpoint{path: "nft/market-insights/scores"}
	epMarketWashtrade = endpoint{path: "nft/market-insights/washtrade"}

	epMarketplaceAnalytics = endpoint{path: "nft/marketplace/analytics", sortBy: "volume"}
	epMarketplaceHolders   = endpoint{path: "nft/marketplace/holders", sortBy: "holders"}
	epMarketplaceTraders   = endpoint{path: "nft/marketplace/traders", sortBy: "traders"}
	epMarketplaceWashtrade = endpoint{path: "nft/marketplace/washtrade", sortBy: "washtrade_volume"}
	epMarketplaceMetadata  = endpoint{path: "nft/marketplace/metadata", noChain: true}

	epNFTValuation = endpoint{path: "nft/liquify/price_estimate"}
	epNFTMetadata  = endpoint{path: "nft/metadata", timeRange: "all", collectionKey: "slug_name"}
	epNFTOwner     = endpoint{path: "nft/owner", sortBy: "acquired_date", timeRange: "all"}

	epBlockchains = endpoint{path: "blockchains", noChain: true}
)
