// pkg/registry/schema.go
package registry

// Intent is one of the closed set of query categories the classifier chooses from.
type Intent string

const (
	IntentGeneralConversation Intent = "general_conversation"
	IntentWalletOverview      Intent = "wallet_overview"
	IntentWalletComparison    Intent = "wallet_comparison"
	IntentCollectionStats     Intent = "collection_stats"
	IntentMarketTrending      Intent = "market_trending"
	IntentPortfolioAnalysis   Intent = "portfolio_analysis"
	IntentRiskAnalysis        Intent = "risk_analysis"
	IntentMarketInsights      Intent = "market_insights"
	IntentCollectionTraits    Intent = "collection_traits"
	IntentWhaleAnalysis       Intent = "whale_analysis"
	IntentNFTValuation        Intent = "nft_valuation"
)

// TemplateKind selects the synthesis prompt family for an intent.
type TemplateKind string

const (
	TemplateComparison     TemplateKind = "comparison"
	TemplateTrend          TemplateKind = "trend"
	TemplateRisk           TemplateKind = "risk"
	TemplateConversational TemplateKind = "conversational"
	TemplateDefault        TemplateKind = "default"
)

// IntentSpec describes one intent: how the classifier is told about it, which
// prompt template summarizes it and which entities it needs.
type IntentSpec struct {
	ID          Intent       `json:"id"`
	Description string       `json:"description"`
	Template    TemplateKind `json:"template"`
	Wallets     bool         `json:"wallets,omitempty"`
	Collections bool         `json:"collections,omitempty"`
	Token       bool         `json:"token,omitempty"`
}

// File is the on-disk override format accepted by LoadRegistry.
type File struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"lastUpdated"`
	Intents     []IntentSpec `json:"intents"`
}
