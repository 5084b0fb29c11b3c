// internal/models/fetch.go
package models

import "nft-query-router/pkg/registry"

// EntryStatus marks whether a fetch produced records, produced nothing, or failed.
type EntryStatus string

const (
	StatusOK    EntryStatus = "ok"
	StatusEmpty EntryStatus = "empty"
	StatusError EntryStatus = "error"
)

// Data categories emitted by the orchestrator.
const (
	CategoryWalletHealth      = "wallet_health"
	CategoryRiskScore         = "risk_score"
	CategoryCollectionStats   = "collection_stats"
	CategoryCollectionTraits  = "collection_traits"
	CategoryCollectionWhales  = "collection_whales"
	CategoryMarketWhales      = "market_whales"
	CategoryTrending          = "trending_collections"
	CategoryTopCollections    = "top_collections"
	CategoryMarketAnalytics   = "market_analytics"
	CategoryHolderInsights    = "holder_insights"
	CategoryTraderInsights    = "trader_insights"
	CategoryMarketScores      = "market_scores"
	CategoryMarketplaceRanks  = "marketplace_rankings"
	CategoryNFTValuation      = "nft_valuation"
	CategoryCollectionProfile = "collection_profile"
)

// FetchEntry is one data-category result for one entity (or the market as a whole).
type FetchEntry struct {
	Category string                   `json:"category"`
	Entity   string                   `json:"entity,omitempty"`
	Label    string                   `json:"label,omitempty"`
	Status   EntryStatus              `json:"status"`
	Records  []map[string]interface{} `json:"data,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// FetchResult is the orchestrator's output for one request.
type FetchResult struct {
	Intent          registry.Intent        `json:"intent"`
	Entries         []FetchEntry           `json:"entries"`
	Context         map[string]interface{} `json:"context,omitempty"`
	DataSource      string                 `json:"-"`
	Precondition    string                 `json:"precondition,omitempty"`
	VacuityFallback bool                   `json:"vacuity_fallback,omitempty"`
}

// NewFetchResult returns an empty result for intent.
func NewFetchResult(intent registry.Intent) *FetchResult {
	return &FetchResult{
		Intent:  intent,
		Context: make(map[string]interface{}),
	}
}

// Add appends an entry.
func (r *FetchResult) Add(e FetchEntry) {
	r.Entries = append(r.Entries, e)
}

// Annotate sets a context key.
func (r *FetchResult) Annotate(key string, value interface{}) {
	if r.Context == nil {
		r.Context = make(map[string]interface{})
	}
	r.Context[key] = value
}

// HasData reports whether at least one entry carries records.
func (r *FetchResult) HasData() bool {
	for _, e := range r.Entries {
		if e.Status == StatusOK {
			return true
		}
	}
	return false
}

// Count returns the number of entries with the given status.
func (r *FetchResult) Count(status EntryStatus) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Primary returns the entry for DataSource, or the first entry when no entry
// matches it.
func (r *FetchResult) Primary() (FetchEntry, bool) {
	if len(r.Entries) == 0 {
		return FetchEntry{}, false
	}
	if r.DataSource != "" {
		id := ShortID(r.DataSource)
		for _, e := range r.Entries {
			if e.Entity == id {
				return e, true
			}
		}
	}
	return r.Entries[0], true
}

// PrimaryEmpty reports whether the primary entry is missing or carries no records.
func (r *FetchResult) PrimaryEmpty() bool {
	e, ok := r.Primary()
	return !ok || e.Status != StatusOK
}

// PromoteLast moves the most recently added entry to the front.
func (r *FetchResult) PromoteLast() {
	n := len(r.Entries)
	if n < 2 {
		return
	}
	last := r.Entries[n-1]
	copy(r.Entries[1:], r.Entries[:n-1])
	r.Entries[0] = last
}

// ByCategory returns the entries of one category, in fetch order.
func (r *FetchResult) ByCategory(category string) []FetchEntry {
	var out []FetchEntry
	for _, e := range r.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Payload groups entries by category for serialization into a prompt.
func (r *FetchResult) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Context)+4)
	for k, v := range r.Context {
		out[k] = v
	}
	for _, e := range r.Entries {
		list, _ := out[e.Category].([]FetchEntry)
		out[e.Category] = append(list, e)
	}
	if r.Precondition != "" {
		out["unmet_precondition"] = r.Precondition
	}
	return out
}
