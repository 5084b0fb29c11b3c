// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

var defaultIntents = []IntentSpec{
	{ID: IntentGeneralConversation, Template: TemplateConversational,
		Description: "greetings, small talk, or general questions that need no NFT data"},
	{ID: IntentWalletOverview, Template: TemplateDefault, Wallets: true,
		Description: "general health and performance of one wallet"},
	{ID: IntentWalletComparison, Template: TemplateComparison, Wallets: true,
		Description: "compare the user's wallets against each other"},
	{ID: IntentCollectionStats, Template: TemplateDefault, Collections: true,
		Description: "floor price, volume and sales for a specific collection"},
	{ID: IntentMarketTrending, Template: TemplateTrend,
		Description: "what is trending or hot in the NFT market right now"},
	{ID: IntentPortfolioAnalysis, Template: TemplateDefault, Wallets: true,
		Description: "portfolio performance across all of the user's wallets"},
	{ID: IntentRiskAnalysis, Template: TemplateRisk, Wallets: true, Collections: true,
		Description: "risk, wash trading and safety of the user's wallets and collections"},
	{ID: IntentMarketInsights, Template: TemplateTrend,
		Description: "overall market health, holders, traders and marketplace rankings"},
	{ID: IntentCollectionTraits, Template: TemplateDefault, Collections: true,
		Description: "trait and rarity breakdown of watched collections"},
	{ID: IntentWhaleAnalysis, Template: TemplateTrend, Collections: true,
		Description: "whale holders and large-wallet activity"},
	{ID: IntentNFTValuation, Template: TemplateDefault, Collections: true, Token: true,
		Description: "price estimate of one specific NFT (needs collection and token id)"},
}

// Registry is the closed intent catalog. It is immutable after construction.
type Registry struct {
	specs []IntentSpec
	index map[Intent]int
}

// Default returns the built-in intent catalog.
func Default() *Registry {
	return newRegistry(defaultIntents)
}

func newRegistry(specs []IntentSpec) *Registry {
	r := &Registry{
		specs: make([]IntentSpec, len(specs)),
		index: make(map[Intent]int, len(specs)),
	}
	copy(r.specs, specs)
	for i, s := range r.specs {
		r.index[s.ID] = i
	}
	return r
}

// LoadRegistry reads a JSON file of description/template overrides on top of
// the built-in catalog. Unknown intent ids are rejected so the enumeration stays closed.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse intent registry: %w", err)
	}

	r := Default()
	for _, o := range f.Intents {
		i, ok := r.index[o.ID]
		if !ok {
			return nil, fmt.Errorf("intent registry: unknown intent %q", o.ID)
		}
		if o.Description != "" {
			r.specs[i].Description = o.Description
		}
		if o.Template != "" {
			r.specs[i].Template = o.Template
		}
	}
	return r, nil
}

// Lookup returns the spec for id.
func (r *Registry) Lookup(id Intent) (IntentSpec, bool) {
	i, ok := r.index[id]
	if !ok {
		return IntentSpec{}, false
	}
	return r.specs[i], true
}

// IsKnown reports whether id belongs to the catalog.
func (r *Registry) IsKnown(id Intent) bool {
	_, ok := r.index[id]
	return ok
}

// TemplateFor returns the template kind for id, TemplateDefault for unknown ids.
func (r *Registry) TemplateFor(id Intent) TemplateKind {
	if s, ok := r.Lookup(id); ok && s.Template != "" {
		return s.Template
	}
	return TemplateDefault
}

// All returns the specs in catalog order.
func (r *Registry) All() []IntentSpec {
	out := make([]IntentSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// IDs returns the intent ids in catalog order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.specs))
	for i, s := range r.specs {
		out[i] = string(s.ID)
	}
	return out
}

// File returns the catalog in the on-disk override format accepted by LoadRegistry.
func (r *Registry) File() File {
	return File{Intents: r.All()}
}
