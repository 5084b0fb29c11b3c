// internal/workers/query-routing/fetch-analytics/handler_test.go
package fetchanalytics

import (
	"context"
	"errors"
	"testing"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	op     string
	entity string
}

// fakeSource returns one record per call unless the entity is listed in
// fail, empty or panics.
type fakeSource struct {
	calls     []recordedCall
	fail      map[string]bool
	failFirst map[string]bool
	empty     map[string]bool
	panics    map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fail:      map[string]bool{},
		failFirst: map[string]bool{},
		empty:     map[string]bool{},
		panics:    map[string]bool{},
	}
}

func (f *fakeSource) respond(op, entity string) (*analytics.Result, error) {
	f.calls = append(f.calls, recordedCall{op: op, entity: entity})
	switch {
	case f.panics[entity]:
		panic("provider exploded")
	case f.failFirst[entity]:
		delete(f.failFirst, entity)
		return nil, &analytics.APIError{StatusCode: 503, Message: "busy", Endpoint: op}
	case f.fail[entity] || f.fail[op]:
		return nil, &analytics.APIError{StatusCode: 500, Message: "boom", Endpoint: op}
	case f.empty[entity] || f.empty[op]:
		return &analytics.Result{Empty: true}, nil
	}
	return &analytics.Result{Records: []map[string]interface{}{{"entity": entity, "op": op}}}, nil
}

func collectionID(p analytics.Params) string {
	if p.ContractAddress != "" {
		return p.ContractAddress
	}
	return p.SlugName
}

func (f *fakeSource) WalletHealth(_ context.Context, w string, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("wallet_health", w)
}
func (f *fakeSource) CollectionStats(_ context.Context, p analytics.Params) (*analytics.Result, error) {
	return f.respond("collection_stats", collectionID(p))
}
func (f *fakeSource) CollectionWashtrade(_ context.Context, p analytics.Params) (*analytics.Result, error) {
	return f.respond("collection_washtrade", collectionID(p))
}
func (f *fakeSource) CollectionTraits(_ context.Context, p analytics.Params) (*analytics.Result, error) {
	return f.respond("collection_traits", collectionID(p))
}
func (f *fakeSource) CollectionWhales(_ context.Context, p analytics.Params) (*analytics.Result, error) {
	return f.respond("collection_whales", collectionID(p))
}
func (f *fakeSource) MarketWhales(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("market_whales", "")
}
func (f *fakeSource) TrendingCollections(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("trending", "")
}
func (f *fakeSource) TopCollections(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("top", "")
}
func (f *fakeSource) MarketAnalytics(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("market_analytics", "")
}
func (f *fakeSource) MarketHolders(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("market_holders", "")
}
func (f *fakeSource) MarketTraders(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("market_traders", "")
}
func (f *fakeSource) MarketScores(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("market_scores", "")
}
func (f *fakeSource) MarketplaceAnalytics(_ context.Context, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("marketplace_analytics", "")
}
func (f *fakeSource) NFTValuation(_ context.Context, contract, token string, _ analytics.Params) (*analytics.Result, error) {
	return f.respond("nft_valuation", contract+"#"+token)
}

func (f *fakeSource) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func createTestHandler(t *testing.T, src DataSource) *Handler {
	return NewHandler(LoadConfig(), src, logger.NewTestLogger(t))
}

func run(t *testing.T, h *Handler, d *models.Decision, q models.Query) *models.FetchResult {
	t.Helper()
	r, err := h.Execute(context.Background(), &Input{Decision: d, Query: q})
	require.NoError(t, err)
	return r
}

var manyWallets = []string{"0xW1000000000001", "0xW2000000000002", "0xW3000000000003", "0xW4000000000004", "0xW5000000000005"}

func TestExecute_GeneralConversationFetchesNothing(t *testing.T) {
	src := newFakeSource()
	h := createTestHandler(t, src)

	r := run(t, h, &models.Decision{Intent: registry.IntentGeneralConversation},
		models.Query{Text: "hi there", UserWallets: manyWallets[:2]})

	assert.Empty(t, src.calls)
	assert.Equal(t, registry.IntentGeneralConversation, r.Intent)
	assert.Equal(t, 2, r.Context["wallet_count"])
	assert.Equal(t, 0, r.Context["collection_count"])
	assert.False(t, r.VacuityFallback)
}

func TestExecute_WalletOverviewUsesTargetThenFirstWallet(t *testing.T) {
	src := newFakeSource()
	h := createTestHandler(t, src)

	r := run(t, h, &models.Decision{Intent: registry.IntentWalletOverview, TargetWallet: "0xTARGET00000000"},
		models.Query{UserWallets: manyWallets[:1]})
	assert.Equal(t, "0xTARGET00000000", src.calls[0].entity)
	assert.Equal(t, "0xTARGET00000000", r.DataSource)

	src2 := newFakeSource()
	r = run(t, createTestHandler(t, src2), &models.Decision{Intent: registry.IntentWalletOverview},
		models.Query{UserWallets: manyWallets[:2]})
	require.Len(t, src2.calls, 1)
	assert.Equal(t, manyWallets[0], src2.calls[0].entity)
	assert.Equal(t, manyWallets[0], r.DataSource)
}

func TestExecute_WalletFanOutIsCapped(t *testing.T) {
	for _, intent := range []registry.Intent{registry.IntentWalletComparison, registry.IntentPortfolioAnalysis} {
		t.Run(string(intent), func(t *testing.T) {
			src := newFakeSource()
			r := run(t, createTestHandler(t, src), &models.Decision{Intent: intent}, models.Query{UserWallets: manyWallets})

			assert.Equal(t, 3, src.count("wallet_health"))
			assert.Len(t, r.ByCategory(models.CategoryWalletHealth), 3)
		})
	}
}

func TestExecute_CollectionFanOutIsCapped(t *testing.T) {
	collections := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}

	t.Run("default cap", func(t *testing.T) {
		src := newFakeSource()
		run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentCollectionTraits}, models.Query{UserCollections: collections})
		assert.Equal(t, 3, src.count("collection_traits"))
	})

	t.Run("configured cap never exceeds five", func(t *testing.T) {
		src := newFakeSource()
		h := NewHandler(&Config{MaxWallets: 10, MaxCollections: 10}, src, logger.NewTestLogger(t))
		run(t, h, &models.Decision{Intent: registry.IntentWhaleAnalysis}, models.Query{UserCollections: collections})
		assert.Equal(t, 5, src.count("collection_whales"))

		src = newFakeSource()
		h = NewHandler(&Config{MaxWallets: 10, MaxCollections: 10}, src, logger.NewTestLogger(t))
		run(t, h, &models.Decision{Intent: registry.IntentPortfolioAnalysis}, models.Query{UserWallets: manyWallets})
		assert.Equal(t, 3, src.count("wallet_health"))
	})
}

func TestExecute_WalletComparisonSingleWallet(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src),
		&models.Decision{Intent: registry.IntentWalletComparison, TargetWallet: manyWallets[0]},
		models.Query{UserWallets: manyWallets[:1]})

	assert.Equal(t, 1, src.count("wallet_health"))
	assert.Equal(t, ViewSingleWallet, r.Context["view"])
	assert.Equal(t, registry.IntentWalletComparison, r.Intent)
}

func TestExecute_WalletComparisonMultipleWallets(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentWalletComparison},
		models.Query{UserWallets: manyWallets[:2]})

	assert.Equal(t, ViewComparison, r.Context["view"])
	entries := r.ByCategory(models.CategoryWalletHealth)
	require.Len(t, entries, 2)
	assert.Equal(t, "Wallet 1", entries[0].Label)
	assert.Equal(t, "Wallet 2", entries[1].Label)
}

func TestExecute_IdentifiersAreTruncated(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentPortfolioAnalysis},
		models.Query{UserWallets: []string{"0xABCDEF1234567890"}})

	require.Len(t, r.Entries, 1)
	assert.Equal(t, "0xABCD...7890", r.Entries[0].Entity)
}

func TestExecute_PartialFailureKeepsOtherEntities(t *testing.T) {
	src := newFakeSource()
	src.fail[manyWallets[1]] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentPortfolioAnalysis},
		models.Query{UserWallets: manyWallets[:3]})

	assert.Equal(t, 3, src.count("wallet_health"))
	assert.Equal(t, 2, r.Count(models.StatusOK))
	assert.Equal(t, 1, r.Count(models.StatusError))
	assert.Equal(t, "provider returned status 500", r.Entries[1].Error)
	assert.False(t, r.VacuityFallback)
}

func TestExecute_PanicInOneEntityIsIsolated(t *testing.T) {
	src := newFakeSource()
	src.panics[manyWallets[0]] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentWalletComparison},
		models.Query{UserWallets: manyWallets[:3]})

	assert.Equal(t, 2, r.Count(models.StatusOK))
	assert.Equal(t, models.StatusError, r.Entries[0].Status)
}

func TestExecute_NFTValuationPrecondition(t *testing.T) {
	tests := []struct {
		name     string
		decision *models.Decision
		query    models.Query
	}{
		{"missing token", &models.Decision{Intent: registry.IntentNFTValuation, TargetCollection: "0xC0LLECTION"}, models.Query{UserWallets: manyWallets[:1]}},
		{"missing collection", &models.Decision{Intent: registry.IntentNFTValuation, TargetToken: "7"}, models.Query{UserWallets: manyWallets[:1]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			r := run(t, createTestHandler(t, src), tt.decision, tt.query)

			assert.Empty(t, src.calls)
			assert.NotEmpty(t, r.Precondition)
			assert.Equal(t, registry.IntentNFTValuation, r.Intent)
			assert.False(t, r.VacuityFallback)
		})
	}
}

func TestExecute_NFTValuationFetchesOnce(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentNFTValuation},
		models.Query{CollectionID: "0xC0LLECTION", TokenID: "42"})

	require.Len(t, src.calls, 1)
	assert.Equal(t, "0xC0LLECTION#42", src.calls[0].entity)
	assert.True(t, r.HasData())
}

func TestExecute_MarketIntentsNeedNoEntities(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentMarketInsights}, models.Query{})

	assert.Equal(t, 5, len(src.calls))
	assert.Len(t, r.ByCategory(models.CategoryMarketplaceRanks), 1)
	assert.Len(t, r.ByCategory(models.CategoryHolderInsights), 1)

	src = newFakeSource()
	run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentMarketTrending}, models.Query{})
	assert.Equal(t, 1, src.count("trending"))
	assert.Equal(t, 1, src.count("top"))
}

func TestExecute_WhalesWithoutCollectionsUsesMarketWide(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentWhaleAnalysis}, models.Query{})

	assert.Equal(t, 1, src.count("market_whales"))
	assert.Zero(t, src.count("collection_whales"))
	assert.Len(t, r.ByCategory(models.CategoryMarketWhales), 1)
}

func TestExecute_RiskAggregatesWalletsAndCollectionsSeparately(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentRiskAnalysis},
		models.Query{UserWallets: manyWallets, UserCollections: []string{"c1", "c2", "c3", "c4"}})

	assert.Equal(t, 3, src.count("wallet_health"))
	assert.Equal(t, 3, src.count("collection_washtrade"))
	assert.Equal(t, 3, src.count("collection_stats"))

	payload := r.Payload()
	assert.Len(t, payload[models.CategoryWalletHealth], 3)
	assert.Len(t, payload[models.CategoryRiskScore], 3)
}

func TestExecute_VacuityFallbackFetchesFirstWallet(t *testing.T) {
	src := newFakeSource()
	src.fail["collection_traits"] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentCollectionTraits},
		models.Query{UserWallets: manyWallets[:2], UserCollections: []string{"c1", "c2"}})

	assert.Equal(t, 2, src.count("collection_traits"))
	assert.Equal(t, 1, src.count("wallet_health"))
	assert.Equal(t, manyWallets[0], src.calls[len(src.calls)-1].entity)
	assert.True(t, r.VacuityFallback)
	assert.Equal(t, registry.IntentWalletOverview, r.Intent)
	assert.Equal(t, manyWallets[0], r.DataSource)
	assert.Equal(t, string(registry.IntentCollectionTraits), r.Context["original_intent"])
}

func TestExecute_VacuityFallbackOnMissingContext(t *testing.T) {
	src := newFakeSource()
	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentCollectionStats},
		models.Query{UserWallets: manyWallets[:1]})

	assert.Equal(t, 1, src.count("wallet_health"))
	assert.True(t, r.VacuityFallback)
	assert.Empty(t, r.Precondition)
}

func TestExecute_VacuityFallbackDoesNotRefetchSameWallet(t *testing.T) {
	src := newFakeSource()
	src.empty[manyWallets[0]] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentWalletOverview},
		models.Query{UserWallets: manyWallets[:1]})

	assert.Equal(t, 1, src.count("wallet_health"))
	assert.True(t, r.VacuityFallback)
	assert.True(t, r.PrimaryEmpty())
}

func TestExecute_VacuityFallbackWalletIsPrimary(t *testing.T) {
	src := newFakeSource()
	src.fail["boredapes"] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentCollectionStats},
		models.Query{UserWallets: manyWallets[:1], UserCollections: []string{"boredapes"}})

	require.True(t, r.VacuityFallback)
	require.Len(t, r.Entries, 2)
	assert.True(t, r.HasData())
	assert.False(t, r.PrimaryEmpty())
	assert.Equal(t, models.CategoryWalletHealth, r.Entries[0].Category)
	assert.Equal(t, models.StatusError, r.Entries[1].Status)
}

func TestExecute_VacuityFallbackRetriesFailedWallet(t *testing.T) {
	src := newFakeSource()
	src.failFirst[manyWallets[0]] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentPortfolioAnalysis},
		models.Query{UserWallets: manyWallets[:1]})

	assert.Equal(t, 2, src.count("wallet_health"))
	assert.True(t, r.VacuityFallback)
	assert.Equal(t, registry.IntentWalletOverview, r.Intent)
	assert.True(t, r.HasData())
	assert.False(t, r.PrimaryEmpty())
	assert.Equal(t, models.StatusOK, r.Entries[0].Status)
}

func TestExecute_VacuityFallbackWalletStillFailing(t *testing.T) {
	src := newFakeSource()
	src.fail[manyWallets[0]] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentPortfolioAnalysis},
		models.Query{UserWallets: manyWallets[:1]})

	assert.Equal(t, 2, src.count("wallet_health"))
	assert.True(t, r.VacuityFallback)
	assert.False(t, r.HasData())
	assert.True(t, r.PrimaryEmpty())
}

// warnOnlyLogger satisfies the package Logger without the rest of the shared interface.
type warnOnlyLogger struct {
	logger.Logger
	warnings []string
}

func (l *warnOnlyLogger) Warn(msg string, _ map[string]interface{}) {
	l.warnings = append(l.warnings, msg)
}

func (l *warnOnlyLogger) With(map[string]interface{}) logger.Logger { return l }

func TestNewHandler_AcceptsNarrowLogger(t *testing.T) {
	src := newFakeSource()
	src.fail[manyWallets[0]] = true
	log := &warnOnlyLogger{Logger: logger.NewTestLogger(t)}

	h := NewHandler(LoadConfig(), src, log)
	run(t, h, &models.Decision{Intent: registry.IntentWalletOverview}, models.Query{UserWallets: manyWallets[:1]})

	assert.Contains(t, log.warnings, "entity fetch failed")
}

func TestExecute_NoVacuityFallbackWithoutWallets(t *testing.T) {
	src := newFakeSource()
	src.fail["c1"] = true

	r := run(t, createTestHandler(t, src), &models.Decision{Intent: registry.IntentCollectionStats},
		models.Query{UserCollections: []string{"c1"}})

	assert.Equal(t, 1, len(src.calls))
	assert.False(t, r.VacuityFallback)
	assert.Equal(t, registry.IntentCollectionStats, r.Intent)
}

func TestExecute_UnknownIntent(t *testing.T) {
	_, err := createTestHandler(t, newFakeSource()).Execute(context.Background(),
		&Input{Decision: &models.Decision{Intent: "buy_nft"}})
	assert.True(t, errors.Is(err, ErrUnknownIntent))
}

func TestPlans_CoverEveryRegisteredIntent(t *testing.T) {
	for _, spec := range registry.Default().All() {
		_, ok := plans[spec.ID]
		assert.True(t, ok, "no fetch plan for %s", spec.ID)
	}
}
