// internal/workers/query-routing/fetch-analytics/handler.go
package fetchanalytics

import (
	"context"
	"errors"
	"fmt"

	"nft-query-router/internal/clients/analytics"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/metrics"
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

const TaskType = "fetch-analytics"

var (
	ErrUnknownIntent = errors.New("UNKNOWN_INTENT")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) logger.Logger
}

type Handler struct {
	config *Config
	source DataSource
	logger Logger
}

func NewHandler(config *Config, source DataSource, log Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		source: source,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute runs the fetch plan for the decision's intent. Entity failures are
// recorded in the result, never returned; the only error is an intent with no plan.
func (h *Handler) Execute(ctx context.Context, input *Input) (*models.FetchResult, error) {
	intent := input.Decision.Intent
	p, ok := plans[intent]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}

	result := models.NewFetchResult(intent)
	p(ctx, h, input, result)

	if result.Precondition != "" {
		h.logger.Info("fetch precondition unmet", map[string]interface{}{
			"intent": string(intent),
			"reason": result.Precondition,
		})
	}

	if h.needsVacuityFallback(intent, result) {
		h.vacuityFallback(ctx, input.Query, result)
	}

	h.logger.Info("fetch completed", map[string]interface{}{
		"intent":   string(result.Intent),
		"ok":       result.Count(models.StatusOK),
		"empty":    result.Count(models.StatusEmpty),
		"failed":   result.Count(models.StatusError),
		"fallback": result.VacuityFallback,
	})
	return result, nil
}

// needsVacuityFallback skips conversation, which never fetches, and an unmet
// valuation precondition, which is answered by asking for the missing ids.
func (h *Handler) needsVacuityFallback(intent registry.Intent, r *models.FetchResult) bool {
	if r.HasData() {
		return false
	}
	if intent == registry.IntentGeneralConversation {
		return false
	}
	if intent == registry.IntentNFTValuation && r.Precondition != "" {
		return false
	}
	return true
}

func (h *Handler) vacuityFallback(ctx context.Context, q models.Query, r *models.FetchResult) {
	wallet := q.FirstWallet()
	if wallet == "" {
		return
	}

	h.logger.Warn("no data fetched, falling back to first wallet", map[string]interface{}{
		"intent": string(r.Intent),
		"wallet": models.ShortID(wallet),
		"code":   string(apperrors.ErrCodeFetchVacuous),
	})

	r.Annotate("original_intent", string(r.Intent))
	r.Intent = registry.IntentWalletOverview
	r.DataSource = wallet
	r.VacuityFallback = true
	r.Precondition = ""

	// an empty answer for this wallet is final; a failed one gets its own fetch
	for _, e := range r.ByCategory(models.CategoryWalletHealth) {
		if e.Entity == models.ShortID(wallet) && e.Status == models.StatusEmpty {
			return
		}
	}
	h.walletHealth(ctx, r, wallet, "Wallet 1")
	r.PromoteLast()
}

func (h *Handler) wallets(in *Input) []string {
	ids := in.Query.Wallets()
	if len(ids) == 0 && in.Decision.TargetWallet != "" {
		ids = []string{in.Decision.TargetWallet}
	}
	return capIDs(ids, h.config.walletCap())
}

func (h *Handler) collections(in *Input) []string {
	ids := in.Query.Collections()
	if len(ids) == 0 && in.Decision.TargetCollection != "" {
		ids = []string{in.Decision.TargetCollection}
	}
	return capIDs(ids, h.config.collectionCap())
}

func capIDs(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

func (h *Handler) walletHealth(ctx context.Context, r *models.FetchResult, wallet, label string) {
	h.fetchEntity(ctx, r, models.CategoryWalletHealth, wallet, label, func(ctx context.Context) (*analytics.Result, error) {
		return h.source.WalletHealth(ctx, wallet, analytics.Params{})
	})
}

func (h *Handler) fetchMarket(ctx context.Context, r *models.FetchResult, category string, call func(context.Context, analytics.Params) (*analytics.Result, error)) {
	h.fetchEntity(ctx, r, category, "", "", func(ctx context.Context) (*analytics.Result, error) {
		return call(ctx, analytics.Params{})
	})
}

// fetchEntity performs one isolated fetch. Errors and panics become an error
// entry so the remaining entities of a fan-out still run.
func (h *Handler) fetchEntity(ctx context.Context, r *models.FetchResult, category, entity, label string, call func(context.Context) (*analytics.Result, error)) {
	entry := models.FetchEntry{
		Category: category,
		Entity:   models.ShortID(entity),
		Label:    label,
	}

	res, err := safeCall(ctx, call)
	switch {
	case err != nil:
		entry.Status = models.StatusError
		entry.Error = describeFailure(err)
		h.logger.Warn("entity fetch failed", map[string]interface{}{
			"code":     string(apperrors.ErrCodeEntityFetchFailed),
			"category": category,
			"entity":   entry.Entity,
			"error":    err.Error(),
		})
	case res == nil || res.Empty:
		entry.Status = models.StatusEmpty
	default:
		entry.Status = models.StatusOK
		entry.Records = res.Records
	}

	metrics.AnalyticsFetches.WithLabelValues(category, string(entry.Status)).Inc()
	r.Add(entry)
}

func safeCall(ctx context.Context, call func(context.Context) (*analytics.Result, error)) (res *analytics.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during fetch: %v", rec)
		}
	}()
	return call(ctx)
}

func describeFailure(err error) string {
	var apiErr *analytics.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return fmt.Sprintf("provider returned status %d", apiErr.StatusCode)
	}
	return "request failed"
}
