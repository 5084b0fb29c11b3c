// internal/workers/query-routing/fallback-response/handler.go
package fallbackresponse

import (
	"context"
	"encoding/json"
	"fmt"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/metrics"
	"nft-query-router/internal/models"
)

const TaskType = "fallback-response"

const (
	onboardingMessage  = "Welcome! Share a wallet address or a collection you follow and I'll analyze it for you."
	unavailableMessage = "NFT data is temporarily unavailable right now. Please try again in a moment."
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
	source WalletHealthSource
	logger Logger
}

func NewHandler(config *Config, source WalletHealthSource, log Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		source: source,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute always returns a Response, whatever the cause or the state of the
// analytics provider.
func (h *Handler) Execute(ctx context.Context, input *Input) (resp *models.Response) {
	kind := KindUnavailable
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("fallback panicked", map[string]interface{}{"panic": fmt.Sprint(rec)})
			kind = KindUnavailable
			resp = h.unavailable(input.Query.FirstWallet(), input.Cause)
		}
		metrics.FallbackResponses.WithLabelValues(kind).Inc()
	}()

	wallet := input.Query.FirstWallet()
	if wallet == "" {
		kind = KindOnboarding
		return &models.Response{
			Response:    onboardingMessage,
			ActionTaken: models.ActionOnboarding,
			Reasoning:   reasoning(input.Cause, "no wallet on file"),
		}
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	h.logger.Info("answering from direct wallet check", map[string]interface{}{
		"wallet": models.ShortID(wallet),
	})

	var (
		res *analytics.Result
		err error
	)
	if h.source != nil {
		res, err = h.source.WalletHealth(ctx, wallet, analytics.Params{})
	} else {
		err = fmt.Errorf("no analytics client")
	}

	switch {
	case err != nil:
		h.logger.Warn("fallback wallet check failed", map[string]interface{}{"error": err.Error()})
		kind = KindUnavailable
		return h.unavailable(wallet, input.Cause)
	case trivial(res):
		kind = KindNoActivity
		return &models.Response{
			Response: fmt.Sprintf("I couldn't find any NFT activity for wallet %s. It may be new, hold no NFTs yet, or keep its activity private. %s",
				models.ShortID(wallet), h.config.ClosingSentence),
			ActionTaken: models.ActionFallbackNoActivity,
			DataSource:  wallet,
			Reasoning:   reasoning(input.Cause, "wallet check returned no activity"),
		}
	default:
		kind = KindWalletCheck
		return &models.Response{
			Response: fmt.Sprintf("I found information about your wallet. Here's a quick overview: %s... %s",
				h.excerpt(res.Records), h.config.ClosingSentence),
			ActionTaken: models.ActionFallbackWalletCheck,
			DataSource:  wallet,
			Reasoning:   reasoning(input.Cause, "answered from a direct wallet check"),
		}
	}
}

func (h *Handler) unavailable(wallet string, cause error) *models.Response {
	return &models.Response{
		Response:    unavailableMessage,
		ActionTaken: models.ActionFallbackUnavailable,
		DataSource:  wallet,
		Reasoning:   reasoning(cause, "wallet check failed"),
	}
}

func (h *Handler) excerpt(records []map[string]interface{}) string {
	data, err := json.Marshal(records)
	if err != nil {
		return ""
	}
	return models.Truncate(string(data), h.config.ExcerptChars)
}

// trivial reports an empty result or one whose records carry no fields.
func trivial(res *analytics.Result) bool {
	if res == nil || res.Empty {
		return true
	}
	for _, r := range res.Records {
		if len(r) > 0 {
			return false
		}
	}
	return true
}

func reasoning(cause error, outcome string) string {
	if cause == nil {
		return "fallback: " + outcome
	}
	return fmt.Sprintf("fallback after %v: %s", cause, outcome)
}
