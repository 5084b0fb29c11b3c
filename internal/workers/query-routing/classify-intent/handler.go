// internal/workers/query-routing/classify-intent/handler.go
package classifyintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/metrics"
	"nft-query-router/internal/common/validation"
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

const TaskType = "classify-intent"

var (
	// ErrNoUsableDecision means classification failed and the user has no
	// wallet to fall back on.
	ErrNoUsableDecision = errors.New("NO_USABLE_DECISION")
)

// Completer is the reasoning service the classifier delegates to.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) logger.Logger
}

type Handler struct {
	config    *Config
	registry  *registry.Registry
	completer Completer
	validator *validation.Validator
	logger    Logger
}

func NewHandler(config *Config, reg *registry.Registry, completer Completer, log Logger) (*Handler, error) {
	if config == nil {
		config = LoadConfig()
	}
	if reg == nil {
		reg = registry.Default()
	}
	v, err := validation.NewValidator(validation.DecisionSchema(reg.IDs()))
	if err != nil {
		return nil, fmt.Errorf("build decision schema: %w", err)
	}
	return &Handler{
		config:    config,
		registry:  reg,
		completer: completer,
		validator: v,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

// Execute classifies the query. It only returns an error wrapping
// ErrNoUsableDecision; every other failure is absorbed by the wallet fallback.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Summary.Wallets == nil && input.Summary.Collections == nil {
		input.Summary = input.Query.Summary()
	}

	decision, err := h.classify(ctx, input)
	if err != nil {
		return h.fallback(input, err)
	}

	h.applyPostCheck(decision, input.Summary)

	h.logger.Info("query classified", map[string]interface{}{
		"intent":         string(decision.Intent),
		"needsUserInput": decision.NeedsUserInput,
		"targetWallet":   models.ShortID(decision.TargetWallet),
	})
	return &Output{Decision: decision, Source: SourceModel}, nil
}

func (h *Handler) classify(ctx context.Context, input *Input) (*models.Decision, error) {
	if h.completer == nil {
		return nil, apperrors.NewClassificationAPIFailedError(errors.New("no reasoning service configured"))
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	reply, err := h.completer.Complete(ctx, h.buildPrompt(input))
	if err != nil {
		metrics.ClassifierFallbacks.WithLabelValues("api_error").Inc()
		return nil, apperrors.NewClassificationAPIFailedError(err)
	}

	return h.parseDecision(reply)
}

func (h *Handler) parseDecision(reply string) (*models.Decision, error) {
	object, ok := extractJSONObject(reply, h.config.MaxScan)
	if !ok {
		metrics.ClassifierFallbacks.WithLabelValues("no_json").Inc()
		return nil, apperrors.NewClassificationParseFailedError("reply contains no JSON object")
	}

	var doc map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(object))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		metrics.ClassifierFallbacks.WithLabelValues("no_json").Inc()
		return nil, apperrors.NewClassificationParseFailedError(err.Error())
	}
	stringifyTargets(doc)
	if s, ok := doc["intent"].(string); ok {
		doc["intent"] = strings.ToLower(strings.TrimSpace(s))
	}

	result, err := h.validator.Validate(doc)
	if err != nil {
		metrics.ClassifierFallbacks.WithLabelValues("schema").Inc()
		return nil, apperrors.NewClassificationParseFailedError(err.Error())
	}
	if !result.Valid {
		metrics.ClassifierFallbacks.WithLabelValues("schema").Inc()
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Field + ": " + e.Message
		}
		return nil, apperrors.NewClassificationParseFailedError(strings.Join(msgs, "; "))
	}

	var raw rawDecision
	normalized, _ := json.Marshal(doc)
	if err := json.Unmarshal(normalized, &raw); err != nil {
		return nil, apperrors.NewClassificationParseFailedError(err.Error())
	}

	intent := registry.Intent(raw.Intent)
	if !h.registry.IsKnown(intent) {
		metrics.ClassifierFallbacks.WithLabelValues("unknown_intent").Inc()
		return nil, apperrors.NewClassificationParseFailedError("unknown intent " + raw.Intent)
	}

	d := &models.Decision{
		Intent:           intent,
		TargetWallet:     cleanTarget(raw.TargetWallet),
		TargetCollection: cleanTarget(raw.TargetCollection),
		TargetToken:      cleanTarget(raw.TargetToken),
		Reasoning:        deref(raw.Reasoning),
		ResponseFocus:    deref(raw.ResponseFocus),
	}
	if raw.NeedsUserInput != nil {
		d.NeedsUserInput = *raw.NeedsUserInput
	}
	return d, nil
}

// applyPostCheck drops a clarification request when the user has any context on file.
func (h *Handler) applyPostCheck(d *models.Decision, summary models.ContextSummary) {
	if !d.NeedsUserInput {
		return
	}
	if summary.WalletCount() > 0 || summary.CollectionCount() > 0 {
		d.NeedsUserInput = false
		h.logger.Info("ignoring clarification request, user context available", map[string]interface{}{
			"wallets":     summary.WalletCount(),
			"collections": summary.CollectionCount(),
		})
	}
}

func (h *Handler) fallback(input *Input, cause error) (*Output, error) {
	first := ""
	if len(input.Summary.Wallets) > 0 {
		first = input.Summary.Wallets[0]
	}
	if first == "" {
		h.logger.Warn("classification failed and no wallet on file", map[string]interface{}{
			"error": cause.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrNoUsableDecision, cause)
	}

	h.logger.Warn("classification failed, using wallet fallback", map[string]interface{}{
		"error":  cause.Error(),
		"wallet": models.ShortID(first),
	})
	return &Output{
		Decision: FallbackDecision(first),
		Source:   SourceFallback,
	}, nil
}

// FallbackDecision is the deterministic decision used when classification fails.
func FallbackDecision(wallet string) *models.Decision {
	return &models.Decision{
		Intent:         registry.IntentWalletOverview,
		TargetWallet:   wallet,
		Reasoning:      "classification unavailable; showing an overview of your first wallet",
		NeedsUserInput: false,
	}
}

// stringifyTargets turns numeric ids, such as "target_token": 1234, into their
// exact decimal text.
func stringifyTargets(doc map[string]interface{}) {
	for _, key := range []string{"target_wallet", "target_collection", "target_token"} {
		if n, ok := doc[key].(json.Number); ok {
			doc[key] = n.String()
		}
	}
}

func cleanTarget(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	switch strings.ToLower(v) {
	case "", "null", "none", "n/a":
		return ""
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
