// internal/workers/query-routing/synthesize-response/handler.go
package synthesizeresponse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

const TaskType = "synthesize-response"

var (
	ErrSummarizationFailed = errors.New("SUMMARIZATION_FAILED")
)

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
	logger    Logger
}

func NewHandler(config *Config, reg *registry.Registry, completer Completer, log Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.ClosingSentence == "" {
		config.ClosingSentence = DefaultClosingSentence
	}
	if reg == nil {
		reg = registry.Default()
	}
	return &Handler{
		config:    config,
		registry:  reg,
		completer: completer,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

// BuildPrompt exposes prompt construction without calling the summarizer.
func (h *Handler) BuildPrompt(intent registry.Intent, result *models.FetchResult, q models.Query, focus string) SynthesisRequest {
	if result == nil {
		result = models.NewFetchResult(intent)
	}
	return h.buildPrompt(intent, result, q, focus)
}

// Execute builds the prompt for the effective intent and asks the summarizer.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	focus := ""
	if input.Decision != nil {
		focus = input.Decision.ResponseFocus
	}
	req := h.BuildPrompt(input.Result.Intent, input.Result, input.Query, focus)

	if h.completer == nil {
		return nil, fmt.Errorf("%w: no summarizer configured", ErrSummarizationFailed)
	}
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	text, err := h.completer.Complete(ctx, req.Prompt)
	if err != nil {
		h.logger.Error("summarization failed", map[string]interface{}{
			"template": string(req.Template),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrSummarizationFailed, apperrors.NewSummarizationFailedError(err))
	}

	text = h.finish(strings.TrimSpace(text), req)
	h.logger.Info("response synthesized", map[string]interface{}{
		"template": string(req.Template),
		"words":    len(strings.Fields(text)),
	})
	return &Output{Response: text, Template: req.Template}, nil
}

// finish makes the closing sentence rule hold whatever the summarizer returned.
func (h *Handler) finish(text string, req SynthesisRequest) string {
	closing := h.config.ClosingSentence
	if req.RequireClosing {
		if !strings.Contains(text, closing) {
			text = strings.TrimSpace(text + "\n\n" + closing)
		}
		return text
	}
	return strings.TrimSpace(strings.ReplaceAll(text, closing, ""))
}
