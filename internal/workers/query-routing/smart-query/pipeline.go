// internal/workers/query-routing/smart-query/pipeline.go
package smartquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nft-query-router/internal/clients/analytics"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/metrics"
	"nft-query-router/internal/common/observability"
	"nft-query-router/internal/models"
	classifyintent "nft-query-router/internal/workers/query-routing/classify-intent"
	fallbackresponse "nft-query-router/internal/workers/query-routing/fallback-response"
	fetchanalytics "nft-query-router/internal/workers/query-routing/fetch-analytics"
	synthesizeresponse "nft-query-router/internal/workers/query-routing/synthesize-response"
	"nft-query-router/pkg/registry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Completer is shared by the classifier and the synthesizer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline runs classify -> fetch -> synthesize for one query, routing every
// failure to the fallback stage. It holds no per-request state.
type Pipeline struct {
	stages Stages
	obs    *observability.Observability
	logger logger.Logger
}

func NewPipeline(stages Stages, obs *observability.Observability, log logger.Logger) *Pipeline {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Pipeline{
		stages: stages,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Build wires the stage handlers over one analytics client and one completer.
func Build(cfg *Config, reg *registry.Registry, source *analytics.Client, completer Completer, obs *observability.Observability, log logger.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = LoadConfig()
	}
	if reg == nil {
		reg = registry.Default()
	}

	classifier, err := classifyintent.NewHandler(classifyintent.LoadConfig(), reg, completer, log)
	if err != nil {
		return nil, err
	}

	synthCfg := synthesizeresponse.LoadConfig()
	synthCfg.ClosingSentence = cfg.ClosingSentence

	fbCfg := fallbackresponse.LoadConfig()
	fbCfg.ClosingSentence = cfg.ClosingSentence

	stages := Stages{
		Classifier: classifier,
		Orchestrator: fetchanalytics.NewHandler(&fetchanalytics.Config{
			MaxWallets:     cfg.MaxWallets,
			MaxCollections: cfg.MaxCollections,
		}, source, log),
		Synthesizer: synthesizeresponse.NewHandler(synthCfg, reg, completer, log),
		Fallback:    fallbackresponse.NewHandler(fbCfg, source, log),
	}
	return NewPipeline(stages, obs, log), nil
}

// Run always returns a Response: an answer, a clarification request, or an
// error for an invalid request.
func (p *Pipeline) Run(ctx context.Context, q models.Query) (resp *models.Response) {
	start := time.Now()
	requestID := uuid.NewString()
	outcome := OutcomeAnswered

	ctx, span := p.obs.StartSpan(ctx, "smart-query", attribute.String("request.id", requestID))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("pipeline panicked", map[string]interface{}{
				"requestId": requestID,
				"panic":     fmt.Sprint(rec),
			})
			span.SetStatus(codes.Error, "panic")
			outcome = OutcomeFallback
			resp = p.fallback(ctx, q, apperrors.NewPipelineFailedError(fmt.Errorf("panic: %v", rec)))
		}

		resp.RequestID = requestID
		action := resp.ActionTaken
		if resp.NeedsInput {
			action = models.ActionNeedsInput
		}
		metrics.PipelineRequests.WithLabelValues(action, outcome).Inc()
		metrics.PipelineDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		p.obs.RecordRun(ctx, action, outcome, time.Since(start))

		p.logger.Info("query handled", map[string]interface{}{
			"requestId":  requestID,
			"action":     action,
			"outcome":    outcome,
			"durationMs": time.Since(start).Milliseconds(),
		})
	}()

	if strings.TrimSpace(q.Text) == "" {
		outcome = OutcomeRejected
		return &models.Response{Error: "query is required"}
	}

	classified, err := p.classify(ctx, q)
	if err != nil {
		if errors.Is(err, classifyintent.ErrNoUsableDecision) && !q.HasContext() {
			outcome = OutcomeNeedsInput
			return &models.Response{
				NeedsInput: true,
				Message:    NoContextMessage,
				Reasoning:  "no wallet or collection on file and the query could not be classified",
			}
		}
		outcome = OutcomeFallback
		return p.fallback(ctx, q, err)
	}

	decision := classified.Decision
	if decision.NeedsUserInput {
		outcome = OutcomeNeedsInput
		return &models.Response{
			NeedsInput: true,
			Message:    NeedsInputMessage,
			Reasoning:  decision.Reasoning,
		}
	}

	result, err := p.fetch(ctx, decision, q)
	if err != nil {
		outcome = OutcomeFallback
		return p.fallback(ctx, q, err)
	}

	synthesized, err := p.synthesize(ctx, q, decision, result)
	if err != nil {
		outcome = OutcomeFallback
		return p.fallback(ctx, q, err)
	}

	return &models.Response{
		Response:    synthesized.Response,
		ActionTaken: string(result.Intent),
		DataSource:  result.DataSource,
		Reasoning:   decision.Reasoning,
	}
}

func (p *Pipeline) classify(ctx context.Context, q models.Query) (*classifyintent.Output, error) {
	ctx, span := p.obs.StartSpan(ctx, classifyintent.TaskType)
	defer span.End()

	out, err := p.stages.Classifier.Execute(ctx, &classifyintent.Input{Query: q, Summary: q.Summary()})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("intent", string(out.Decision.Intent)),
		attribute.String("source", out.Source),
	)
	return out, nil
}

func (p *Pipeline) fetch(ctx context.Context, d *models.Decision, q models.Query) (*models.FetchResult, error) {
	ctx, span := p.obs.StartSpan(ctx, fetchanalytics.TaskType)
	defer span.End()

	result, err := p.stages.Orchestrator.Execute(ctx, &fetchanalytics.Input{Decision: d, Query: q})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("intent", string(result.Intent)),
		attribute.Int("entries", len(result.Entries)),
		attribute.Bool("vacuity_fallback", result.VacuityFallback),
	)
	return result, nil
}

func (p *Pipeline) synthesize(ctx context.Context, q models.Query, d *models.Decision, r *models.FetchResult) (*synthesizeresponse.Output, error) {
	ctx, span := p.obs.StartSpan(ctx, synthesizeresponse.TaskType)
	defer span.End()

	out, err := p.stages.Synthesizer.Execute(ctx, &synthesizeresponse.Input{Query: q, Decision: d, Result: r})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("template", string(out.Template)))
	return out, nil
}

func (p *Pipeline) fallback(ctx context.Context, q models.Query, cause error) *models.Response {
	ctx, span := p.obs.StartSpan(ctx, fallbackresponse.TaskType)
	defer span.End()

	p.logger.Warn("routing to fallback", map[string]interface{}{
		"error":     cause.Error(),
		"errorCode": string(apperrors.CodeOf(cause)),
	})
	return p.stages.Fallback.Execute(ctx, &fallbackresponse.Input{Query: q, Cause: cause})
}
