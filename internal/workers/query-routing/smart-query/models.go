// internal/workers/query-routing/smart-query/models.go
package smartquery

import (
	"context"

	classifyintent "nft-query-router/internal/workers/query-routing/classify-intent"
	fallbackresponse "nft-query-router/internal/workers/query-routing/fallback-response"
	fetchanalytics "nft-query-router/internal/workers/query-routing/fetch-analytics"
	synthesizeresponse "nft-query-router/internal/workers/query-routing/synthesize-response"

	"nft-query-router/internal/models"
)

const (
	NoContextMessage  = "I need your wallet address or collection information to help you."
	NeedsInputMessage = "I need your wallet address or collection information to help you better."
)

// Outcome labels recorded per run.
const (
	OutcomeAnswered   = "answered"
	OutcomeNeedsInput = "needs_input"
	OutcomeFallback   = "fallback"
	OutcomeRejected   = "rejected"
)

type Classifier interface {
	Execute(ctx context.Context, input *classifyintent.Input) (*classifyintent.Output, error)
}

type Orchestrator interface {
	Execute(ctx context.Context, input *fetchanalytics.Input) (*models.FetchResult, error)
}

type Synthesizer interface {
	Execute(ctx context.Context, input *synthesizeresponse.Input) (*synthesizeresponse.Output, error)
}

type Fallback interface {
	Execute(ctx context.Context, input *fallbackresponse.Input) *models.Response
}

// Stages are the four pipeline components.
type Stages struct {
	Classifier   Classifier
	Orchestrator Orchestrator
	Synthesizer  Synthesizer
	Fallback     Fallback
}
