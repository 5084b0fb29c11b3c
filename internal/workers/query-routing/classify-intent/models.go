// internal/workers/query-routing/classify-intent/models.go
package classifyintent

import "nft-query-router/internal/models"

type Input struct {
	Query   models.Query
	Summary models.ContextSummary
}

// Output is the decision the pipeline acts on. Source is "model" when the
// reasoning service produced it and "fallback" for the deterministic decision.
type Output struct {
	Decision *models.Decision
	Source   string
}

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// rawDecision is the reply shape; pointers distinguish absent from null.
type rawDecision struct {
	Intent           string  `json:"intent"`
	TargetWallet     *string `json:"target_wallet"`
	TargetCollection *string `json:"target_collection"`
	TargetToken      *string `json:"target_token"`
	Reasoning        *string `json:"reasoning"`
	NeedsUserInput   *bool   `json:"needs_user_input"`
	ResponseFocus    *string `json:"response_focus"`
}
