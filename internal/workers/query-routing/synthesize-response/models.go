// internal/workers/query-routing/synthesize-response/models.go
package synthesizeresponse

import (
	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

type Input struct {
	Query    models.Query
	Decision *models.Decision
	Result   *models.FetchResult
}

// SynthesisRequest is the prompt handed to the summarizer plus how its reply
// must be finished.
type SynthesisRequest struct {
	Template       registry.TemplateKind
	Prompt         string
	WordLimit      int
	RequireClosing bool
}

type Output struct {
	Response string
	Template registry.TemplateKind
}
