// internal/workers/query-routing/synthesize-response/templates.go
package synthesizeresponse

import (
	"encoding/json"
	"fmt"
	"strings"

	"nft-query-router/internal/models"
	"nft-query-router/pkg/registry"
)

const (
	wordLimit               = 200
	conversationalWordLimit = 100
)

type template struct {
	role     string
	emphasis func(r *models.FetchResult) string
}

var templates = map[registry.TemplateKind]template{
	registry.TemplateComparison: {
		role: "You are an NFT portfolio analyst comparing a user's wallets.",
		emphasis: func(r *models.FetchResult) string {
			if r.Context["view"] == "single_wallet_detail" {
				return "Only one wallet is on file. Give a detailed view of that single wallet and do not present it as a comparison."
			}
			return "Compare the wallets side by side, refer to them by their labels, and highlight performance differences in value, activity and risk."
		},
	},
	registry.TemplateTrend: {
		role: "You are an NFT market analyst.",
		emphasis: func(*models.FetchResult) string {
			return "Highlight the most notable trends: leading collections or marketplaces, volume and sales movements, and whale or holder activity where present."
		},
	},
	registry.TemplateRisk: {
		role: "You are an NFT risk analyst.",
		emphasis: func(*models.FetchResult) string {
			return "Assess wash trading, risk scores and wallet health separately for wallets and collections, state an overall risk level, and give concrete safety advice."
		},
	},
	registry.TemplateConversational: {
		role: "You are a friendly NFT portfolio assistant.",
		emphasis: func(*models.FetchResult) string {
			return "Reply conversationally. When it fits, mention that you can analyze wallets, collections, market trends, risk and NFT valuations."
		},
	},
	registry.TemplateDefault: {
		role: "You are an NFT portfolio assistant.",
		emphasis: func(*models.FetchResult) string {
			return "Focus on the key insights and actionable advice."
		},
	},
}

func templateFor(kind registry.TemplateKind) template {
	if t, ok := templates[kind]; ok {
		return t
	}
	return templates[registry.TemplateDefault]
}

// buildPrompt assembles the role-specific instruction for the summarizer.
func (h *Handler) buildPrompt(intent registry.Intent, result *models.FetchResult, q models.Query, focus string) SynthesisRequest {
	kind := h.registry.TemplateFor(intent)
	t := templateFor(kind)
	conversational := kind == registry.TemplateConversational

	req := SynthesisRequest{
		Template:       kind,
		WordLimit:      wordLimit,
		RequireClosing: !conversational,
	}
	if conversational {
		req.WordLimit = conversationalWordLimit
	}

	var b strings.Builder
	b.WriteString(t.role)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "User asked: %q\n", q.Text)
	b.WriteString(q.Summary().Sentence())
	b.WriteString("\n")
	if focus != "" {
		fmt.Fprintf(&b, "Focus: %s\n", focus)
	}

	if !conversational {
		fmt.Fprintf(&b, "Data fetched (%s):\n%s\n", result.Intent, h.serialize(result))
	}

	b.WriteString("\nInstructions:\n- ")
	b.WriteString(t.emphasis(result))
	b.WriteString("\n")

	switch {
	case conversational:
	case result.Precondition != "":
		fmt.Fprintf(&b, "- No data was fetched because %s. Ask the user for the missing information instead of guessing.\n", result.Precondition)
	case result.PrimaryEmpty():
		b.WriteString("- The data for the primary entity is empty. Explain the likely reasons, such as a new wallet, no NFT holdings, or privacy settings, and do not invent figures.\n")
	}
	if result.VacuityFallback && !conversational {
		b.WriteString("- The requested data was unavailable, so this is an overview of the user's first wallet. Say so briefly.\n")
	}

	fmt.Fprintf(&b, "- Keep the answer under %d words in a friendly, concise tone.\n", req.WordLimit)
	if req.RequireClosing {
		fmt.Fprintf(&b, "- End with exactly this sentence: %q\n", h.config.ClosingSentence)
	} else {
		b.WriteString("- Do not add a closing safety reminder or sign-off line.\n")
	}

	req.Prompt = b.String()
	return req
}

func (h *Handler) serialize(result *models.FetchResult) string {
	data, err := json.Marshal(result.Payload())
	if err != nil {
		return "{}"
	}
	s := string(data)
	if h.config.MaxDataChars > 0 && len(s) > h.config.MaxDataChars {
		s = models.Truncate(s, h.config.MaxDataChars) + "...(truncated)"
	}
	return s
}
