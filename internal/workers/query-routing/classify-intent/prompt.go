// internal/workers/query-routing/classify-intent/prompt.go
package classifyintent

import (
	"fmt"
	"strings"
)

func (h *Handler) buildPrompt(input *Input) string {
	var b strings.Builder
	s := input.Summary

	fmt.Fprintf(&b, "User query: %q\n", input.Query.Text)
	fmt.Fprintf(&b, "User's wallet addresses: %s\n", listOrNone(s.Wallets))
	fmt.Fprintf(&b, "User's watchlist collections: %s\n", listOrNone(s.Collections))
	if s.TokenID != "" {
		fmt.Fprintf(&b, "Token id supplied: %s\n", s.TokenID)
	}
	b.WriteString(s.Sentence())
	b.WriteString("\n\nClassify the query into exactly one intent:\n")
	for _, spec := range h.registry.All() {
		fmt.Fprintf(&b, "- %s: %s\n", spec.ID, spec.Description)
	}

	b.WriteString(`
Rules:
- Prefer taking action over asking for clarification.
- If the user has any wallet or collection on file, set needs_user_input to false.
- Pick target_wallet / target_collection from the lists above unless the query names another one.
- nft_valuation needs both a collection and a token id.
- Use general_conversation only for greetings or questions that need no NFT data.

Respond with a single JSON object and nothing else:
{
  "intent": "<one intent id from the list>",
  "target_wallet": "wallet address or null",
  "target_collection": "collection id or null",
  "target_token": "token id or null",
  "reasoning": "brief explanation",
  "needs_user_input": false,
  "response_focus": "what the answer should emphasize"
}
`)
	return b.String()
}

func listOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return "[" + strings.Join(ids, ", ") + "]"
}
