// internal/models/decision.go
package models

import "nft-query-router/pkg/registry"

// Decision is the classifier's structured output.
type Decision struct {
	Intent           registry.Intent `json:"intent"`
	TargetWallet     string          `json:"target_wallet,omitempty"`
	TargetCollection string          `json:"target_collection,omitempty"`
	TargetToken      string          `json:"target_token,omitempty"`
	Reasoning        string          `json:"reasoning,omitempty"`
	NeedsUserInput   bool            `json:"needs_user_input"`
	ResponseFocus    string          `json:"response_focus,omitempty"`
}
