// internal/models/response.go
package models

// Response is the routing layer's reply to its caller. Exactly one of the
// answer fields, the clarification fields, or Error is populated.
type Response struct {
	Response    string `json:"response,omitempty"`
	ActionTaken string `json:"action_taken,omitempty"`
	DataSource  string `json:"data_source,omitempty"`
	Reasoning   string `json:"reasoning,omitempty"`
	NeedsInput  bool   `json:"needs_input,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// Fallback action names reported in Response.ActionTaken.
const (
	ActionFallbackWalletCheck = "fallback_wallet_check"
	ActionFallbackNoActivity  = "fallback_no_activity"
	ActionFallbackUnavailable = "fallback_unavailable"
	ActionOnboarding          = "onboarding"
	ActionNeedsInput          = "needs_input"
)
