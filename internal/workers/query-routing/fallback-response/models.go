// internal/workers/query-routing/fallback-response/models.go
package fallbackresponse

import (
	"context"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/models"
)

type Input struct {
	Query models.Query
	Cause error
}

// WalletHealthSource is the single cheap fetch the controller may perform.
type WalletHealthSource interface {
	WalletHealth(ctx context.Context, wallet string, p analytics.Params) (*analytics.Result, error)
}

const (
	KindWalletCheck = "wallet_check"
	KindNoActivity  = "no_activity"
	KindUnavailable = "unavailable"
	KindOnboarding  = "onboarding"
)
