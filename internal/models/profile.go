// internal/models/profile.go
package models

import "time"

// UserProfile is the persisted set of wallets and watchlisted collections for a user.
type UserProfile struct {
	UserID               string                 `json:"user_id"`
	WalletAddresses      []string               `json:"wallet_addresses"`
	WatchlistCollections []string               `json:"watchlist_collections"`
	Preferences          map[string]interface{} `json:"preferences,omitempty"`
	UpdatedAt            time.Time              `json:"updated_at"`
}
