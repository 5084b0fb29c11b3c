// Package profiles persists the wallets and watchlisted collections of known users.
package profiles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nft-query-router/internal/common/config"
	"nft-query-router/internal/common/database"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Store reads and writes user profiles. Get returns a PROFILE_NOT_FOUND
// StandardError for unknown users.
type Store interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, p *models.UserProfile) error
	Ping(ctx context.Context) error
	Close() error
}

// New opens the backend named in cfg.Profiles.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.Profiles.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		return NewRedisStore(rc, time.Duration(cfg.Profiles.TTL)*time.Second), nil
	case BackendPostgres:
		pc, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		s := NewPostgresStore(pc)
		if err := s.EnsureSchema(ctx); err != nil {
			pc.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown profile backend %q", cfg.Profiles.Backend)
	}
}

// Normalize trims ids, drops blanks and duplicates, and stamps UpdatedAt.
func Normalize(p *models.UserProfile) error {
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return apperrors.NewInvalidRequestError("user_id is required")
	}
	p.WalletAddresses = dedupe(p.WalletAddresses)
	p.WatchlistCollections = dedupe(p.WatchlistCollections)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
