package profiles

import (
	"context"
	"sync"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"
)

// MemoryStore keeps profiles in process; used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.UserProfile)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	return clone(p), nil
}

func (s *MemoryStore) Save(_ context.Context, p *models.UserProfile) error {
	if err := Normalize(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = *clone(*p)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func clone(p models.UserProfile) *models.UserProfile {
	c := p
	c.WalletAddresses = append([]string(nil), p.WalletAddresses...)
	c.WatchlistCollections = append([]string(nil), p.WatchlistCollections...)
	if p.Preferences != nil {
		c.Preferences = make(map[string]interface{}, len(p.Preferences))
		for k, v := range p.Preferences {
			c.Preferences[k] = v
		}
	}
	return &c
}
