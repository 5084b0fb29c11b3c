package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"nft-query-router/internal/common/database"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"

	"github.com/lib/pq"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS user_profiles (
	user_id TEXT PRIMARY KEY,
	wallet_addresses TEXT[] NOT NULL DEFAULT '{}',
	watchlist_collections TEXT[] NOT NULL DEFAULT '{}',
	preferences JSONB,
	updated_at TIMESTAMPTZ NOT NULL
)`

	selectProfileSQL = `SELECT user_id, wallet_addresses, watchlist_collections, preferences, updated_at FROM user_profiles WHERE user_id = $1`

	upsertProfileSQL = `INSERT INTO user_profiles (user_id, wallet_addresses, watchlist_collections, preferences, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
	wallet_addresses = EXCLUDED.wallet_addresses,
	watchlist_collections = EXCLUDED.watchlist_collections,
	preferences = EXCLUDED.preferences,
	updated_at = EXCLUDED.updated_at`
)

type PostgresStore struct {
	db *sql.DB
	pc *database.PostgresClient
}

func NewPostgresStore(pc *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: pc.DB, pc: pc}
}

// newPostgresStoreWithDB is used by tests with a sqlmock connection.
func newPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, pc: &database.PostgresClient{DB: db}}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.NewProfileStoreFailedError(err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		p     models.UserProfile
		prefs []byte
	)
	err := s.db.QueryRowContext(ctx, selectProfileSQL, userID).Scan(
		&p.UserID,
		pq.Array(&p.WalletAddresses),
		pq.Array(&p.WatchlistCollections),
		&prefs,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewProfileStoreFailedError(err)
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
			return nil, apperrors.NewProfileStoreFailedError(err)
		}
	}
	return &p, nil
}

func (s *PostgresStore) Save(ctx context.Context, p *models.UserProfile) error {
	if err := Normalize(p); err != nil {
		return err
	}
	var prefs []byte
	if p.Preferences != nil {
		raw, err := json.Marshal(p.Preferences)
		if err != nil {
			return apperrors.NewProfileStoreFailedError(err)
		}
		prefs = raw
	}

	_, err := s.db.ExecContext(ctx, upsertProfileSQL,
		p.UserID,
		pq.Array(p.WalletAddresses),
		pq.Array(p.WatchlistCollections),
		prefs,
		p.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewProfileStoreFailedError(err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pc.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	return s.pc.Close()
}
