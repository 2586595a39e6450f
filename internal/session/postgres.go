package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of *pgxpool.Pool (or pgx.Tx) the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps views in the view_sessions table.
type PostgresStore struct {
	db  DBTX
	ttl time.Duration
}

func NewPostgresStore(db DBTX, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

// NewPool connects and pings, the same way the server boots its database.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const getViewSQL = `
SELECT state FROM view_sessions
WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`

const upsertViewSQL = `
INSERT INTO view_sessions (id, user_id, item_id, state, expires_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE
SET state = EXCLUDED.state, expires_at = EXCLUDED.expires_at, updated_at = now()`

const deleteViewSQL = `DELETE FROM view_sessions WHERE id = $1`

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	var data []byte
	if err := s.db.QueryRow(ctx, getViewSQL, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get view: %w", err)
	}

	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode view: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) Save(ctx context.Context, v *View) error {
	v.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := time.Now().Add(s.ttl)
		expiresAt = &t
	}

	if _, err := s.db.Exec(ctx, upsertViewSQL, v.ID, v.UserID, v.ItemID, data, expiresAt); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, deleteViewSQL, id); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	return nil
}
