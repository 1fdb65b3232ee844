// Package repository stores the record collection in PostgreSQL as a single
// JSONB snapshot row, giving the same whole-collection semantics as the file
// store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	selectSnapshotSQL = `SELECT payload FROM pokedex_snapshot WHERE id = 1`
	upsertSnapshotSQL = `
		INSERT INTO pokedex_snapshot (id, payload, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
)

// SnapshotRepository implements storage.Store on PostgreSQL.
type SnapshotRepository struct {
	db  DB
	log *slog.Logger
}

// NewSnapshotRepository constructs a repository.
func NewSnapshotRepository(db DB, log *slog.Logger) *SnapshotRepository {
	if log == nil {
		log = slog.Default()
	}
	return &SnapshotRepository{db: db, log: log}
}

// Load returns the stored collection, or an empty one when the row is absent
// or unreadable.
func (r *SnapshotRepository) Load(ctx context.Context) model.Collection {
	var payload []byte
	if err := r.db.QueryRow(ctx, selectSnapshotSQL).Scan(&payload); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Warn("load snapshot: query failed", slog.String("error", err.Error()))
		}
		return model.Collection{}
	}
	var c model.Collection
	if err := json.Unmarshal(payload, &c); err != nil {
		r.log.Warn("load snapshot: decode failed", slog.String("error", err.Error()))
		return model.Collection{}
	}
	if c == nil {
		c = model.Collection{}
	}
	return c
}

// Save replaces the snapshot row.
func (r *SnapshotRepository) Save(ctx context.Context, c model.Collection) error {
	if c == nil {
		c = model.Collection{}
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := r.db.Exec(ctx, upsertSnapshotSQL, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
