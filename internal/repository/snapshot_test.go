package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

// fakeDB keeps the snapshot row in memory.
type fakeDB struct {
	payload  []byte
	queryErr error
	execErr  error
	execs    int
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.queryErr != nil {
		return fakeRow{err: f.queryErr}
	}
	if f.payload == nil {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: f.payload}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs++
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	f.payload = args[0].([]byte)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{}
	repo := NewSnapshotRepository(db, quiet())

	assert.Empty(t, repo.Load(ctx))

	in := model.Collection{{ID: 1, Name: "bulbasaur", Types: []string{"grass"}, ImageRef: "b"}}
	require.NoError(t, repo.Save(ctx, in))
	assert.Equal(t, in, repo.Load(ctx))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(db.payload, &raw))
	assert.Equal(t, "b", raw[0]["url"])
}

func TestSnapshotLoadAbsorbsFailures(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(&fakeDB{queryErr: errors.New("conn refused")}, quiet())
	assert.Empty(t, repo.Load(ctx))

	repo = NewSnapshotRepository(&fakeDB{payload: []byte("not json")}, quiet())
	got := repo.Load(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshotSaveError(t *testing.T) {
	repo := NewSnapshotRepository(&fakeDB{execErr: errors.New("read only")}, quiet())
	err := repo.Save(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert snapshot")
}
