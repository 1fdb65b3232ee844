package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(model.Collection{{ID: 1, Name: "a", Types: []string{"bug"}}})
	got := m.Load(ctx)
	got[0].Name = "mutated"
	got[0].Types[0] = "fire"
	again := m.Load(ctx)
	assert.Equal(t, "a", again[0].Name)
	assert.Equal(t, "bug", again[0].Types[0])
}

func TestMemoryStoreSave(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(nil)
	assert.Empty(t, m.Load(ctx))
	require.NoError(t, m.Save(ctx, model.Collection{{ID: 2, Name: "b"}}))
	assert.Len(t, m.Load(ctx), 1)
	assert.Equal(t, 1, m.Saves())
}
