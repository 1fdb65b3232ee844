package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/server"
	"github.com/dharsanguruparan/Pokedex/internal/storage"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newAPI(t *testing.T) *APIClient {
	t.Helper()
	cfg := config.Defaults()
	cfg.ImageDir = t.TempDir()
	store := storage.NewMemoryStore(model.Collection{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, ImageRef: "u"},
		{ID: 4, Name: "charmander", Types: []string{"fire"}, ImageRef: "u"},
		{ID: 25, Name: "pikachu", Types: []string{"electric"}, ImageRef: "u"},
		{ID: 26, Name: "raichu", Types: []string{"electric"}, ImageRef: "u"},
		{ID: 81, Name: "magnemite", Types: []string{"electric", "steel"}, ImageRef: "u"},
	})
	svc := catalog.NewService(store, catalog.WithLogger(quiet()))
	ts := httptest.NewServer(server.New(cfg, svc, nil, quiet()).Handler())
	t.Cleanup(ts.Close)
	return NewAPIClient(ts.URL, ts.Client())
}

func names(items []model.DisplayPokemon) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestSyncerPagesAccumulate(t *testing.T) {
	s := NewSyncer(newAPI(t), 2, 0, quiet())
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.LoadMore(ctx))
	require.NoError(t, s.LoadMore(ctx))
	st := s.State()
	assert.Equal(t, 3, st.Page)
	assert.Equal(t, []string{"Bulbasaur", "Charmander", "Pikachu", "Raichu", "Magnemite"}, names(st.Items))
	assert.False(t, st.Loading)
}

func TestSyncerSearchAndTypeReplace(t *testing.T) {
	s := NewSyncer(newAPI(t), 2, 0, quiet())
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Search(ctx, "chu"))
	assert.Equal(t, []string{"Pikachu", "Raichu"}, names(s.State().Items))

	require.NoError(t, s.FilterType(ctx, "STEEL"))
	st := s.State()
	assert.Equal(t, []string{"Magnemite"}, names(st.Items))
	assert.Equal(t, 1, st.Page)
}

func TestSyncerSurfacesServerMessage(t *testing.T) {
	s := NewSyncer(newAPI(t), 2, 0, quiet())
	ctx := context.Background()

	err := s.LoadDetail(ctx, "999")
	require.Error(t, err)
	assert.Equal(t, "Pokemon with id 999 not found", s.State().ErrorMessage)

	require.NoError(t, s.LoadDetail(ctx, "25"))
	st := s.State()
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, "Pikachu", st.Detail.Pokemon.Name)
	assert.Equal(t, "Charmander", st.Detail.Previous.Name)
	assert.Equal(t, "Raichu", st.Detail.Next.Name)
}

func TestSyncerCreate(t *testing.T) {
	s := NewSyncer(newAPI(t), 2, 0, quiet())
	ctx := context.Background()

	created, err := s.Create(ctx, CreateRequest{Name: "eevee", ID: 133, Types: []string{"normal"}, URL: "http://img/e.png"})
	require.NoError(t, err)
	assert.Equal(t, "Eevee", created.Name)
	assert.Equal(t, "/images/eevee.png", created.URL)

	_, err = s.Create(ctx, CreateRequest{Name: "EEVEE", ID: 134, Types: []string{"normal"}, URL: "u"})
	require.Error(t, err)
	assert.Equal(t, "The Pokémon already exists.", s.State().ErrorMessage)
}

func TestSyncerTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	s := NewSyncer(NewAPIClient(ts.URL, nil), 2, 0, quiet())
	require.Error(t, s.Load(context.Background()))
	st := s.State()
	assert.Equal(t, "network error", st.ErrorMessage)
	assert.False(t, st.Loading)
}

func TestSyncerLatencyHonoursContext(t *testing.T) {
	s := NewSyncer(newAPI(t), 2, time.Hour, quiet())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Load(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.State().Loading)
}

type blockingAPI struct {
	API
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) List(ctx context.Context, page, limit int) ([]model.DisplayPokemon, error) {
	close(b.entered)
	<-b.release
	return []model.DisplayPokemon{dp(1, "Stale")}, nil
}

func (b *blockingAPI) Search(ctx context.Context, term string) ([]model.DisplayPokemon, error) {
	return []model.DisplayPokemon{dp(25, "Pikachu")}, nil
}

func TestSyncerDropsStaleResponse(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSyncer(api, 2, 0, quiet())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-api.entered

	require.NoError(t, s.Search(ctx, "pika"))
	close(api.release)
	require.NoError(t, <-done)

	st := s.State()
	assert.Equal(t, []string{"Pikachu"}, names(st.Items))
	assert.False(t, st.Loading)
}
