package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/server"
	"github.com/dharsanguruparan/Pokedex/internal/storage"
)

func startAPI(t *testing.T) string {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Defaults()
	cfg.ImageDir = t.TempDir()
	store := storage.NewMemoryStore(model.Collection{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, ImageRef: "u"},
		{ID: 25, Name: "pikachu", Types: []string{"electric"}, ImageRef: "u"},
		{ID: 81, Name: "magnemite", Types: []string{"electric", "steel"}, ImageRef: "u"},
	})
	ts := httptest.NewServer(server.New(cfg, catalog.NewService(store, catalog.WithLogger(quiet)), nil, quiet).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListAndSearch(t *testing.T) {
	api := startAPI(t)

	out, err := run(t, "--api", api, "list", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bulbasaur")
	assert.Contains(t, out, "Pikachu")
	assert.NotContains(t, out, "Magnemite")

	out, err = run(t, "--api", api, "search", "PIKA")
	require.NoError(t, err)
	assert.Contains(t, out, "/images/pikachu.png")
}

func TestShowWraps(t *testing.T) {
	out, err := run(t, "--api", startAPI(t), "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Bulbasaur [grass, poison]")
	assert.Contains(t, out, "previous: #81 Magnemite")
	assert.Contains(t, out, "next:     #25 Pikachu")
}

func TestCreateReportsServerMessage(t *testing.T) {
	api := startAPI(t)
	out, err := run(t, "--api", api, "create", "--name", "eevee", "--id", "133", "-t", "normal", "--url", "http://img/e.png")
	require.NoError(t, err)
	assert.Equal(t, "created #133 Eevee\n", out)

	_, err = run(t, "--api", api, "create", "--name", "vulpix", "--id", "37", "-t", "fire,water,ice", "--url", "u")
	require.Error(t, err)
	assert.Equal(t, "Pokémon can only have one or two types.", err.Error())
}

func TestBrowseLoadsPages(t *testing.T) {
	api := startAPI(t)
	out, err := run(t, "--api", api, "--limit", "1", "browse", "--pages", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "mode=page page=4 items=3")

	out, err = run(t, "--api", api, "browse", "--type", "electric")
	require.NoError(t, err)
	assert.Contains(t, out, "mode=type page=1 items=2")
}

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"id":1,"name":"bulbasaur","types":["grass"],"url":"u"}]`), 0o644))
	t.Setenv("POKEDEX_DATA_FILE", filepath.Join(dir, "store.json"))
	t.Setenv("POKEDEX_STORE_DRIVER", "file")

	out, err := run(t, "seed", src)
	require.NoError(t, err)
	assert.Equal(t, "seeded 1 records into file store\n", out)
}
