package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Address)
	assert.Equal(t, StoreDriverFile, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.ClientLatency)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.ObjectStoreEnabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "pokedex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: \":9000\"\nmax_page_size: 50\nclient_latency: 1s\nredis_addr: cache:6379\n"), 0o600))
	t.Setenv("POKEDEX_CONFIG", path)
	t.Setenv("POKEDEX_ADDRESS", ":9100")
	t.Setenv("POKEDEX_API_URL", "http://api:9100/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Address)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, time.Second, cfg.ClientLatency)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "http://api:9100", cfg.APIBaseURL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POKEDEX_STORE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDriverNeedsURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POKEDEX_STORE_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("POKEDEX_DATABASE_URL", "postgres://localhost/pokedex")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("# comment\nPOKEDEX_PAGE_SIZE=20\nPOKEDEX_WORKERS=\"4\"\n"), 0o600))
	t.Setenv("POKEDEX_PAGE_SIZE", "15")
	t.Setenv("POKEDEX_WORKERS", "")
	os.Unsetenv("POKEDEX_WORKERS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.DefaultPageSize)
	assert.Equal(t, 4, cfg.ProcessingPool)
}

func TestNormalizeClampsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.DefaultPageSize = -1
	cfg.MaxPageSize = 0
	cfg.ClientLatency = -time.Second
	cfg.ProcessingPool = 0
	require.NoError(t, cfg.normalize())
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 10, cfg.MaxPageSize)
	assert.Equal(t, time.Duration(0), cfg.ClientLatency)
	assert.Equal(t, 2, cfg.ProcessingPool)
}
