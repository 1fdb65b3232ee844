package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// FileStore keeps the collection as a JSON array in a single file. The file
// is re-read on every Load; nothing is held in memory between calls.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore returns a store backed by path, creating its directory.
func NewFileStore(path string, log *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("data file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileStore{path: path, log: log}, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) model.Collection {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Collection{}
	}
	if err != nil {
		f.log.Warn("load pokemon data: read failed", slog.String("path", f.path), slog.String("error", err.Error()))
		return model.Collection{}
	}
	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		f.log.Warn("load pokemon data: decode failed", slog.String("path", f.path), slog.String("error", err.Error()))
		return model.Collection{}
	}
	if c == nil {
		c = model.Collection{}
	}
	return c
}

// Save writes the collection to a temp file in the same directory and renames
// it over the target, so readers see either the old or the new file.
func (f *FileStore) Save(ctx context.Context, c model.Collection) error {
	if c == nil {
		c = model.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".pokemon-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Seed replaces the store contents with the JSON array read from src.
func Seed(ctx context.Context, dst Store, src string) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}
	if err := dst.Save(ctx, c); err != nil {
		return 0, err
	}
	return len(c), nil
}
