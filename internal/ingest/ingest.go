// Package ingest copies a record's source image into the object store so the
// derived /images/<name>.png path resolves.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/s3storage"
)

// MaxImageBytes bounds a downloaded image.
const MaxImageBytes = 5 << 20

// ErrUnsupportedSource marks image references that cannot be fetched, such
// as relative paths. Retrying does not help.
var ErrUnsupportedSource = errors.New("image source is not an http(s) url")

// ErrNotImage is returned when the fetched body is not an image.
var ErrNotImage = fmt.Errorf("%w: body is not an image", ErrUnsupportedSource)

// Job names one image to ingest.
type Job struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// ImageStore is where fetched images are written.
type ImageStore interface {
	UploadImage(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Ingester downloads images and uploads them to an ImageStore.
type Ingester struct {
	store ImageStore
	http  *http.Client
	log   *slog.Logger
}

func New(store ImageStore, client *http.Client, log *slog.Logger) *Ingester {
	if client == nil {
		client = NewHTTPClient(15 * time.Second)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{store: store, http: client, log: log}
}

// Key returns the object key the image for name is stored under.
func Key(name string) string {
	// model.ImagePath yields "/images/<name>.png"; the object key drops the
	// leading slash.
	return s3storage.ImageKey(model.ImagePath(name)[len("/images/"):])
}

// Ingest fetches job.Source and stores it under Key(job.Name).
func (i *Ingester) Ingest(ctx context.Context, job Job) error {
	u, err := url.Parse(job.Source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, job.Source)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := i.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return errors.New("empty image")
	}
	if len(data) > MaxImageBytes {
		return fmt.Errorf("image exceeds limit (%d bytes)", MaxImageBytes)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}
	key := Key(job.Name)
	if err := i.store.UploadImage(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return err
	}
	i.log.Info("image ingested", slog.String("name", job.Name), slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}
