package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dharsanguruparan/Pokedex/internal/s3storage"
)

// handleImage redirects to a presigned object-store URL when the image was
// ingested, and otherwise serves the file from the local image directory.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if file == "" || strings.Contains(file, "..") || strings.ContainsAny(file, `/\`) {
		writeText(w, http.StatusNotFound, "Path not found")
		return
	}

	if s.images != nil {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		key := s3storage.ImageKey(file)
		exists, err := s.images.ImageExists(ctx, key)
		if err != nil {
			s.logWithRequest(r).Warn("image lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		if exists {
			url, err := s.images.PresignImageURL(ctx, key, s.cfg.ImageURLTTL)
			if err == nil {
				http.Redirect(w, r, url, http.StatusTemporaryRedirect)
				return
			}
			s.logWithRequest(r).Warn("presign image failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	path := filepath.Join(s.cfg.ImageDir, strings.ToLower(file))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		writeText(w, http.StatusNotFound, "Path not found")
		return
	}
	http.ServeFile(w, r, path)
}
