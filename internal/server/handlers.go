package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
)

const (
	requestTimeout = 5 * time.Second
	maxCreateBody  = 64 << 10
)

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Welcome to Pokedex")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := r.URL.Query()
	page, err := positiveParam(q.Get("page"), 1, "page")
	if err != nil {
		writeError(w, log, err, false)
		return
	}
	limit, err := positiveParam(q.Get("limit"), s.cfg.DefaultPageSize, "limit")
	if err != nil {
		writeError(w, log, err, false)
		return
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := s.catalog.List(ctx, page, limit)
	if err != nil {
		writeError(w, log, err, false)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := r.URL.Query()
	term := q.Get("name")
	if strings.TrimSpace(term) == "" {
		term = q.Get("search")
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := s.catalog.Search(ctx, term)
	if err != nil {
		writeError(w, log, err, true)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := s.catalog.FilterByType(ctx, chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, log, err, true)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	detail, err := s.catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err, false)
		return
	}
	writeData(w, http.StatusOK, detail)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)

	var cand catalog.Candidate
	if err := decodeJSON(r.Body, &cand); err != nil {
		log.Warn("create pokemon: invalid json", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	created, err := s.catalog.Create(ctx, cand)
	if err != nil {
		log.Warn("create pokemon: rejected", slog.String("error", err.Error()))
		writeError(w, log, err, false)
		return
	}
	log.Info("create pokemon: ok", slog.Int("pokemon_id", created.ID))
	writeData(w, http.StatusCreated, created)
}

// positiveParam parses an optional positive integer query value.
func positiveParam(raw string, def int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &catalog.Error{Kind: catalog.KindInvalidArgument, Message: name + " must be a positive integer"}
	}
	return n, nil
}
