package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/storage"
	"github.com/dharsanguruparan/Pokedex/internal/validation"
)

// ImageQueue accepts follow-up work for a newly created record's image.
type ImageQueue interface {
	EnqueueImage(ctx context.Context, name, source string) error
}

// Service runs catalog operations against a Store. Each call loads the
// collection afresh; nothing is cached here.
type Service struct {
	store  storage.Store
	val    *validation.Validator
	log    *slog.Logger
	images ImageQueue

	// writeMu serializes creates within this process so two concurrent
	// submissions cannot both pass the uniqueness check.
	writeMu sync.Mutex
}

type Option func(*Service)

// WithImageQueue hands every created record's image reference to q.
func WithImageQueue(q ImageQueue) Option {
	return func(s *Service) { s.images = q }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithValidator(v *validation.Validator) Option {
	return func(s *Service) { s.val = v }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.val == nil {
		s.val = defaultValidator
	}
	return s
}

func (s *Service) List(ctx context.Context, page, limit int) ([]model.DisplayPokemon, error) {
	return ListPage(s.store.Load(ctx), page, limit)
}

func (s *Service) Search(ctx context.Context, term string) ([]model.DisplayPokemon, error) {
	if strings.TrimSpace(term) == "" {
		return nil, invalidArgument("search term is required")
	}
	return SearchByName(s.store.Load(ctx), term)
}

func (s *Service) FilterByType(ctx context.Context, typ string) ([]model.DisplayPokemon, error) {
	if strings.TrimSpace(typ) == "" {
		return nil, invalidArgument("type is required")
	}
	return FilterByType(s.store.Load(ctx), typ)
}

// Get resolves rawID, which must be an integer, with its neighbours. An id
// that does not parse cannot match any record and is reported as not found.
func (s *Service) Get(ctx context.Context, rawID string) (Detail, error) {
	rawID = strings.TrimSpace(rawID)
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Detail{}, notFound(rawID)
	}
	return GetByIDWithNeighbors(s.store.Load(ctx), id)
}

// Create validates and appends cand, then rewrites the store.
func (s *Service) Create(ctx context.Context, cand Candidate) (model.DisplayPokemon, error) {
	s.writeMu.Lock()
	current := s.store.Load(ctx)
	next, display, err := Create(current, cand, s.val)
	if err != nil {
		s.writeMu.Unlock()
		return model.DisplayPokemon{}, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.writeMu.Unlock()
		return model.DisplayPokemon{}, fmt.Errorf("save collection: %w", err)
	}
	s.writeMu.Unlock()

	if s.images != nil {
		created := next[len(next)-1]
		if err := s.images.EnqueueImage(ctx, created.Name, created.ImageRef); err != nil {
			// The record is already persisted; a lost ingest only leaves the
			// image unresolved.
			s.log.Warn("enqueue image ingest failed",
				slog.Int("pokemon_id", created.ID),
				slog.String("error", err.Error()))
		}
	}
	return display, nil
}
