package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// API is the remote surface the Syncer drives.
type API interface {
	List(ctx context.Context, page, limit int) ([]model.DisplayPokemon, error)
	Search(ctx context.Context, term string) ([]model.DisplayPokemon, error)
	FilterByType(ctx context.Context, typ string) ([]model.DisplayPokemon, error)
	Get(ctx context.Context, id string) (catalog.Detail, error)
	Create(ctx context.Context, req CreateRequest) (model.DisplayPokemon, error)
}

// Syncer issues queries and folds their results into a State. A response is
// discarded when a newer query of the same kind started after it.
type Syncer struct {
	api      API
	pageSize int
	latency  time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	state     State
	listSeq   uint64
	detailSeq uint64
}

// NewSyncer builds a Syncer. latency is waited after each round trip; zero
// disables it.
func NewSyncer(api API, pageSize int, latency time.Duration, log *slog.Logger) *Syncer {
	if pageSize <= 0 {
		pageSize = 10
	}
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{api: api, pageSize: pageSize, latency: latency, log: log, state: NewState()}
}

// State returns a snapshot of the current state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Load runs the list query selected by the current type, search and page.
func (s *Syncer) Load(ctx context.Context) error {
	s.mu.Lock()
	mode, page := s.state.Mode(), s.state.Page
	search, typ := s.state.Search, s.state.Type
	s.listSeq++
	seq := s.listSeq
	s.state.Apply(QueryStarted{Mode: mode, Page: page})
	s.mu.Unlock()

	var (
		items []model.DisplayPokemon
		err   error
	)
	switch mode {
	case ModeType:
		items, err = s.api.FilterByType(ctx, typ)
	case ModeSearch:
		items, err = s.api.Search(ctx, search)
	default:
		items, err = s.api.List(ctx, page, s.pageSize)
	}
	if err == nil {
		err = s.wait(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.listSeq {
		s.log.Debug("dropping stale list response", slog.String("mode", mode.String()), slog.Int("page", page))
		return nil
	}
	if err != nil {
		s.state.Apply(QueryFailed{Err: err})
		return err
	}
	s.state.Apply(QuerySucceeded{Items: items})
	return nil
}

// LoadMore advances to the next page and loads it.
func (s *Syncer) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	s.state.Apply(PageAdvanced{})
	s.mu.Unlock()
	return s.Load(ctx)
}

// Search sets the term, rewinds to page 1 and loads.
func (s *Syncer) Search(ctx context.Context, term string) error {
	s.mu.Lock()
	s.state.Apply(SearchTermChanged{Term: term})
	s.state.Apply(PageAdvanced{Page: 1})
	s.mu.Unlock()
	return s.Load(ctx)
}

// FilterType sets the type filter, rewinds to page 1 and loads.
func (s *Syncer) FilterType(ctx context.Context, typ string) error {
	s.mu.Lock()
	s.state.Apply(TypeChanged{Type: typ})
	s.state.Apply(PageAdvanced{Page: 1})
	s.mu.Unlock()
	return s.Load(ctx)
}

// LoadDetail fetches a record and its neighbours into the detail view.
func (s *Syncer) LoadDetail(ctx context.Context, id string) error {
	s.mu.Lock()
	s.detailSeq++
	seq := s.detailSeq
	s.state.Apply(DetailStarted{})
	s.mu.Unlock()

	detail, err := s.api.Get(ctx, id)
	if err == nil {
		err = s.wait(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.detailSeq {
		return nil
	}
	if err != nil {
		s.state.Apply(DetailFailed{Err: err})
		return err
	}
	s.state.Apply(DetailSucceeded{Detail: detail})
	return nil
}

// Create submits a new record.
func (s *Syncer) Create(ctx context.Context, req CreateRequest) (model.DisplayPokemon, error) {
	s.mu.Lock()
	s.state.Apply(CreateStarted{})
	s.mu.Unlock()

	created, err := s.api.Create(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Apply(CreateFailed{Err: err})
		return model.DisplayPokemon{}, err
	}
	s.state.Apply(CreateSucceeded{})
	return created, nil
}

func (s *Syncer) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
