// Package server wires the catalog into HTTP routes. Handlers receive
// http.ResponseWriter + *http.Request; chi supplies routing and path params.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/middleware"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// Catalog is the set of operations the HTTP layer exposes.
type Catalog interface {
	List(ctx context.Context, page, limit int) ([]model.DisplayPokemon, error)
	Search(ctx context.Context, term string) ([]model.DisplayPokemon, error)
	FilterByType(ctx context.Context, typ string) ([]model.DisplayPokemon, error)
	Get(ctx context.Context, rawID string) (catalog.Detail, error)
	Create(ctx context.Context, cand catalog.Candidate) (model.DisplayPokemon, error)
}

// ImageSource resolves images held in an object store.
type ImageSource interface {
	ImageExists(ctx context.Context, key string) (bool, error)
	PresignImageURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Server hosts the Pokedex HTTP API.
type Server struct {
	cfg     *config.Config
	catalog Catalog
	images  ImageSource
	log     *slog.Logger

	once    sync.Once
	handler http.Handler
}

// New creates a server. images may be nil, in which case /images is served
// from cfg.ImageDir only.
func New(cfg *config.Config, svc Catalog, images ImageSource, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		catalog: svc,
		images:  images,
		log:     log,
	}
}

// Handler returns the routed handler, building it on first use.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		s.handler = s.routes()
	})
	return s.handler
}

// Serve launches the HTTP server until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	s.log.Info("server started", slog.String("addr", s.cfg.Address))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.log))
	r.Use(middleware.CORS(s.cfg.FrontendOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Path not found")
	})

	r.Get("/", s.handleWelcome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/images/{file}", s.handleImage)

	createLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.CreateRateLimit > 0 {
		createLimit = middleware.NewRateLimiter(s.cfg.CreateRateLimit, s.cfg.CreateRateWindow).Middleware
	}

	r.Route("/pokemons", func(api chi.Router) {
		api.Get("/", s.handleList)
		api.Get("/search", s.handleSearch)
		api.Get("/type", s.handleType)
		api.Get("/type/", s.handleType)
		api.Get("/type/{type}", s.handleType)
		api.Get("/{id}", s.handleGet)
		api.With(createLimit).Post("/", s.handleCreate)
	})
	return r
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.log.With(slog.String("request_id", id))
	}
	return s.log
}
