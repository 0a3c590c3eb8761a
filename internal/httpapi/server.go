// Package httpapi exposes the catalog, playlist and moderation operations
// over HTTP under /api/open, /api/secure and /api/admin.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"playlist-hub/internal/catalog"
	"playlist-hub/internal/moderation"
	"playlist-hub/internal/playlist"
)

// TrackLookup resolves a single catalog entry.
type TrackLookup interface {
	LookupByID(id string) (catalog.Track, bool)
}

type Server struct {
	search    catalog.Searcher
	tracks    TrackLookup
	playlists *playlist.Service
	gate      *moderation.Gate
	secret    []byte
	metrics   *Metrics
	logger    *slog.Logger
}

type Deps struct {
	Search    catalog.Searcher
	Tracks    TrackLookup
	Playlists *playlist.Service
	Gate      *moderation.Gate
	JWTSecret []byte
	Metrics   *Metrics
	Logger    *slog.Logger
}

func NewServer(d Deps) *Server {
	s := &Server{
		search:    d.Search,
		tracks:    d.Tracks,
		playlists: d.Playlists,
		gate:      d.Gate,
		secret:    d.JWTSecret,
		metrics:   d.Metrics,
		logger:    d.Logger,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(s.metrics.Middleware)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/open", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/track/{id}", s.handleGetTrack)
		r.Get("/public-playlists", s.handleListPublic)
		r.Get("/public-playlists/{playlist}/{creator}", s.handleGetPublic)
	})

	r.Route("/api/secure", func(r chi.Router) {
		r.Use(jwtAuthMiddleware(s.secret))

		r.Get("/{owner}/playlists", s.handleListOwned)
		r.Get("/{owner}/{playlist}", s.handleGetPlaylist)
		r.Put("/{owner}/{playlist}", s.handleCreatePlaylist)
		r.Post("/{owner}/{playlist}", s.handleUpdatePlaylist)
		r.Delete("/{owner}/{playlist}", s.handleDeletePlaylist)
		r.Put("/{owner}/{playlist}/{creator}/create-review", s.handleCreateReview)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(jwtAuthMiddleware(s.secret))

		r.Post("/{admin}/{playlist}/{creator}/reviews/{reviewer}/change-hidden", s.handleChangeHidden)
		r.Put("/{admin}/log/{logType}", s.handleAppendLog)
		r.Get("/{admin}/log", s.handleListLog)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "playlist-hub",
	})
}
