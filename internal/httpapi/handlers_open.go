package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"playlist-hub/internal/apperr"
	"playlist-hub/internal/catalog"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tracks, err := s.search.Search(r.Context(), catalog.Query{
		Title:  q.Get("title"),
		Genre:  q.Get("genre"),
		Artist: q.Get("artist"),
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.tracks.LookupByID(id)
	if !ok {
		s.writeAppError(w, r, apperr.NotFound("track %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListPublic(w http.ResponseWriter, r *http.Request) {
	out, err := s.playlists.ListPublic(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPublic(w http.ResponseWriter, r *http.Request) {
	p, err := s.playlists.GetPublic(r.Context(), chi.URLParam(r, "creator"), chi.URLParam(r, "playlist"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
