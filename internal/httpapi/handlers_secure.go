package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"playlist-hub/internal/auth"
	"playlist-hub/internal/playlist"
)

func (s *Server) handleListOwned(w http.ResponseWriter, r *http.Request) {
	out, err := s.playlists.ListByOwner(r.Context(), claimsFromContext(r), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := s.playlists.Get(r.Context(), claimsFromContext(r), chi.URLParam(r, "owner"), chi.URLParam(r, "playlist"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreatePlaylist creates the playlist named in the path.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireOwner(claimsFromContext(r), chi.URLParam(r, "owner")); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var in playlist.PlaylistInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	p, err := s.playlists.Create(r.Context(), claimsFromContext(r), chi.URLParam(r, "owner"), chi.URLParam(r, "playlist"), in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleUpdatePlaylist replaces the playlist named in the path. A name in the
// body renames it.
func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireOwner(claimsFromContext(r), chi.URLParam(r, "owner")); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var in playlist.PlaylistInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	p, err := s.playlists.Update(r.Context(), claimsFromContext(r), chi.URLParam(r, "owner"), chi.URLParam(r, "playlist"), in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := s.playlists.Delete(r.Context(), claimsFromContext(r), chi.URLParam(r, "owner"), chi.URLParam(r, "playlist"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreateReview lets {owner} review {creator}'s playlist.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireOwner(claimsFromContext(r), chi.URLParam(r, "owner")); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var in playlist.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	review, err := s.playlists.AddReview(r.Context(), claimsFromContext(r),
		chi.URLParam(r, "owner"), chi.URLParam(r, "creator"), chi.URLParam(r, "playlist"), in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
