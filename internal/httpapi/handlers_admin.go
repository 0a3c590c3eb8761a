package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"playlist-hub/internal/auth"
	"playlist-hub/internal/moderation"
)

func (s *Server) handleChangeHidden(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireAdmin(claimsFromContext(r), chi.URLParam(r, "admin")); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var in moderation.HideInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	ref := moderation.ReviewRef{
		PlaylistName: chi.URLParam(r, "playlist"),
		Creator:      chi.URLParam(r, "creator"),
		Reviewer:     chi.URLParam(r, "reviewer"),
	}
	review, err := s.gate.SetReviewHidden(r.Context(), claimsFromContext(r), chi.URLParam(r, "admin"), ref, in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireAdmin(claimsFromContext(r), chi.URLParam(r, "admin")); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var in moderation.LogInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	entry, err := s.gate.AppendLog(r.Context(), claimsFromContext(r), chi.URLParam(r, "admin"), chi.URLParam(r, "logType"), in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.gate.ListLog(r.Context(), claimsFromContext(r), chi.URLParam(r, "admin"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
