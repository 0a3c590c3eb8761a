package playlist

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"playlist-hub/internal/apperr"
	"playlist-hub/internal/model"
	"playlist-hub/internal/rating"
	"playlist-hub/internal/validate"
)

// PlaylistInput is the client-supplied part of a playlist. Name, creator and
// every derived field come from the path and the service, never the body.
type PlaylistInput struct {
	Name        string   `json:"name" validate:"omitempty,max=200,safestring"`
	TrackIDs    []string `json:"trackIds" validate:"max=500,dive,required,max=64"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=public private"`
	Description string   `json:"description" validate:"max=1000"`
}

// RawRating keeps the rating exactly as it appeared in the request body.
// Quoted values keep their quotes and are rejected as non-numeric.
type RawRating string

func (r *RawRating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	*r = RawRating(b)
	return nil
}

// ReviewInput carries the rating as a raw token so that strings and
// non-integer values are reported instead of coerced.
type ReviewInput struct {
	Rating  RawRating `json:"rating" validate:"required"`
	Comment string      `json:"comment" validate:"required,max=1000,excludesall=<>"`
}

// draft is a validated playlist ready to be stamped with derived fields.
type draft struct {
	name        string
	trackIDs    []string
	visibility  model.Visibility
	description string
}

func (in PlaylistInput) toDraft(pathName string) (draft, error) {
	if err := validate.Name("playlist", pathName); err != nil {
		return draft{}, err
	}
	if err := validate.Struct(in); err != nil {
		return draft{}, err
	}

	d := draft{
		name:        pathName,
		trackIDs:    append([]string{}, in.TrackIDs...),
		visibility:  model.VisibilityPrivate,
		description: strings.TrimSpace(in.Description),
	}
	if in.Name != "" {
		d.name = in.Name
	}
	if in.Visibility != "" {
		d.visibility = model.Visibility(in.Visibility)
	}
	return d, nil
}

func (in ReviewInput) value() (int, error) {
	if err := validate.Struct(in); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(in.Rating), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, apperr.Validation("rating must be an integer")
	}
	if f < 1 || f > 5 || !rating.Valid(int(f)) {
		return 0, apperr.Validation("rating must be between 1 and 5")
	}
	return int(f), nil
}
