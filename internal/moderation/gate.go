// Package moderation lets admins hide reviews and keep an append-only log of
// moderation requests, notices and disputes.
package moderation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"playlist-hub/internal/apperr"
	"playlist-hub/internal/auth"
	"playlist-hub/internal/model"
	"playlist-hub/internal/rating"
	"playlist-hub/internal/store"
	"playlist-hub/internal/validate"
)

// ReviewRef names one review: the playlist it belongs to and its
// (reviewer, dateTime) key.
type ReviewRef struct {
	PlaylistName string
	Creator      string
	Reviewer     string
}

type HideInput struct {
	DateTime string `json:"dateTime"`
	Hidden   *bool  `json:"hidden" validate:"required"`
}

type LogInput struct {
	PlaylistName   string `json:"playlistName" validate:"required,max=200"`
	CreatorName    string `json:"creatorName" validate:"required,max=200"`
	ReviewerName   string `json:"reviewerName" validate:"required,max=200"`
	ReviewDateTime string `json:"reviewDateTime"`
	Date           string `json:"date"`
	Notes          string `json:"notes" validate:"max=2000"`
}

type Gate struct {
	store  store.Store
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func WithIDs(newID func() string) Option {
	return func(g *Gate) { g.newID = newID }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

func NewGate(st store.Store, opts ...Option) *Gate {
	g := &Gate{
		store:  st,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetReviewHidden flips the hidden flag of one review and refreshes the
// playlist average. It returns the updated review.
func (g *Gate) SetReviewHidden(ctx context.Context, caller *auth.Claims, admin string, ref ReviewRef, in HideInput) (model.Review, error) {
	if err := auth.RequireAdmin(caller, admin); err != nil {
		return model.Review{}, err
	}
	if err := validate.Struct(in); err != nil {
		return model.Review{}, err
	}
	at, err := parseTimestamp("dateTime", in.DateTime)
	if err != nil {
		return model.Review{}, err
	}
	hidden := *in.Hidden

	var updated model.Review
	err = g.store.Commit(ctx, func(snap *store.Snapshot) error {
		p, err := findPlaylist(snap, ref)
		if err != nil {
			return err
		}
		j := p.FindReview(ref.Reviewer, at)
		if j < 0 {
			return apperr.NotFound("review by %q not found", ref.Reviewer)
		}
		p.Reviews[j].Hidden = hidden
		p.AverageRating = rating.Recompute(p.Reviews)
		updated = p.Reviews[j]
		return nil
	})
	if err != nil {
		return model.Review{}, g.report("set review hidden", err)
	}
	g.logger.Info("review visibility changed",
		"component", "moderation",
		"admin", admin,
		"creator", ref.Creator,
		"playlist", ref.PlaylistName,
		"reviewer", ref.Reviewer,
		"hidden", hidden,
	)
	return updated, nil
}

// AppendLog records a moderation entry of the given type against an
// existing review.
func (g *Gate) AppendLog(ctx context.Context, caller *auth.Claims, admin, logType string, in LogInput) (model.LogEntry, error) {
	if err := auth.RequireAdmin(caller, admin); err != nil {
		return model.LogEntry{}, err
	}
	typ := model.LogType(logType)
	if !typ.Valid() {
		return model.LogEntry{}, apperr.Rule("log type must be one of Request, Notice, Dispute")
	}
	if err := validate.Struct(in); err != nil {
		return model.LogEntry{}, err
	}
	date, err := parseTimestamp("date", in.Date)
	if err != nil {
		return model.LogEntry{}, err
	}
	reviewAt, err := parseTimestamp("reviewDateTime", in.ReviewDateTime)
	if err != nil {
		return model.LogEntry{}, err
	}

	entry := model.LogEntry{
		ID:             g.newID(),
		Type:           typ,
		Admin:          admin,
		PlaylistName:   in.PlaylistName,
		Creator:        in.CreatorName,
		Reviewer:       in.ReviewerName,
		ReviewDateTime: reviewAt,
		Date:           date,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      g.now().UTC().Truncate(time.Millisecond),
	}
	ref := ReviewRef{PlaylistName: in.PlaylistName, Creator: in.CreatorName, Reviewer: in.ReviewerName}

	err = g.store.Commit(ctx, func(snap *store.Snapshot) error {
		p, err := findPlaylist(snap, ref)
		if err != nil {
			return err
		}
		if p.FindReview(ref.Reviewer, reviewAt) < 0 {
			return apperr.NotFound("review by %q not found", ref.Reviewer)
		}
		snap.ModerationLog = append(snap.ModerationLog, entry)
		return nil
	})
	if err != nil {
		return model.LogEntry{}, g.report("append log", err)
	}
	return entry, nil
}

// ListLog returns the moderation log in insertion order.
func (g *Gate) ListLog(ctx context.Context, caller *auth.Claims, admin string) ([]model.LogEntry, error) {
	if err := auth.RequireAdmin(caller, admin); err != nil {
		return nil, err
	}
	snap, err := g.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return append([]model.LogEntry{}, snap.ModerationLog...), nil
}

func findPlaylist(snap *store.Snapshot, ref ReviewRef) (*model.Playlist, error) {
	i := snap.FindPlaylist(ref.Creator, ref.PlaylistName)
	if i < 0 {
		return nil, apperr.NotFound("playlist %q by %q not found", ref.PlaylistName, ref.Creator)
	}
	return &snap.Playlists[i], nil
}

// parseTimestamp accepts RFC 3339 date-times and plain dates.
func parseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Rule("%s must be a valid timestamp", field)
	}
	if strfmt.IsDate(s) {
		d, err := time.Parse(strfmt.RFC3339FullDate, s)
		if err == nil {
			return d.UTC(), nil
		}
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil || time.Time(dt).IsZero() {
		return time.Time{}, apperr.Rule("%s must be a valid timestamp", field)
	}
	return time.Time(dt).UTC(), nil
}

func (g *Gate) report(op string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		g.logger.Error("moderation operation failed", "component", "moderation", "op", op, "err", err)
	}
	return err
}
