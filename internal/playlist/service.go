// Package playlist owns playlist lifecycle: validation of untrusted input,
// per-owner quota, derived fields and reviews. Every mutation runs as one
// store commit so readers never see a half-applied change.
package playlist

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"playlist-hub/internal/apperr"
	"playlist-hub/internal/auth"
	"playlist-hub/internal/catalog"
	"playlist-hub/internal/model"
	"playlist-hub/internal/rating"
	"playlist-hub/internal/store"
	"playlist-hub/internal/validate"
)

const (
	DefaultMaxPerOwner = 20
	DefaultPublicLimit = 10
)

// Catalog is the part of the track catalog the service needs.
type Catalog interface {
	MissingIDs(ids []string) []string
	TotalDuration(ids []string) int
}

type Service struct {
	store       store.Store
	catalog     Catalog
	now         func() time.Time
	maxPerOwner int
	publicLimit int
	logger      *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMaxPerOwner(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPerOwner = n
		}
	}
}

// WithPublicLimit lowers the public listing size. Values outside
// 1..DefaultPublicLimit are ignored.
func WithPublicLimit(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= DefaultPublicLimit {
			s.publicLimit = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(st store.Store, cat Catalog, opts ...Option) *Service {
	s := &Service{
		store:       st,
		catalog:     cat,
		now:         time.Now,
		maxPerOwner: DefaultMaxPerOwner,
		publicLimit: DefaultPublicLimit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListByOwner returns the owner's playlists, most recently modified first.
func (s *Service) ListByOwner(ctx context.Context, caller *auth.Claims, owner string) ([]model.Playlist, error) {
	if err := auth.RequireOwner(caller, owner); err != nil {
		return nil, err
	}
	snap, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := []model.Playlist{}
	for _, p := range snap.Playlists {
		if p.Creator == owner {
			out = append(out, p.Clone())
		}
	}
	sortByLastModified(out)
	return out, nil
}

// ListPublic returns at most the configured number of public playlists, most
// recently modified first, with hidden reviews removed.
func (s *Service) ListPublic(ctx context.Context) ([]model.Playlist, error) {
	snap, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := []model.Playlist{}
	for _, p := range snap.Playlists {
		if p.IsPublic() {
			out = append(out, p.WithoutHiddenReviews())
		}
	}
	sortByLastModified(out)
	if len(out) > s.publicLimit {
		out = out[:s.publicLimit]
	}
	return out, nil
}

// GetPublic returns one public playlist. Private playlists are reported as
// missing so their existence is not disclosed.
func (s *Service) GetPublic(ctx context.Context, creator, name string) (model.Playlist, error) {
	snap, err := s.store.Read(ctx)
	if err != nil {
		return model.Playlist{}, err
	}
	i := snap.FindPlaylist(creator, name)
	if i < 0 || !snap.Playlists[i].IsPublic() {
		return model.Playlist{}, apperr.NotFound("playlist %q by %q not found", name, creator)
	}
	return snap.Playlists[i].WithoutHiddenReviews(), nil
}

func (s *Service) Get(ctx context.Context, caller *auth.Claims, owner, name string) (model.Playlist, error) {
	if err := auth.RequireOwner(caller, owner); err != nil {
		return model.Playlist{}, err
	}
	snap, err := s.store.Read(ctx)
	if err != nil {
		return model.Playlist{}, err
	}
	i := snap.FindPlaylist(owner, name)
	if i < 0 {
		return model.Playlist{}, apperr.NotFound("playlist %q not found", name)
	}
	return snap.Playlists[i].Clone(), nil
}

func (s *Service) Create(ctx context.Context, caller *auth.Claims, owner, name string, in PlaylistInput) (model.Playlist, error) {
	if err := auth.RequireOwner(caller, owner); err != nil {
		return model.Playlist{}, err
	}
	if err := validate.Name("owner", owner); err != nil {
		return model.Playlist{}, err
	}
	d, err := in.toDraft(name)
	if err != nil {
		return model.Playlist{}, err
	}
	if d.name != name {
		return model.Playlist{}, apperr.Validation("name in body does not match the playlist path")
	}
	if err := s.checkTracks(d.trackIDs); err != nil {
		return model.Playlist{}, err
	}

	now := s.stamp()
	var created model.Playlist
	err = s.store.Commit(ctx, func(snap *store.Snapshot) error {
		if snap.CountOwnedBy(owner) >= s.maxPerOwner {
			return apperr.Validation("playlist limit of %d reached", s.maxPerOwner)
		}
		if snap.FindPlaylist(owner, d.name) >= 0 {
			return apperr.Validation("playlist %q already exists", d.name)
		}
		p := model.Playlist{
			Name:          d.name,
			Creator:       owner,
			Reviews:       []model.Review{},
			AverageRating: model.NoRatings(),
		}
		s.apply(&p, d, now)
		snap.Playlists = append(snap.Playlists, p)
		created = p.Clone()
		return nil
	})
	if err != nil {
		return model.Playlist{}, s.report("create", err)
	}
	return created, nil
}

// Update replaces the editable fields of owner's playlist oldName. A name in
// the body renames the playlist. Reviews and the average are left alone.
func (s *Service) Update(ctx context.Context, caller *auth.Claims, owner, oldName string, in PlaylistInput) (model.Playlist, error) {
	if err := auth.RequireOwner(caller, owner); err != nil {
		return model.Playlist{}, err
	}
	if err := validate.Name("owner", owner); err != nil {
		return model.Playlist{}, err
	}
	d, err := in.toDraft(oldName)
	if err != nil {
		return model.Playlist{}, err
	}
	if err := s.checkTracks(d.trackIDs); err != nil {
		return model.Playlist{}, err
	}

	now := s.stamp()
	var updated model.Playlist
	err = s.store.Commit(ctx, func(snap *store.Snapshot) error {
		i := snap.FindPlaylist(owner, oldName)
		if i < 0 {
			return apperr.NotFound("playlist %q not found", oldName)
		}
		if d.name != oldName && snap.FindPlaylist(owner, d.name) >= 0 {
			return apperr.Validation("playlist %q already exists", d.name)
		}
		p := &snap.Playlists[i]
		p.Name = d.name
		s.apply(p, d, now)
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return model.Playlist{}, s.report("update", err)
	}
	return updated, nil
}

// Delete removes owner's playlist and returns what was removed.
func (s *Service) Delete(ctx context.Context, caller *auth.Claims, owner, name string) (model.Playlist, error) {
	if err := auth.RequireOwner(caller, owner); err != nil {
		return model.Playlist{}, err
	}

	var removed model.Playlist
	err := s.store.Commit(ctx, func(snap *store.Snapshot) error {
		i := snap.FindPlaylist(owner, name)
		if i < 0 {
			return apperr.NotFound("playlist %q not found", name)
		}
		removed = snap.Playlists[i].Clone()
		snap.Playlists = append(snap.Playlists[:i], snap.Playlists[i+1:]...)
		return nil
	})
	if err != nil {
		return model.Playlist{}, s.report("delete", err)
	}
	return removed, nil
}

// AddReview appends reviewer's review to creator's public playlist and
// refreshes its average rating.
func (s *Service) AddReview(ctx context.Context, caller *auth.Claims, reviewer, creator, name string, in ReviewInput) (model.Review, error) {
	if err := auth.RequireOwner(caller, reviewer); err != nil {
		return model.Review{}, err
	}
	value, err := in.value()
	if err != nil {
		return model.Review{}, err
	}
	if reviewer == creator {
		return model.Review{}, apperr.Rule("you cannot review your own playlist")
	}

	now := s.stamp()
	var stored model.Review
	err = s.store.Commit(ctx, func(snap *store.Snapshot) error {
		i := snap.FindPlaylist(creator, name)
		if i < 0 {
			return apperr.NotFound("playlist %q by %q not found", name, creator)
		}
		p := &snap.Playlists[i]
		if !p.IsPublic() {
			return apperr.Rule("only public playlists can be reviewed")
		}

		// (reviewer, dateTime) identifies a review, so keep it unique.
		at := now
		for p.FindReview(reviewer, at) >= 0 {
			at = at.Add(time.Millisecond)
		}
		r := model.Review{
			Reviewer: reviewer,
			Rating:   value,
			Comment:  strings.TrimSpace(in.Comment),
			DateTime: at,
		}
		p.Reviews = append(p.Reviews, r)
		p.AverageRating = rating.Recompute(p.Reviews)
		stored = r
		return nil
	})
	if err != nil {
		return model.Review{}, s.report("add review", err)
	}
	return stored, nil
}

func (s *Service) checkTracks(ids []string) error {
	if missing := s.catalog.MissingIDs(ids); len(missing) > 0 {
		return apperr.Validation("unknown track ids: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) apply(p *model.Playlist, d draft, now time.Time) {
	p.TrackIDs = d.trackIDs
	p.Visibility = d.visibility
	p.Description = d.description
	p.TrackCount = len(d.trackIDs)
	p.Playtime = catalog.FormatPlaytime(s.catalog.TotalDuration(d.trackIDs))
	p.LastModified = now
}

// stamp returns the service clock in UTC at millisecond precision, which is
// what survives a JSON round trip.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service) report(op string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		s.logger.Error("playlist operation failed", "component", "playlist", "op", op, "err", err)
	}
	return err
}

func sortByLastModified(ps []model.Playlist) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].LastModified.After(ps[j].LastModified)
	})
}
