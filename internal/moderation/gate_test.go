package moderation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-hub/internal/apperr"
	"playlist-hub/internal/auth"
	"playlist-hub/internal/model"
	"playlist-hub/internal/rating"
	"playlist-hub/internal/store"
)

var (
	root    = &auth.Claims{Name: "root", Admin: true}
	mallory = &auth.Claims{Name: "mallory"}
	t0      = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func review(reviewer string, rating int, at time.Time) model.Review {
	return model.Review{Reviewer: reviewer, Rating: rating, Comment: "c", DateTime: at}
}

func seed(reviews ...model.Review) *store.Snapshot {
	return &store.Snapshot{Playlists: []model.Playlist{{
		Name:          "p1",
		Creator:       "alice",
		Visibility:    model.VisibilityPublic,
		TrackIDs:      []string{"1"},
		Reviews:       reviews,
		AverageRating: rating.Recompute(reviews),
	}}}
}

func hide(at time.Time, hidden bool) HideInput {
	return HideInput{DateTime: at.Format(time.RFC3339Nano), Hidden: &hidden}
}

var ref = ReviewRef{PlaylistName: "p1", Creator: "alice", Reviewer: "bob"}

func readPlaylist(t *testing.T, st store.Store) model.Playlist {
	t.Helper()
	snap, err := st.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Playlists, 1)
	return snap.Playlists[0]
}

func TestSetReviewHiddenOnlyReview(t *testing.T) {
	st := store.NewMemoryStore(seed(review("bob", 4, t0)))
	g := NewGate(st)

	r, err := g.SetReviewHidden(context.Background(), root, "root", ref, hide(t0, true))
	require.NoError(t, err)
	assert.True(t, r.Hidden)

	p := readPlaylist(t, st)
	assert.Equal(t, model.NoRatingsText, p.AverageRating.String())

	_, err = g.SetReviewHidden(context.Background(), root, "root", ref, hide(t0, false))
	require.NoError(t, err)
	assert.Equal(t, "4.0", readPlaylist(t, st).AverageRating.String())
}

func TestSetReviewHiddenRecomputesOverRemaining(t *testing.T) {
	st := store.NewMemoryStore(seed(
		review("bob", 5, t0),
		review("carol", 3, t0.Add(time.Minute)),
		review("dave", 1, t0.Add(2*time.Minute)),
	))
	g := NewGate(st)
	assert.Equal(t, "3.0", readPlaylist(t, st).AverageRating.String())

	dave := ReviewRef{PlaylistName: "p1", Creator: "alice", Reviewer: "dave"}
	_, err := g.SetReviewHidden(context.Background(), root, "root", dave, hide(t0.Add(2*time.Minute), true))
	require.NoError(t, err)
	assert.Equal(t, "4.0", readPlaylist(t, st).AverageRating.String())

	bob := ReviewRef{PlaylistName: "p1", Creator: "alice", Reviewer: "bob"}
	_, err = g.SetReviewHidden(context.Background(), root, "root", bob, hide(t0, true))
	require.NoError(t, err)
	assert.Equal(t, "3.0", readPlaylist(t, st).AverageRating.String())
}

func TestSetReviewHiddenErrors(t *testing.T) {
	tests := []struct {
		name     string
		caller   *auth.Claims
		admin    string
		ref      ReviewRef
		in       HideInput
		wantKind apperr.Kind
	}{
		{name: "not admin", caller: mallory, admin: "mallory", ref: ref, in: hide(t0, true), wantKind: apperr.KindUnauthorized},
		{name: "admin name mismatch", caller: root, admin: "other", ref: ref, in: hide(t0, true), wantKind: apperr.KindUnauthorized},
		{name: "disabled admin", caller: &auth.Claims{Name: "root", Admin: true, Disabled: true}, admin: "root", ref: ref, in: hide(t0, true), wantKind: apperr.KindUnauthorized},
		{name: "hidden missing", caller: root, admin: "root", ref: ref, in: HideInput{DateTime: t0.Format(time.RFC3339)}, wantKind: apperr.KindValidation},
		{name: "bad timestamp", caller: root, admin: "root", ref: ref, in: HideInput{DateTime: "yesterday", Hidden: new(bool)}, wantKind: apperr.KindRule},
		{name: "missing timestamp", caller: root, admin: "root", ref: ref, in: HideInput{Hidden: new(bool)}, wantKind: apperr.KindRule},
		{name: "missing playlist", caller: root, admin: "root", ref: ReviewRef{PlaylistName: "nope", Creator: "alice", Reviewer: "bob"}, in: hide(t0, true), wantKind: apperr.KindNotFound},
		{name: "missing review", caller: root, admin: "root", ref: ref, in: hide(t0.Add(time.Second), true), wantKind: apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore(seed(review("bob", 4, t0)))
			g := NewGate(st)

			_, err := g.SetReviewHidden(context.Background(), tt.caller, tt.admin, tt.ref, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.False(t, readPlaylist(t, st).Reviews[0].Hidden)
		})
	}
}

func validLog() LogInput {
	return LogInput{
		PlaylistName:   "p1",
		CreatorName:    "alice",
		ReviewerName:   "bob",
		ReviewDateTime: t0.Format(time.RFC3339Nano),
		Date:           "2024-05-02",
		Notes:          " takedown request from label ",
	}
}

func TestAppendLog(t *testing.T) {
	st := store.NewMemoryStore(seed(review("bob", 4, t0)))
	g := NewGate(st,
		WithIDs(func() string { return "log-1" }),
		WithClock(func() time.Time { return t0.Add(time.Hour) }),
	)

	entry, err := g.AppendLog(context.Background(), root, "root", "Request", validLog())
	require.NoError(t, err)
	assert.Equal(t, "log-1", entry.ID)
	assert.Equal(t, model.LogRequest, entry.Type)
	assert.Equal(t, "root", entry.Admin)
	assert.Equal(t, "takedown request from label", entry.Notes)
	assert.True(t, entry.ReviewDateTime.Equal(t0))
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), entry.Date)

	entries, err := g.ListLog(context.Background(), root, "root")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	out, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"creatorName":"alice"`)
	assert.Contains(t, string(out), `"reviewerName":"bob"`)
}

func TestAppendLogErrors(t *testing.T) {
	tests := []struct {
		name     string
		caller   *auth.Claims
		logType  string
		mutate   func(*LogInput)
		wantKind apperr.Kind
	}{
		{name: "not admin", caller: mallory, logType: "Notice", wantKind: apperr.KindUnauthorized},
		{name: "unknown type", caller: root, logType: "Complaint", wantKind: apperr.KindRule},
		{name: "lower case type", caller: root, logType: "notice", wantKind: apperr.KindRule},
		{name: "invalid date", caller: root, logType: "Notice", mutate: func(in *LogInput) { in.Date = "2024-13-45" }, wantKind: apperr.KindRule},
		{name: "invalid review time", caller: root, logType: "Dispute", mutate: func(in *LogInput) { in.ReviewDateTime = "soon" }, wantKind: apperr.KindRule},
		{name: "missing date", caller: root, logType: "Notice", mutate: func(in *LogInput) { in.Date = "" }, wantKind: apperr.KindRule},
		{name: "missing review time", caller: root, logType: "Request", mutate: func(in *LogInput) { in.ReviewDateTime = "  " }, wantKind: apperr.KindRule},
		{name: "missing field", caller: root, logType: "Dispute", mutate: func(in *LogInput) { in.ReviewerName = "" }, wantKind: apperr.KindValidation},
		{name: "missing playlist", caller: root, logType: "Dispute", mutate: func(in *LogInput) { in.PlaylistName = "gone" }, wantKind: apperr.KindNotFound},
		{name: "missing review", caller: root, logType: "Dispute", mutate: func(in *LogInput) { in.ReviewDateTime = t0.Add(time.Hour).Format(time.RFC3339) }, wantKind: apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore(seed(review("bob", 4, t0)))
			g := NewGate(st)
			in := validLog()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			_, err := g.AppendLog(context.Background(), tt.caller, tt.caller.Name, tt.logType, in)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))

			snap, err := st.Read(context.Background())
			require.NoError(t, err)
			assert.Empty(t, snap.ModerationLog)
		})
	}
}

func TestListLogRequiresAdmin(t *testing.T) {
	g := NewGate(store.NewMemoryStore(nil))
	_, err := g.ListLog(context.Background(), mallory, "mallory")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	entries, err := g.ListLog(context.Background(), root, "root")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("date", "2024-05-01T14:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(t0))
	assert.Equal(t, time.UTC, got.Location())

	_, err = parseTimestamp("date", "   ")
	assert.True(t, apperr.Is(err, apperr.KindRule))
}
