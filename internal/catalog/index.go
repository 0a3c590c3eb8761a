package catalog

import (
	"context"
	"sort"
	"strings"

	"playlist-hub/internal/apperr"
)

type Field string

const (
	FieldTitle  Field = "title"
	FieldGenre  Field = "genre"
	FieldArtist Field = "artist"
)

// Query is a cascading multi-field search. Empty fields are skipped.
type Query struct {
	Title  string `json:"title,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Artist string `json:"artist,omitempty"`
}

func (q Query) Empty() bool {
	return strings.TrimSpace(q.Title) == "" &&
		strings.TrimSpace(q.Genre) == "" &&
		strings.TrimSpace(q.Artist) == ""
}

// Index is a read-only in-memory view of the track catalog. It is safe for
// concurrent use once built.
type Index struct {
	tracks  []Track
	byID    map[string]int
	matcher Matcher
}

func NewIndex(tracks []Track, threshold float64) *Index {
	idx := &Index{
		tracks:  append([]Track(nil), tracks...),
		byID:    make(map[string]int, len(tracks)),
		matcher: Matcher{Threshold: threshold},
	}
	for i, t := range idx.tracks {
		idx.byID[t.ID] = i
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.tracks)
}

func (idx *Index) LookupByID(id string) (Track, bool) {
	i, ok := idx.byID[strings.TrimSpace(id)]
	if !ok {
		return Track{}, false
	}
	return idx.tracks[i], true
}

// Find runs a single-field fuzzy search over the whole catalog.
func (idx *Index) Find(term string, field Field) []Track {
	return idx.Filter(idx.tracks, term, field)
}

// Filter keeps the tracks of in whose field approximately matches term,
// ordered by relevance. Ties keep their order from in.
func (idx *Index) Filter(in []Track, term string, field Field) []Track {
	type hit struct {
		track Track
		score float64
	}
	var hits []hit
	for _, t := range in {
		var (
			score float64
			ok    bool
		)
		switch field {
		case FieldTitle:
			score, ok = idx.matcher.Score(term, t.Title)
		case FieldArtist:
			score, ok = idx.matcher.Score(term, t.Artist)
		case FieldGenre:
			score, ok = idx.matcher.scoreAny(term, t.Genres)
		}
		if ok {
			hits = append(hits, hit{track: t, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]Track, len(hits))
	for i, h := range hits {
		out[i] = h.track
	}
	return out
}

// Search runs a cascading search: title over the full catalog, then genre,
// then artist, each stage filtering only the previous stage's result. The
// first non-empty field searches the full catalog.
func (idx *Index) Search(_ context.Context, q Query) ([]Track, error) {
	if q.Empty() {
		return nil, apperr.Validation("at least one of title, genre or artist is required")
	}

	var (
		out     []Track
		started bool
	)
	for _, stage := range []struct {
		term  string
		field Field
	}{
		{q.Title, FieldTitle},
		{q.Genre, FieldGenre},
		{q.Artist, FieldArtist},
	} {
		term := strings.TrimSpace(stage.term)
		if term == "" {
			continue
		}
		if !started {
			out = idx.Find(term, stage.field)
			started = true
			continue
		}
		out = idx.Filter(out, term, stage.field)
	}
	return out, nil
}

// MissingIDs returns the ids that are not present in the catalog.
func (idx *Index) MissingIDs(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := idx.LookupByID(id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// TotalDuration sums the durations of ids. Unknown ids count as zero.
func (idx *Index) TotalDuration(ids []string) int {
	total := 0
	for _, id := range ids {
		if t, ok := idx.LookupByID(id); ok {
			total += t.Duration
		}
	}
	return total
}
