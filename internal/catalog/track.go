package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Track is an immutable catalog entry. Duration is in seconds.
type Track struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Genres   []string `json:"genres"`
	Duration int      `json:"duration"`
}

// trackRecord accepts both the service's own shape and the raw catalog dump
// (track_id / track_title / artist_name / track_genres / track_duration).
type trackRecord struct {
	ID       json.RawMessage `json:"id"`
	Title    string          `json:"title"`
	Artist   string          `json:"artist"`
	Genres   json.RawMessage `json:"genres"`
	Duration json.RawMessage `json:"duration"`

	RawID       json.RawMessage `json:"track_id"`
	RawTitle    string          `json:"track_title"`
	RawArtist   string          `json:"artist_name"`
	RawGenres   json.RawMessage `json:"track_genres"`
	RawDuration json.RawMessage `json:"track_duration"`
}

func (t *Track) UnmarshalJSON(b []byte) error {
	var rec trackRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}

	id, err := parseID(firstRaw(rec.ID, rec.RawID))
	if err != nil {
		return err
	}
	dur, err := parseDuration(firstRaw(rec.Duration, rec.RawDuration))
	if err != nil {
		return fmt.Errorf("track %s: %w", id, err)
	}
	genres, err := parseGenres(firstRaw(rec.Genres, rec.RawGenres))
	if err != nil {
		return fmt.Errorf("track %s: %w", id, err)
	}

	*t = Track{
		ID:       id,
		Title:    firstNonEmpty(rec.Title, rec.RawTitle),
		Artist:   firstNonEmpty(rec.Artist, rec.RawArtist),
		Genres:   genres,
		Duration: dur,
	}
	return nil
}

// LoadFile reads a JSON array of tracks.
func LoadFile(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return tracks, nil
}

// FormatPlaytime renders seconds as m:ss.
func FormatPlaytime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("track without id")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("track without id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid track id %s", raw)
	}
	return n.String(), nil
}

func parseDuration(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var secs int
	if err := json.Unmarshal(raw, &secs); err == nil {
		return secs, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid duration %s", raw)
	}
	mins, sec, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return strconv.Atoi(mins)
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	ss, err := strconv.Atoi(sec)
	if err != nil || ss >= 60 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return m*60 + ss, nil
}

func parseGenres(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("invalid genres %s", raw)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out, nil
}

func firstRaw(a, b json.RawMessage) json.RawMessage {
	if len(a) > 0 && string(a) != "null" {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
