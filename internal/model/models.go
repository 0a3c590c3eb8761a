package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// NoRatingsText is how an AverageRating without eligible reviews is rendered.
const NoRatingsText = "No ratings yet"

// Playlist is a named, ordered list of catalog track ids owned by Creator.
// Name is unique per Creator. AverageRating, Playtime, TrackCount and
// LastModified are derived and never taken from client input.
type Playlist struct {
	Name          string        `json:"name"`
	Creator       string        `json:"creator"`
	Visibility    Visibility    `json:"visibility"`
	TrackIDs      []string      `json:"trackIds"`
	Description   string        `json:"description"`
	Reviews       []Review      `json:"reviews"`
	AverageRating AverageRating `json:"averageRating"`
	Playtime      string        `json:"playtime"`
	TrackCount    int           `json:"trackCount"`
	LastModified  time.Time     `json:"lastModified"`
}

func (p Playlist) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

func (p Playlist) Clone() Playlist {
	out := p
	out.TrackIDs = append([]string(nil), p.TrackIDs...)
	out.Reviews = append([]Review(nil), p.Reviews...)
	if out.TrackIDs == nil {
		out.TrackIDs = []string{}
	}
	if out.Reviews == nil {
		out.Reviews = []Review{}
	}
	return out
}

// WithoutHiddenReviews returns a copy suitable for non-owner viewers.
func (p Playlist) WithoutHiddenReviews() Playlist {
	out := p.Clone()
	visible := make([]Review, 0, len(out.Reviews))
	for _, r := range out.Reviews {
		if !r.Hidden {
			visible = append(visible, r)
		}
	}
	out.Reviews = visible
	return out
}

// FindReview returns the index of the review written by reviewer at at, or -1.
func (p Playlist) FindReview(reviewer string, at time.Time) int {
	for i, r := range p.Reviews {
		if r.Reviewer == reviewer && r.DateTime.Equal(at) {
			return i
		}
	}
	return -1
}

// Review is keyed by (Reviewer, DateTime). Only Hidden ever changes after creation.
type Review struct {
	Reviewer string    `json:"reviewer"`
	Rating   int       `json:"rating"`
	Comment  string    `json:"comment"`
	DateTime time.Time `json:"dateTime"`
	Hidden   bool      `json:"hidden"`
}

type LogType string

const (
	LogRequest LogType = "Request"
	LogNotice  LogType = "Notice"
	LogDispute LogType = "Dispute"
)

func (t LogType) Valid() bool {
	switch t {
	case LogRequest, LogNotice, LogDispute:
		return true
	}
	return false
}

// LogEntry is an append-only moderation record referencing one review.
type LogEntry struct {
	ID             string    `json:"id"`
	Type           LogType   `json:"type"`
	Admin          string    `json:"admin"`
	PlaylistName   string    `json:"playlistName"`
	Creator        string    `json:"creatorName"`
	Reviewer       string    `json:"reviewerName"`
	ReviewDateTime time.Time `json:"reviewDateTime"`
	Date           time.Time `json:"date"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AverageRating is either a one-decimal mean or the "no ratings yet" sentinel.
// The zero value is the sentinel.
type AverageRating struct {
	value float64
	rated bool
}

func NoRatings() AverageRating {
	return AverageRating{}
}

func RatingOf(v float64) AverageRating {
	return AverageRating{value: v, rated: true}
}

func (a AverageRating) Value() (float64, bool) {
	return a.value, a.rated
}

func (a AverageRating) String() string {
	if !a.rated {
		return NoRatingsText
	}
	return strconv.FormatFloat(a.value, 'f', 1, 64)
}

func (a AverageRating) MarshalJSON() ([]byte, error) {
	if !a.rated {
		return json.Marshal(NoRatingsText)
	}
	return []byte(a.String()), nil
}

func (a *AverageRating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = NoRatings()
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == NoRatingsText || s == "" {
			*a = NoRatings()
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("averageRating: %w", err)
		}
		*a = RatingOf(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("averageRating: %w", err)
	}
	*a = RatingOf(v)
	return nil
}
