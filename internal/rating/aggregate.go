// Package rating computes playlist rating averages from reviews.
package rating

import (
	"math"

	"playlist-hub/internal/model"
)

// Recompute returns the mean rating of the non-hidden reviews rounded to one
// decimal, or the "no ratings yet" sentinel when none are eligible.
func Recompute(reviews []model.Review) model.AverageRating {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.Hidden {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return model.NoRatings()
	}
	avg := float64(sum) / float64(count)
	return model.RatingOf(math.Round(avg*10) / 10)
}

// Valid reports whether r is an acceptable review rating.
func Valid(r int) bool {
	return r >= 1 && r <= 5
}
