package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"playlist-hub/internal/model"
)

func reviews(ratings ...int) []model.Review {
	out := make([]model.Review, len(ratings))
	for i, r := range ratings {
		out[i] = model.Review{Reviewer: "u", Rating: r}
	}
	return out
}

func TestRecompute(t *testing.T) {
	t.Run("no reviews", func(t *testing.T) {
		assert.Equal(t, model.NoRatings(), Recompute(nil))
	})

	t.Run("single", func(t *testing.T) {
		assert.Equal(t, "4.0", Recompute(reviews(4)).String())
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		v, ok := Recompute(reviews(5, 4, 4)).Value()
		assert.True(t, ok)
		assert.Equal(t, 4.3, v)
	})

	t.Run("hidden reviews excluded", func(t *testing.T) {
		rs := reviews(5, 3, 1)
		rs[0].Hidden = true
		assert.Equal(t, "2.0", Recompute(rs).String())
	})

	t.Run("all hidden", func(t *testing.T) {
		rs := reviews(2)
		rs[0].Hidden = true
		_, ok := Recompute(rs).Value()
		assert.False(t, ok)
		assert.Equal(t, model.NoRatingsText, Recompute(rs).String())
	})
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(0))
	assert.True(t, Valid(1))
	assert.True(t, Valid(5))
	assert.False(t, Valid(6))
}
