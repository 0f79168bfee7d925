package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRating_Add(t *testing.T) {
	r := Rating{}

	r.Add(4)
	assert.Equal(t, int64(4), r.TotalRatings)
	assert.Equal(t, 1, r.NumberOfReviews)
	assert.Equal(t, 4.0, r.AverageRating)

	r.Add(5)
	assert.Equal(t, int64(9), r.TotalRatings)
	assert.Equal(t, 2, r.NumberOfReviews)
	assert.Equal(t, 4.5, r.AverageRating)
}

func TestRating_AverageRoundedToOneDecimal(t *testing.T) {
	r := Rating{}
	r.Add(4)
	r.Add(4)
	r.Add(5)

	// 13 / 3 = 4.333... rounds to 4.3.
	assert.Equal(t, 4.3, r.AverageRating)
}

func TestRating_Replace(t *testing.T) {
	r := Rating{TotalRatings: 7, NumberOfReviews: 2, AverageRating: 3.5}

	r.Replace(2, 5)

	assert.Equal(t, int64(10), r.TotalRatings)
	assert.Equal(t, 2, r.NumberOfReviews) // count unchanged
	assert.Equal(t, 5.0, r.AverageRating)
}

func TestRating_Remove(t *testing.T) {
	r := Rating{TotalRatings: 9, NumberOfReviews: 2, AverageRating: 4.5}

	r.Remove(4)

	assert.Equal(t, int64(5), r.TotalRatings)
	assert.Equal(t, 1, r.NumberOfReviews)
	assert.Equal(t, 5.0, r.AverageRating)
}

func TestRating_RemoveLastResetsToZero(t *testing.T) {
	r := Rating{TotalRatings: 5, NumberOfReviews: 1, AverageRating: 5.0}

	r.Remove(5)

	assert.Equal(t, int64(0), r.TotalRatings)
	assert.Equal(t, 0, r.NumberOfReviews)
	assert.Equal(t, 0.0, r.AverageRating)
}

func TestIsValidCategory(t *testing.T) {
	tests := []struct {
		category string
		valid    bool
	}{
		{"keyboard", true},
		{"mouse", true},
		{"mouse-pad", true},
		{"cooling-pad", true},
		{"headset", true},
		{"laptop", false},
		{"", false},
		{"Keyboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCategory(tt.category))
		})
	}
}

func TestProduct_InStock(t *testing.T) {
	p := Product{Stock: 3}

	assert.True(t, p.InStock(1))
	assert.True(t, p.InStock(3))
	assert.False(t, p.InStock(4))
}
