package domain

import (
	"math"
	"time"
)

// Category is the product category. The catalog is limited to PC accessories.
type Category string

const (
	CategoryKeyboard   Category = "keyboard"
	CategoryMouse      Category = "mouse"
	CategoryMousePad   Category = "mouse-pad"
	CategoryCoolingPad Category = "cooling-pad"
	CategoryHeadset    Category = "headset"
)

// Categories lists every valid product category.
func Categories() []Category {
	return []Category{
		CategoryKeyboard,
		CategoryMouse,
		CategoryMousePad,
		CategoryCoolingPad,
		CategoryHeadset,
	}
}

// IsValidCategory reports whether s names a known category.
func IsValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// MaxProductImages caps the gallery size per product.
const MaxProductImages = 4

// Image is a hosted product image.
type Image struct {
	PublicURL string `json:"publicUrl"`
	SecureURL string `json:"secureUrl"`
}

// Rating is the denormalized review summary stored on the product row.
// TotalRatings is the running sum of all review scores; AverageRating is
// derived from it and rounded to one decimal place.
type Rating struct {
	TotalRatings    int64   `json:"totalRatings"`
	NumberOfReviews int     `json:"numberOfReviews"`
	AverageRating   float64 `json:"averageRating"`
}

// Add folds a new review score into the summary.
func (r *Rating) Add(score int) {
	r.NumberOfReviews++
	r.TotalRatings += int64(score)
	r.recalc()
}

// Replace swaps an existing review score for a new one. The review count is
// unchanged.
func (r *Rating) Replace(oldScore, newScore int) {
	r.TotalRatings += int64(newScore) - int64(oldScore)
	r.recalc()
}

// Remove drops a review score from the summary.
func (r *Rating) Remove(score int) {
	r.NumberOfReviews--
	r.TotalRatings -= int64(score)
	r.recalc()
}

func (r *Rating) recalc() {
	if r.NumberOfReviews <= 0 {
		r.NumberOfReviews = 0
		r.TotalRatings = 0
		r.AverageRating = 0
		return
	}
	avg := float64(r.TotalRatings) / float64(r.NumberOfReviews)
	r.AverageRating = math.Round(avg*10) / 10
}

// Product is a catalog entry. Price is in whole currency units (INR).
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	Category     Category  `json:"category"`
	Images       []Image   `json:"images"`
	DefaultImage Image     `json:"defaultImage"`
	Rating       Rating    `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.Stock >= qty
}
