package domain

import "time"

// Review score bounds.
const (
	MinReviewScore = 1
	MaxReviewScore = 5
)

// Review is a single user's review of a product. A user holds at most one
// review per product; resubmitting replaces the score and comment.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
