package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

func sampleReview() *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		ID:        "review-001",
		ProductID: testProductID,
		UserID:    "user-123",
		Rating:    4,
		Comment:   "solid keyboard",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertReview_CreatesNew(t *testing.T) {
	router, m := setupRouter(t)

	m.products.On("GetByID", mock.Anything, testProductID).Return(sampleCatalogProduct(), nil)
	m.reviews.On("GetByUserAndProduct", mock.Anything, "user-123", testProductID).
		Return(nil, apperrors.NotFound("review", testProductID))
	m.reviews.On("CreateWithRating", mock.Anything, mock.AnythingOfType("*domain.Review"), mock.AnythingOfType("domain.Rating")).
		Return(nil)

	body, _ := json.Marshal(UpsertReviewRequest{ProductID: testProductID, Rating: 5, Comment: "great"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)

	review := resp.Data.(map[string]any)
	assert.Equal(t, float64(5), review["rating"])
	m.reviews.AssertExpectations(t)
}

func TestUpsertReview_ReplacesExisting(t *testing.T) {
	router, m := setupRouter(t)

	m.products.On("GetByID", mock.Anything, testProductID).Return(sampleCatalogProduct(), nil)
	m.reviews.On("GetByUserAndProduct", mock.Anything, "user-123", testProductID).Return(sampleReview(), nil)
	m.reviews.On("UpdateWithRating", mock.Anything, mock.AnythingOfType("*domain.Review"), mock.AnythingOfType("domain.Rating")).
		Return(nil)

	body, _ := json.Marshal(UpsertReviewRequest{ProductID: testProductID, Rating: 2, Comment: "keys wore out"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.reviews.AssertExpectations(t)
	m.reviews.AssertNotCalled(t, "CreateWithRating", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertReview_ScoreOutOfRange(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(UpsertReviewRequest{ProductID: testProductID, Rating: 6})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.NotEmpty(t, resp.Errors)
}

func TestListReviews_Public(t *testing.T) {
	router, m := setupRouter(t)

	m.reviews.On("ListByProduct", mock.Anything, testProductID, 1, 20).
		Return([]domain.Review{*sampleReview()}, 1, nil)

	// No auth headers: reading reviews is public.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+testProductID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["totalCount"])
	m.reviews.AssertExpectations(t)
}

func TestGetOwnReview_NotFound(t *testing.T) {
	router, m := setupRouter(t)

	m.reviews.On("GetByUserAndProduct", mock.Anything, "user-123", testProductID).
		Return(nil, apperrors.NotFound("review", testProductID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+testProductID+"/me", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	m.reviews.AssertExpectations(t)
}

func TestDeleteReview_Success(t *testing.T) {
	router, m := setupRouter(t)

	m.reviews.On("GetByUserAndProduct", mock.Anything, "user-123", testProductID).Return(sampleReview(), nil)
	m.products.On("GetByID", mock.Anything, testProductID).Return(sampleCatalogProduct(), nil)
	m.reviews.On("DeleteWithRating", mock.Anything, "review-001", testProductID, mock.AnythingOfType("domain.Rating")).
		Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/"+testProductID, nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.reviews.AssertExpectations(t)
}
