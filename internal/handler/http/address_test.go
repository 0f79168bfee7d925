package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/angkushsahu/pacifio-server/internal/domain"
)

func validAddressJSON() []byte {
	body := CreateAddressRequest{
		ContactNumber: "9876543210",
		Location:      "221B Baker Street",
		City:          "Kolkata",
		State:         "West Bengal",
		Pincode:       "700001",
		Country:       "India",
	}
	b, _ := json.Marshal(body)
	return b
}

func TestCreateAddress_Success(t *testing.T) {
	router, m := setupRouter(t)

	m.addresses.On("Create", mock.Anything, mock.AnythingOfType("*domain.Address")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses", bytes.NewReader(validAddressJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)

	address := resp.Data.(map[string]any)
	assert.Equal(t, "Kolkata", address["city"])
	assert.Equal(t, "user-123", address["userId"])
	m.addresses.AssertExpectations(t)
}

func TestCreateAddress_ValidationError(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]any{"contactNumber": "12", "city": "Kolkata"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.NotEmpty(t, resp.Errors)
}

func TestListAddresses_Success(t *testing.T) {
	router, m := setupRouter(t)

	m.addresses.On("ListByUser", mock.Anything, "user-123").
		Return([]domain.Address{*sampleUserAddress()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.NotNil(t, resp.Data)
	m.addresses.AssertExpectations(t)
}

func TestGetAddress_ForeignAddressMaskedAsNotFound(t *testing.T) {
	router, m := setupRouter(t)

	foreign := sampleUserAddress()
	foreign.UserID = "someone-else"
	m.addresses.On("GetByID", mock.Anything, testAddressID).Return(foreign, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses/"+testAddressID, nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	m.addresses.AssertExpectations(t)
}

func TestDeleteAddress_Success(t *testing.T) {
	router, m := setupRouter(t)

	m.addresses.On("GetByID", mock.Anything, testAddressID).Return(sampleUserAddress(), nil)
	m.addresses.On("Delete", mock.Anything, testAddressID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/addresses/"+testAddressID, nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.addresses.AssertExpectations(t)
}
