package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angkushsahu/pacifio-server/internal/service"
	"github.com/angkushsahu/pacifio-server/pkg/httputil"
	"github.com/angkushsahu/pacifio-server/pkg/middleware"
	"github.com/angkushsahu/pacifio-server/pkg/validator"
)

// BagHandler handles HTTP requests for shopping-bag endpoints.
type BagHandler struct {
	service *service.BagService
	logger  *slog.Logger
}

// NewBagHandler creates a new bag HTTP handler.
func NewBagHandler(svc *service.BagService, logger *slog.Logger) *BagHandler {
	return &BagHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding a product to the bag.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// GetBag handles GET /api/v1/bag
func (h *BagHandler) GetBag(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	bag, err := h.service.GetBag(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Found shopping-bag successfully", bag)
}

// AddItem handles POST /api/v1/bag/items
func (h *BagHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Message:    "invalid request body: " + err.Error(),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	bag, err := h.service.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Added product to shopping-bag successfully", bag)
}

// RemoveItem handles DELETE /api/v1/bag/items/{productId}
func (h *BagHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	bag, err := h.service.RemoveItem(r.Context(), userID, productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Removed product from shopping-bag successfully", bag)
}
