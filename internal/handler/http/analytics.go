package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/angkushsahu/pacifio-server/internal/service"
	"github.com/angkushsahu/pacifio-server/pkg/httputil"
)

// AnalyticsHandler handles HTTP requests for the seller dashboard.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics HTTP handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  logger,
	}
}

// MonthlySales handles GET /api/v1/admin/analytics/monthly-sales
func (h *AnalyticsHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.MonthlySales(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Found monthly sales successfully", sales)
}

// Transactions handles GET /api/v1/admin/analytics/transactions
func (h *AnalyticsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.TransactionInfo(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Found transaction info successfully", info)
}

// OrderStatus handles GET /api/v1/admin/analytics/order-status
func (h *AnalyticsHandler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.OrderInfo(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Found order status info successfully", info)
}

// RecentSales handles GET /api/v1/admin/analytics/recent-sales
func (h *AnalyticsHandler) RecentSales(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Success:    false,
				StatusCode: http.StatusBadRequest,
				Message:    "limit must be a valid positive integer",
			})
			return
		}
		limit = n
	}

	sales, err := h.service.RecentSales(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Found recent sales successfully", sales)
}
