package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angkushsahu/pacifio-server/internal/service"
	"github.com/angkushsahu/pacifio-server/pkg/health"
	"github.com/angkushsahu/pacifio-server/pkg/middleware"
)

// Services bundles the service layer dependencies of the router.
type Services struct {
	Products  *service.ProductService
	Reviews   *service.ReviewService
	Bags      *service.BagService
	Orders    *service.OrderService
	Addresses *service.AddressService
	Users     *service.UserService
	Analytics *service.AnalyticsService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	services Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(services.Products, logger)
	reviewHandler := NewReviewHandler(services.Reviews, logger)
	bagHandler := NewBagHandler(services.Bags, logger)
	orderHandler := NewOrderHandler(services.Orders, logger)
	addressHandler := NewAddressHandler(services.Addresses, logger)
	userHandler := NewUserHandler(services.Users, logger)
	analyticsHandler := NewAnalyticsHandler(services.Analytics, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public catalog endpoints
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{id}", productHandler.GetProduct)
		r.Get("/reviews/{productId}", reviewHandler.ListReviews)

		// Endpoints that require an authenticated caller
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity())

			r.Put("/reviews", reviewHandler.UpsertReview)
			r.Get("/reviews/{productId}/me", reviewHandler.GetOwnReview)
			r.Delete("/reviews/{productId}", reviewHandler.DeleteReview)

			r.Get("/bag", bagHandler.GetBag)
			r.Post("/bag/items", bagHandler.AddItem)
			r.Delete("/bag/items/{productId}", bagHandler.RemoveItem)

			r.Post("/orders", orderHandler.CreateOrder)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{id}", orderHandler.GetOrder)
			r.Post("/orders/{id}/payment", orderHandler.AcceptPayment)

			r.Post("/addresses", addressHandler.CreateAddress)
			r.Get("/addresses", addressHandler.ListAddresses)
			r.Get("/addresses/{id}", addressHandler.GetAddress)
			r.Delete("/addresses/{id}", addressHandler.DeleteAddress)

			r.Get("/users/me", userHandler.GetMe)
			r.Delete("/users/me", userHandler.DeleteMe)
		})

		// Seller endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Identity())
			r.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSuperAdmin))

			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)

			r.Get("/orders", orderHandler.AdminListOrders)
			r.Get("/orders/{id}", orderHandler.AdminGetOrder)
			r.Put("/orders/{id}/delivery", orderHandler.UpdateDeliveryStatus)

			r.Get("/analytics/monthly-sales", analyticsHandler.MonthlySales)
			r.Get("/analytics/transactions", analyticsHandler.Transactions)
			r.Get("/analytics/order-status", analyticsHandler.OrderStatus)
			r.Get("/analytics/recent-sales", analyticsHandler.RecentSales)
		})
	})

	return r
}
