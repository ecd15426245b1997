package http

import (
	"net/http"

	"medimarket/internal/delivery/http/handler"
	"medimarket/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health   *handler.HealthHandler
	Identity *handler.IdentityHandler
	Medicine *handler.MedicineHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Order    *handler.OrderHandler
	Delivery *handler.DeliveryHandler
	AuditLog *handler.AuditLogHandler
}

type Router struct {
	router                  *mux.Router
	handlers                Handlers
	authMiddleware          *middleware.AuthMiddleware
	corsMiddleware          *middleware.CORSMiddleware
	observabilityMiddleware *middleware.ObservabilityMiddleware
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	observabilityMiddleware *middleware.ObservabilityMiddleware,
) *Router {
	return &Router{
		router:                  mux.NewRouter(),
		handlers:                handlers,
		authMiddleware:          authMiddleware,
		corsMiddleware:          corsMiddleware,
		observabilityMiddleware: observabilityMiddleware,
	}
}

// Setup mounts every route. CORS wraps the router so preflight requests are answered
// even for paths that only register other methods.
func (r *Router) Setup() http.Handler {
	h := r.handlers
	r.router.Use(r.observabilityMiddleware.Handle)

	r.router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Catalog (public)
	api.HandleFunc("/medicines", h.Medicine.List).Methods(http.MethodGet)
	api.HandleFunc("/medicines/categories", h.Medicine.Categories).Methods(http.MethodGet)
	api.HandleFunc("/medicines/realtime", h.Medicine.Realtime).Methods(http.MethodGet)
	api.HandleFunc("/medicines/{id}", h.Medicine.GetByID).Methods(http.MethodGet)

	// Identity (token only, the caller may not be synced yet)
	identity := api.NewRoute().Subrouter()
	identity.Use(r.authMiddleware.VerifyToken)
	identity.HandleFunc("/sync-user", h.Identity.SyncUser).Methods(http.MethodGet)
	identity.HandleFunc("/auth/logout", h.Identity.Logout).Methods(http.MethodPost)

	// Shopper routes (protected)
	shopper := api.NewRoute().Subrouter()
	shopper.Use(r.authMiddleware.Authenticate)
	shopper.HandleFunc("/cart", h.Cart.GetCart).Methods(http.MethodGet)
	shopper.HandleFunc("/cart", h.Cart.AddItem).Methods(http.MethodPost)
	shopper.HandleFunc("/cart", h.Cart.UpdateItem).Methods(http.MethodPut)
	shopper.HandleFunc("/cart", h.Cart.RemoveItem).Methods(http.MethodDelete)
	shopper.HandleFunc("/checkout", h.Checkout.Checkout).Methods(http.MethodPost)
	shopper.HandleFunc("/payments/create-order", h.Payment.CreateOrder).Methods(http.MethodPost)
	shopper.HandleFunc("/payments/verify", h.Payment.Verify).Methods(http.MethodPost)
	shopper.HandleFunc("/orders", h.Order.GetMyOrders).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Catalog management (admin)
	admin.HandleFunc("/medicines", h.Medicine.Create).Methods(http.MethodPost)
	admin.HandleFunc("/medicines/export", h.Medicine.Export).Methods(http.MethodGet)
	admin.HandleFunc("/medicines/{id}", h.Medicine.Update).Methods(http.MethodPut)
	admin.HandleFunc("/medicines/{id}", h.Medicine.Delete).Methods(http.MethodDelete)

	// Fulfilment (admin)
	admin.HandleFunc("/orders/pending-delivery", h.Order.GetPendingDelivery).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{orderId}/assign", h.Delivery.AssignOrder).Methods(http.MethodPost)
	admin.HandleFunc("/delivery-agents", h.Delivery.CreateAgent).Methods(http.MethodPost)
	admin.HandleFunc("/delivery-agents/available", h.Delivery.GetAvailableAgents).Methods(http.MethodGet)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAuditLogs).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}
