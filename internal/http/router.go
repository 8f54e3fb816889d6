package http

import (
	"net/http"

	"workshop-backend/internal/handlers"
	"workshop-backend/internal/middleware"
	"workshop-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	equipmentHandler *handlers.EquipmentHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (administration only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("/technicians", userHandler.ListTechnicians).Methods("GET") // All authenticated users can view
	usersAPI.HandleFunc("", adminOnly(authMiddleware, userHandler.ListUsers)).Methods("GET")
	usersAPI.HandleFunc("", adminOnly(authMiddleware, userHandler.CreateUser)).Methods("POST")
	usersAPI.HandleFunc("/{id}", adminOnly(authMiddleware, userHandler.GetUser)).Methods("GET")
	usersAPI.HandleFunc("/{id}", adminOnly(authMiddleware, userHandler.UpdateUser)).Methods("PUT")
	usersAPI.HandleFunc("/{id}", adminOnly(authMiddleware, userHandler.DeactivateUser)).Methods("DELETE")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", adminOnly(authMiddleware, customerHandler.CreateCustomer)).Methods("POST")
	customersAPI.HandleFunc("/search", customerHandler.SearchByPhone).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", adminOnly(authMiddleware, customerHandler.UpdateCustomer)).Methods("PUT")
	customersAPI.HandleFunc("/{id}", adminOnly(authMiddleware, customerHandler.DeleteCustomer)).Methods("DELETE")

	// Protected API routes - Equipment
	equipmentAPI := r.PathPrefix("/api/equipment").Subrouter()
	equipmentAPI.Use(authMiddleware.Authenticate)
	equipmentAPI.HandleFunc("", equipmentHandler.ListEquipment).Methods("GET")
	equipmentAPI.HandleFunc("", adminOnly(authMiddleware, equipmentHandler.CreateEquipment)).Methods("POST")
	equipmentAPI.HandleFunc("/assigned", equipmentHandler.ListAssigned).Methods("GET")
	equipmentAPI.HandleFunc("/code/{code}", equipmentHandler.GetByCode).Methods("GET")
	equipmentAPI.HandleFunc("/customer/{customer_id}", equipmentHandler.ListByCustomer).Methods("GET")
	equipmentAPI.HandleFunc("/{id}", equipmentHandler.GetEquipment).Methods("GET")
	equipmentAPI.HandleFunc("/{id}/history", equipmentHandler.GetHistory).Methods("GET")
	equipmentAPI.HandleFunc("/{id}/technician", adminOnly(authMiddleware, equipmentHandler.AssignTechnician)).Methods("PUT")
	// Both roles may request a transition; the workflow rules decide
	equipmentAPI.HandleFunc("/{id}/status", equipmentHandler.ChangeStatus).Methods("PUT")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.ListPayments).Methods("GET")
	paymentsAPI.HandleFunc("", adminOnly(authMiddleware, paymentHandler.CreatePayment)).Methods("POST")
	paymentsAPI.HandleFunc("/equipment/{equipment_id}", paymentHandler.ListByEquipment).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.GetPayment).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", adminOnly(authMiddleware, paymentHandler.UpdatePayment)).Methods("PUT")
	paymentsAPI.HandleFunc("/{id}", adminOnly(authMiddleware, paymentHandler.DeletePayment)).Methods("DELETE")
	paymentsAPI.HandleFunc("/{id}/receipt", paymentHandler.DownloadReceipt).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.HealthDetailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}

func adminOnly(m *middleware.AuthMiddleware, h http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(models.RoleAdministrador)(h).ServeHTTP
}
