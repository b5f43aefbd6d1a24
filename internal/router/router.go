package router

import (
	"log"

	"asset-inventory-api/internal/config"
	"asset-inventory-api/internal/handler"
	"asset-inventory-api/internal/middleware"

	"github.com/gorilla/mux"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Assets  handler.AssetHandlerInterface
	Tickets handler.TicketHandlerInterface
	Lookups *handler.LookupHandler
	Intake  *handler.IntakeHandler
}

// NewRouter creates a new router and sets up the routes with security and
// logging middleware.
func NewRouter(h Handlers, cfg *config.Config, logger *log.Logger) *mux.Router {
	r := mux.NewRouter()

	// Initialize security middleware
	securityMW := middleware.NewSecurityMiddleware(&cfg.Security)
	loggingMW := middleware.NewLoggingMiddleware(logger)

	// Apply global middleware in order. Logging sits after TrustedProxy so it
	// sees the resolved client IP.
	r.Use(securityMW.SecurityHeaders)
	r.Use(securityMW.CORS)
	r.Use(securityMW.TrustedProxy)
	r.Use(loggingMW.LogRequests)
	r.Use(securityMW.RateLimit)
	r.Use(securityMW.RequestTimeout)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Spreadsheet intake
	api.HandleFunc("/intake", h.Intake.ExtractHandler).Methods("POST")

	// Asset CRUD operations
	api.HandleFunc("/assets", h.Assets.CreateAssetHandler).Methods("POST")
	api.HandleFunc("/assets", h.Assets.ListAssetsHandler).Methods("GET")
	api.HandleFunc("/assets/{id}", h.Assets.GetAssetHandler).Methods("GET")
	api.HandleFunc("/assets/{id}", h.Assets.UpdateAssetHandler).Methods("PUT")
	api.HandleFunc("/assets/{id}", h.Assets.DeleteAssetHandler).Methods("DELETE")
	api.HandleFunc("/assets/{id}/history", h.Assets.GetAssetHistoryHandler).Methods("GET")
	api.HandleFunc("/assets/{id}/label", h.Assets.GetAssetLabelHandler).Methods("GET")

	// Custodian portal
	api.HandleFunc("/custodians/{code}/assets", h.Assets.GetCustodianAssetsHandler).Methods("GET")

	// Fault tickets
	api.HandleFunc("/tickets", h.Tickets.CreateTicketHandler).Methods("POST")
	api.HandleFunc("/tickets", h.Tickets.ListOpenTicketsHandler).Methods("GET")
	api.HandleFunc("/tickets/{id}", h.Tickets.GetTicketHandler).Methods("GET")
	api.HandleFunc("/tickets/{id}/resolve", h.Tickets.ResolveTicketHandler).Methods("POST")

	// Catalog entities
	api.HandleFunc("/brands", h.Lookups.ListBrandsHandler).Methods("GET")
	api.HandleFunc("/brands", h.Lookups.CreateBrandHandler).Methods("POST")
	api.HandleFunc("/brands/{id}", h.Lookups.UpdateBrandHandler).Methods("PUT")
	api.HandleFunc("/brands/{id}", h.Lookups.DeleteBrandHandler).Methods("DELETE")

	api.HandleFunc("/types", h.Lookups.ListTypesHandler).Methods("GET")
	api.HandleFunc("/types", h.Lookups.CreateTypeHandler).Methods("POST")
	api.HandleFunc("/types/{id}", h.Lookups.UpdateTypeHandler).Methods("PUT")
	api.HandleFunc("/types/{id}", h.Lookups.DeleteTypeHandler).Methods("DELETE")

	api.HandleFunc("/areas", h.Lookups.ListAreasHandler).Methods("GET")
	api.HandleFunc("/areas", h.Lookups.CreateAreaHandler).Methods("POST")
	api.HandleFunc("/areas/{id}", h.Lookups.UpdateAreaHandler).Methods("PUT")
	api.HandleFunc("/areas/{id}", h.Lookups.DeleteAreaHandler).Methods("DELETE")

	api.HandleFunc("/models", h.Lookups.ListModelsHandler).Methods("GET")
	api.HandleFunc("/models", h.Lookups.CreateModelHandler).Methods("POST")
	api.HandleFunc("/models/{id}", h.Lookups.UpdateModelHandler).Methods("PUT")
	api.HandleFunc("/models/{id}", h.Lookups.DeleteModelHandler).Methods("DELETE")

	api.HandleFunc("/employees", h.Lookups.ListEmployeesHandler).Methods("GET")
	api.HandleFunc("/employees", h.Lookups.CreateEmployeeHandler).Methods("POST")
	api.HandleFunc("/employees/{code}", h.Lookups.GetEmployeeHandler).Methods("GET")
	api.HandleFunc("/employees/{code}", h.Lookups.UpdateEmployeeHandler).Methods("PUT")
	api.HandleFunc("/employees/{code}", h.Lookups.DeleteEmployeeHandler).Methods("DELETE")

	// Health check
	api.HandleFunc("/health", h.Assets.HealthHandler).Methods("GET")

	return r
}
