package handler

import (
	"net/http"
)

// AssetHandlerInterface defines the contract for asset HTTP handlers.
// This interface enables easy testing, mocking, and dependency injection.
type AssetHandlerInterface interface {
	// Asset CRUD operations
	CreateAssetHandler(w http.ResponseWriter, r *http.Request)
	ListAssetsHandler(w http.ResponseWriter, r *http.Request)
	GetAssetHandler(w http.ResponseWriter, r *http.Request)
	UpdateAssetHandler(w http.ResponseWriter, r *http.Request)
	DeleteAssetHandler(w http.ResponseWriter, r *http.Request)

	// Audit and custodian views
	GetAssetHistoryHandler(w http.ResponseWriter, r *http.Request)
	GetCustodianAssetsHandler(w http.ResponseWriter, r *http.Request)

	// Label printing
	GetAssetLabelHandler(w http.ResponseWriter, r *http.Request)

	// Health and monitoring
	HealthHandler(w http.ResponseWriter, r *http.Request)
}

// TicketHandlerInterface defines the contract for ticket HTTP handlers.
type TicketHandlerInterface interface {
	CreateTicketHandler(w http.ResponseWriter, r *http.Request)
	ListOpenTicketsHandler(w http.ResponseWriter, r *http.Request)
	GetTicketHandler(w http.ResponseWriter, r *http.Request)
	ResolveTicketHandler(w http.ResponseWriter, r *http.Request)
}

// Compile-time interface checks
var (
	_ AssetHandlerInterface  = (*AssetHandler)(nil)
	_ TicketHandlerInterface = (*TicketHandler)(nil)
)
