package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"asset-inventory-api/internal/qrlabel"
	"asset-inventory-api/internal/service"

	"github.com/gorilla/mux"
)

// Constants for request timeouts
const (
	DefaultTimeout     = 10 * time.Second
	LongRunningTimeout = 15 * time.Second
)

// AssetHandler handles the HTTP requests for assets.
type AssetHandler struct {
	Service       *service.AssetService
	PublicBaseURL string
	Logger        *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewAssetHandler creates a new AssetHandler with dependencies and helpers
func NewAssetHandler(svc *service.AssetService, publicBaseURL string, logger *log.Logger) *AssetHandler {
	if logger == nil {
		logger = log.Default()
	}

	return &AssetHandler{
		Service:        svc,
		PublicBaseURL:  publicBaseURL,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// CreateAssetHandler handles the creation of a new asset, including the
// accessory batch attached by the intake flow.
func (h *AssetHandler) CreateAssetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	var input service.CreateAssetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	asset, err := h.Service.CreateAsset(ctx, input, h.ResponseHelper.Actor(r))
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Asset created successfully", asset)
}

// ListAssetsHandler returns all principal assets.
func (h *AssetHandler) ListAssetsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	assets, err := h.Service.ListPrincipalAssets(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list assets")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, assets)
}

// GetAssetHandler returns one asset with lookups and accessories resolved.
func (h *AssetHandler) GetAssetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	detail, err := h.Service.GetAsset(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "get asset")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, detail)
}

// UpdateAssetHandler applies an edit and records the resulting diff.
func (h *AssetHandler) UpdateAssetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	var input service.UpdateAssetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	asset, err := h.Service.UpdateAsset(ctx, id, input, h.ResponseHelper.Actor(r))
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Asset updated successfully", asset)
}

// DeleteAssetHandler removes an asset with its accessories and history.
func (h *AssetHandler) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	if err := h.Service.DeleteAsset(ctx, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Asset deleted successfully", nil)
}

// GetAssetHistoryHandler returns the audit trail of an asset, newest first.
func (h *AssetHandler) GetAssetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	entries, err := h.Service.GetAssetHistory(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "get asset history")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, entries)
}

// GetCustodianAssetsHandler returns the active assets held by a custodian,
// backing the self-service portal view.
func (h *AssetHandler) GetCustodianAssetsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	code := mux.Vars(r)["code"]
	assets, err := h.Service.ListAssetsByCustodian(ctx, code)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list custodian assets")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, assets)
}

// HealthHandler provides a health check endpoint
func (h *AssetHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	healthData := h.ResponseHelper.CreateHealthCheckData()
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Service is healthy", healthData)
}

// GetAssetLabelHandler renders a printable QR label PNG. The encoded URL
// points at the public asset page so scanning a sticker opens the record.
func (h *AssetHandler) GetAssetLabelHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	detail, err := h.Service.GetAsset(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "get asset for label")
		return
	}

	size := qrlabel.DefaultSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil {
			size = s
		}
	}

	payload := fmt.Sprintf("%s/activos/%s", h.PublicBaseURL, detail.Identifier)
	png, err := qrlabel.Render(payload, size)
	if err != nil {
		h.ErrorHandler.SendErrorResponse(w, http.StatusInternalServerError, "Failed to render label", "LABEL_ERROR", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, detail.Identifier))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Printf("Failed to write label image: %v", err)
	}
}
