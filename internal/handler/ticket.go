package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"asset-inventory-api/internal/service"
)

// TicketHandler handles the HTTP requests for fault tickets.
type TicketHandler struct {
	Service *service.TicketService
	Logger  *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(svc *service.TicketService, logger *log.Logger) *TicketHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &TicketHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// CreateTicketHandler registers a fault report from the custodian portal.
func (h *TicketHandler) CreateTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	var input service.CreateTicketInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	ticket, err := h.Service.CreateTicket(ctx, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create ticket")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Ticket created successfully", ticket)
}

// ListOpenTicketsHandler returns all pending tickets, newest first.
func (h *TicketHandler) ListOpenTicketsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	tickets, err := h.Service.ListOpenTickets(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list tickets")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, tickets)
}

// GetTicketHandler returns a single ticket.
func (h *TicketHandler) GetTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	ticket, err := h.Service.GetTicket(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "get ticket")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, ticket)
}

// ResolveTicketHandler closes a ticket with the technician's solution.
func (h *TicketHandler) ResolveTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ResponseHelper.PathID(r)
	if !ok {
		h.ErrorHandler.HandleIDParseError(w)
		return
	}

	var body struct {
		Solution string `json:"solution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	ticket, err := h.Service.ResolveTicket(ctx, id, body.Solution, h.ResponseHelper.Actor(r))
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "resolve ticket")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Ticket resolved successfully", ticket)
}
