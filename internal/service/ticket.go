package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"asset-inventory-api/internal/audit"
	"asset-inventory-api/internal/model"
	"asset-inventory-api/internal/notification"
	"asset-inventory-api/internal/repository"
	apperrors "asset-inventory-api/pkg/errors"
)

// PortalActor identifies changes originating from the self-service portal
// rather than an administrator session.
const PortalActor = "PORTAL_WEB"

// TicketService handles fault reports from the custodian portal and their
// resolution by technicians.
type TicketService struct {
	tickets  repository.TicketRepository
	assets   repository.AssetRepository
	lookups  repository.LookupRepository
	recorder *audit.Recorder
	notifier notification.Notifier
	logger   *log.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(tickets repository.TicketRepository, assets repository.AssetRepository,
	lookups repository.LookupRepository, recorder *audit.Recorder,
	notifier notification.Notifier, logger *log.Logger) *TicketService {
	if logger == nil {
		logger = log.Default()
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &TicketService{
		tickets:  tickets,
		assets:   assets,
		lookups:  lookups,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateTicketInput carries a fault report from the custodian portal.
type CreateTicketInput struct {
	AssetID     int64  `json:"asset_id"`
	ReporterID  string `json:"reporter_id"`
	DamageKind  string `json:"damage_kind"`
	Description string `json:"description"`
	EvidenceURL string `json:"evidence_url"`
}

// CreateTicket registers a fault report, flags the asset as faulty and
// records the report on the asset's audit trail. The technician alert goes
// out asynchronously so a slow webhook never delays the portal response.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*model.Ticket, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.ValidationError("description is required")
	}

	asset, err := s.assets.GetAssetByID(ctx, input.AssetID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, apperrors.NotFoundError("asset")
		}
		return nil, apperrors.DatabaseError("failed to retrieve asset", err)
	}

	reporterName := "Anonimo"
	if code := strings.TrimSpace(input.ReporterID); code != "" {
		if emp, err := s.lookups.GetEmployeeByCode(ctx, code); err == nil {
			reporterName = emp.Name
		}
	}

	ticket := model.Ticket{
		AssetID:      asset.ID,
		ReporterID:   strings.TrimSpace(input.ReporterID),
		ReporterName: reporterName,
		DamageKind:   strings.TrimSpace(input.DamageKind),
		Description:  strings.TrimSpace(input.Description),
		EvidenceURL:  strings.TrimSpace(input.EvidenceURL),
	}

	created, err := s.tickets.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to create ticket", err)
	}

	if err := s.assets.UpdateAssetState(ctx, asset.ID, model.StateBad); err != nil {
		s.logger.Printf("Failed to flag asset %s as faulty: %v", asset.Identifier, err)
	}

	s.recorder.RecordEvent(ctx, asset.ID, model.EventUserReport,
		fmt.Sprintf("Falla: %s", created.Description), PortalActor)

	go s.notifyTechnicians(asset.Identifier, created)

	s.logger.Printf("Ticket created: id=%d asset=%s reporter=%s", created.ID, asset.Identifier, reporterName)
	return created, nil
}

// GetTicket returns a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	ticket, err := s.tickets.GetTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, apperrors.NotFoundError("ticket")
		}
		return nil, apperrors.DatabaseError("failed to retrieve ticket", err)
	}
	return ticket, nil
}

// ListOpenTickets returns all pending tickets, newest first.
func (s *TicketService) ListOpenTickets(ctx context.Context) ([]model.Ticket, error) {
	tickets, err := s.tickets.ListOpenTickets(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve tickets", err)
	}
	return tickets, nil
}

// ResolveTicket closes a ticket and records the corrective maintenance on
// the asset's audit trail. The asset's state is restored separately by the
// technician through an asset edit.
func (s *TicketService) ResolveTicket(ctx context.Context, id int64, solution, actor string) (*model.Ticket, error) {
	if strings.TrimSpace(solution) == "" {
		return nil, apperrors.ValidationError("solution is required")
	}

	ticket, err := s.tickets.GetTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, apperrors.NotFoundError("ticket")
		}
		return nil, apperrors.DatabaseError("failed to retrieve ticket", err)
	}
	if ticket.Status == model.TicketClosed {
		return nil, apperrors.ConflictError("ticket is already closed")
	}

	if err := s.tickets.CloseTicket(ctx, id); err != nil {
		return nil, apperrors.DatabaseError("failed to close ticket", err)
	}

	s.recorder.RecordEvent(ctx, ticket.AssetID, model.EventCorrective,
		fmt.Sprintf("Ticket #%d resuelto: %s", ticket.ID, strings.TrimSpace(solution)), actor)

	closed, err := s.tickets.GetTicketByID(ctx, id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve closed ticket", err)
	}
	s.logger.Printf("Ticket resolved: id=%d asset_id=%d", id, ticket.AssetID)
	return closed, nil
}

func (s *TicketService) notifyTechnicians(identifier string, ticket *model.Ticket) {
	err := s.notifier.SendNotification(notification.Notification{
		Level:           notification.LevelWarning,
		AssetIdentifier: identifier,
		TicketID:        ticket.ID,
		Message:         fmt.Sprintf("Nuevo reporte de falla en %s: %s", identifier, ticket.Description),
		Metadata: map[string]string{
			"reporter":    ticket.ReporterName,
			"damage_kind": ticket.DamageKind,
		},
	})
	if err != nil {
		s.logger.Printf("Failed to send ticket notification for %s: %v", identifier, err)
	}
}
