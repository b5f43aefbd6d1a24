package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"asset-inventory-api/internal/model"
)

var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository persists user-reported fault tickets.
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket model.Ticket) (*model.Ticket, error)
	GetTicketByID(ctx context.Context, id int64) (*model.Ticket, error)
	ListOpenTickets(ctx context.Context) ([]model.Ticket, error)
	CloseTicket(ctx context.Context, id int64) error
}

type ticketRepository struct {
	DB *sql.DB
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{DB: db}
}

// CreateTicket inserts a new open ticket and returns it with its id.
func (r *ticketRepository) CreateTicket(ctx context.Context, ticket model.Ticket) (*model.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ticket.Status = model.TicketOpen
	query := `
		INSERT INTO tickets (asset_id, reporter_id, reporter_name, damage_kind, description, evidence_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, reported_at`

	err := r.DB.QueryRowContext(ctx, query,
		ticket.AssetID,
		ticket.ReporterID,
		ticket.ReporterName,
		ticket.DamageKind,
		ticket.Description,
		ticket.EvidenceURL,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.ReportedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return &ticket, nil
}

// GetTicketByID retrieves a single ticket.
func (r *ticketRepository) GetTicketByID(ctx context.Context, id int64) (*model.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		SELECT id, asset_id, reporter_id, reporter_name, damage_kind, description, evidence_url, status, reported_at
		FROM tickets
		WHERE id = $1`

	var t model.Ticket
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.AssetID, &t.ReporterID, &t.ReporterName,
		&t.DamageKind, &t.Description, &t.EvidenceURL, &t.Status, &t.ReportedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &t, nil
}

// ListOpenTickets retrieves tickets that are not yet closed, newest first.
func (r *ticketRepository) ListOpenTickets(ctx context.Context) ([]model.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT id, asset_id, reporter_id, reporter_name, damage_kind, description, evidence_url, status, reported_at
		FROM tickets
		WHERE status != $1
		ORDER BY reported_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, model.TicketClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.AssetID, &t.ReporterID, &t.ReporterName,
			&t.DamageKind, &t.Description, &t.EvidenceURL, &t.Status, &t.ReportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tickets, nil
}

// CloseTicket marks a ticket as resolved.
func (r *ticketRepository) CloseTicket(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `UPDATE tickets SET status = $1 WHERE id = $2`, model.TicketClosed, id)
	if err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
