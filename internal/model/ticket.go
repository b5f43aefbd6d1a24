package model

import "time"

// Ticket workflow states.
const (
	TicketOpen   = "Pendiente"
	TicketClosed = "Cerrado"
)

// Ticket is a user-reported fault against an asset. Evidence is an external
// file-storage concern; only a reference URL travels with the ticket.
type Ticket struct {
	ID           int64     `json:"id"`
	AssetID      int64     `json:"asset_id"`
	ReporterID   string    `json:"reporter_id"`
	ReporterName string    `json:"reporter_name"`
	DamageKind   string    `json:"damage_kind"`
	Description  string    `json:"description"`
	EvidenceURL  string    `json:"evidence_url,omitempty"`
	Status       string    `json:"status"`
	ReportedAt   time.Time `json:"reported_at"`
}
