package model

import "time"

// Audit event kinds. The register keeps the original Spanish event names so
// historical data and new entries stay uniform.
const (
	EventCreation    = "CREACION"
	EventEdit        = "EDICION"
	EventUserReport  = "REPORTE_USUARIO"
	EventCorrective  = "MANTENIMIENTO_CORRECTIVO"
)

// MaxAuditDescription is the hard cap on a stored audit description.
// Longer diff text is cut off, not rejected.
const MaxAuditDescription = 250

// AuditEntry is one immutable record in an asset's lifecycle log.
// Entries are append-only and only removed by the asset delete cascade.
type AuditEntry struct {
	ID          int64     `json:"id"`
	AssetID     int64     `json:"asset_id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}
