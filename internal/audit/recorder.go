// Package audit composes and appends lifecycle entries for assets. Every
// creation and edit goes through here; the recorder is deliberately
// non-fatal so a failed audit write never blocks the state change that
// triggered it.
package audit

import (
	"context"
	"fmt"
	"log"
	"strings"

	"asset-inventory-api/internal/model"
)

// NoCustodian is the display sentinel for an asset held in the warehouse.
const NoCustodian = "Bodega"

// LookupResolver resolves type and brand ids to display names so edit
// diffs read as names instead of numbers.
type LookupResolver interface {
	TypeName(ctx context.Context, id int64) (string, error)
	BrandName(ctx context.Context, id int64) (string, error)
}

// Sink persists entries. Satisfied by the audit repository.
type Sink interface {
	AppendEntry(ctx context.Context, entry model.AuditEntry) error
}

// Recorder writes audit entries and edit diffs.
type Recorder struct {
	sink    Sink
	lookups LookupResolver
	logger  *log.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(sink Sink, lookups LookupResolver, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{sink: sink, lookups: lookups, logger: logger}
}

// RecordEvent appends a single entry of the given kind. Failures are logged
// and swallowed.
func (r *Recorder) RecordEvent(ctx context.Context, assetID int64, kind, description, actor string) {
	if actor == "" {
		actor = "sistema"
	}
	entry := model.AuditEntry{
		AssetID:     assetID,
		Kind:        kind,
		Description: truncate(description, model.MaxAuditDescription),
		Actor:       actor,
	}
	if err := r.sink.AppendEntry(ctx, entry); err != nil {
		r.logger.Printf("audit: failed to append %s entry for asset %d: %v", kind, assetID, err)
	}
}

// RecordEdit compares the persisted state with the proposed state and, when
// anything actually changed, appends one EDICION entry describing the
// field-level diffs. No diffs, no entry. Any failure while composing the
// entry is logged and swallowed so the caller's update proceeds regardless.
func (r *Recorder) RecordEdit(ctx context.Context, before, after model.Asset, actor string) {
	frags, err := r.diff(ctx, before, after)
	if err != nil {
		r.logger.Printf("audit: could not compose edit diff for asset %d: %v", before.ID, err)
		return
	}
	if len(frags) == 0 {
		return
	}
	r.RecordEvent(ctx, before.ID, model.EventEdit, strings.Join(frags, "; "), actor)
}

func (r *Recorder) diff(ctx context.Context, before, after model.Asset) ([]string, error) {
	var frags []string

	// Trimmed comparison avoids false positives from incidental whitespace.
	stringFields := []struct {
		label    string
		old, new string
	}{
		{"Serial", before.Serial, after.Serial},
		{"Referencia", before.Reference, after.Reference},
		{"Hostname", before.Hostname, after.Hostname},
		{"IP", before.IP, after.IP},
		{"MAC", before.MAC, after.MAC},
		{"Estado", before.State, after.State},
	}
	for _, f := range stringFields {
		o, n := strings.TrimSpace(f.old), strings.TrimSpace(f.new)
		if o != n {
			frags = append(frags, fmt.Sprintf("%s: %s->%s", f.label, o, n))
		}
	}

	if before.TypeID != after.TypeID {
		oldName, err := r.lookups.TypeName(ctx, before.TypeID)
		if err != nil {
			return nil, err
		}
		newName, err := r.lookups.TypeName(ctx, after.TypeID)
		if err != nil {
			return nil, err
		}
		frags = append(frags, fmt.Sprintf("Tipo: %s->%s", oldName, newName))
	}

	if before.BrandID != after.BrandID {
		oldName, err := r.lookups.BrandName(ctx, before.BrandID)
		if err != nil {
			return nil, err
		}
		newName, err := r.lookups.BrandName(ctx, after.BrandID)
		if err != nil {
			return nil, err
		}
		frags = append(frags, fmt.Sprintf("Marca: %s->%s", oldName, newName))
	}

	// Zero already means "absent" for ModelID, so absent never diffs
	// against absent.
	if before.ModelID != after.ModelID {
		frags = append(frags, "Modelo modificado")
	}

	if oldCust, newCust := custodian(before), custodian(after); oldCust != newCust {
		frags = append(frags, fmt.Sprintf("Responsable: %s->%s", oldCust, newCust))
	}

	return frags, nil
}

func custodian(a model.Asset) string {
	if strings.TrimSpace(a.CustodianCode) == "" {
		return NoCustodian
	}
	return strings.TrimSpace(a.CustodianCode)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
