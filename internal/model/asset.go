package model

import (
	"fmt"
	"time"
)

// Asset condition states as stored in the register.
const (
	StateGood    = "Bueno"
	StateBad     = "Malo"
	StateRetired = "Baja"
)

// Identifier prefixes for the printed QR codes. Principal equipment gets
// ACT-####, accessories get ACC-####.
const (
	PrefixEquipment = "ACT"
	PrefixAccessory = "ACC"
)

// Asset represents one tracked piece of equipment or accessory.
//
// ParentID links an accessory to its principal equipment; a zero ParentID
// means the asset is principal equipment. A parent must itself be
// parentless (no multi-level nesting). ModelID and CustodianCode use zero
// values as "not set" and map to NULL in storage.
type Asset struct {
	ID            int64     `json:"id"`
	Identifier    string    `json:"identifier"`
	Serial        string    `json:"serial"`
	Hostname      string    `json:"hostname,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	MAC           string    `json:"mac,omitempty"`
	IP            string    `json:"ip,omitempty"`
	TypeID        int64     `json:"type_id"`
	BrandID       int64     `json:"brand_id"`
	ModelID       int64     `json:"model_id,omitempty"`
	State         string    `json:"state"`
	CustodianCode string    `json:"custodian_code,omitempty"`
	ParentID      int64     `json:"parent_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsAccessory reports whether the asset hangs off a principal equipment record.
func (a Asset) IsAccessory() bool {
	return a.ParentID != 0
}

// FormatIdentifier builds the final human-readable code for a stored asset.
// The numeric id is zero-padded to 4 digits but not truncated beyond that.
func FormatIdentifier(prefix string, id int64) string {
	return fmt.Sprintf("%s-%04d", prefix, id)
}

// AssetDetail is the read view of an asset with its lookup names resolved
// and its attached accessories loaded.
type AssetDetail struct {
	Asset
	TypeName      string  `json:"type_name"`
	BrandName     string  `json:"brand_name"`
	ModelName     string  `json:"model_name,omitempty"`
	CustodianName string  `json:"custodian_name,omitempty"`
	Accessories   []Asset `json:"accessories,omitempty"`
}
