package model

// Lookup dictionaries referenced by assets. Brand and type names are natural
// keys with a uniqueness constraint in storage.

// Brand is a manufacturer dictionary entry.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AssetType is an equipment category dictionary entry.
type AssetType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Area is an organizational unit employees belong to.
type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ModelRef is a concrete model of a brand, optionally bound to a type.
type ModelRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	BrandID int64  `json:"brand_id"`
	TypeID  int64  `json:"type_id,omitempty"`
}

// Employee is a person who can hold custody of assets. Code is the natural
// primary key (payroll code or a generated T-XXXX placeholder).
type Employee struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	AreaID int64  `json:"area_id"`
	Active bool   `json:"active"`
}
