package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-inventory-api/internal/model"
)

// Custom errors for better error handling
var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrDuplicateSerial = errors.New("asset with this serial already exists")
)

// AssetRepository is an interface for interacting with asset data.
type AssetRepository interface {
	CreateAsset(ctx context.Context, asset model.Asset) (*model.Asset, error)
	GetAssetByID(ctx context.Context, id int64) (*model.Asset, error)
	ListPrincipalAssets(ctx context.Context) ([]model.Asset, error)
	ListAccessories(ctx context.Context, parentID int64) ([]model.Asset, error)
	ListAssetsByCustodian(ctx context.Context, custodianCode string) ([]model.Asset, error)
	UpdateAsset(ctx context.Context, id int64, asset model.Asset) error
	UpdateAssetState(ctx context.Context, id int64, state string) error
	DeleteAsset(ctx context.Context, id int64) error
}

// assetRepository is the concrete implementation of the AssetRepository interface.
type assetRepository struct {
	DB *sql.DB
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db *sql.DB) AssetRepository {
	return &assetRepository{DB: db}
}

const assetColumns = `id, identifier, serial, hostname, reference, mac, ip, type_id, brand_id, model_id, state, custodian_code, parent_id, created_at, updated_at`

// CreateAsset persists a new asset using the two-phase identifier protocol:
// the row is inserted with its provisional identifier, the storage-assigned
// id comes back, and the identifier is rewritten to the final ACT-/ACC-
// code before the transaction commits. No reader observes the provisional
// token as final.
func (r *assetRepository) CreateAsset(ctx context.Context, asset model.Asset) (*model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO assets (identifier, serial, hostname, reference, mac, ip, type_id, brand_id, model_id, state, custodian_code, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	err = tx.QueryRowContext(ctx, insert,
		asset.Identifier,
		asset.Serial,
		asset.Hostname,
		asset.Reference,
		asset.MAC,
		asset.IP,
		asset.TypeID,
		asset.BrandID,
		nullInt64(asset.ModelID),
		asset.State,
		nullString(asset.CustodianCode),
		nullInt64(asset.ParentID),
	).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, asset.Serial)
		}
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	prefix := model.PrefixEquipment
	if asset.ParentID != 0 {
		prefix = model.PrefixAccessory
	}
	code := model.FormatIdentifier(prefix, id)

	if _, err := tx.ExecContext(ctx, `UPDATE assets SET identifier = $1 WHERE id = $2`, code, id); err != nil {
		return nil, fmt.Errorf("failed to assign identifier: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit asset creation: %w", err)
	}

	asset.ID = id
	asset.Identifier = code
	return &asset, nil
}

// GetAssetByID retrieves a single asset by its storage id.
func (r *assetRepository) GetAssetByID(ctx context.Context, id int64) (*model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}
	return asset, nil
}

// ListPrincipalAssets retrieves all principal equipment, newest first.
// Accessories (rows with a parent) are excluded.
func (r *assetRepository) ListPrincipalAssets(ctx context.Context) ([]model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE parent_id IS NULL
		ORDER BY id DESC`

	return r.queryAssets(ctx, query)
}

// ListAccessories retrieves the accessories attached to a principal asset.
func (r *assetRepository) ListAccessories(ctx context.Context, parentID int64) ([]model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE parent_id = $1
		ORDER BY id`

	return r.queryAssets(ctx, query, parentID)
}

// ListAssetsByCustodian retrieves the non-decommissioned assets held by a
// custodian.
func (r *assetRepository) ListAssetsByCustodian(ctx context.Context, custodianCode string) ([]model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE custodian_code = $1 AND state != $2
		ORDER BY id`

	return r.queryAssets(ctx, query, custodianCode, model.StateRetired)
}

// UpdateAsset rewrites the mutable fields of an asset.
func (r *assetRepository) UpdateAsset(ctx context.Context, id int64, asset model.Asset) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE assets
		SET serial = $1, hostname = $2, reference = $3, mac = $4, ip = $5,
		    type_id = $6, brand_id = $7, model_id = $8, state = $9,
		    custodian_code = $10, parent_id = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $12`

	result, err := r.DB.ExecContext(ctx, query,
		asset.Serial,
		asset.Hostname,
		asset.Reference,
		asset.MAC,
		asset.IP,
		asset.TypeID,
		asset.BrandID,
		nullInt64(asset.ModelID),
		asset.State,
		nullString(asset.CustodianCode),
		nullInt64(asset.ParentID),
		id,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return fmt.Errorf("%w: %s", ErrDuplicateSerial, asset.Serial)
		}
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return requireRowsAffected(result)
}

// UpdateAssetState flips only the condition state of an asset.
func (r *assetRepository) UpdateAssetState(ctx context.Context, id int64, state string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx,
		`UPDATE assets SET state = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, state, id)
	if err != nil {
		return fmt.Errorf("failed to update asset state: %w", err)
	}

	return requireRowsAffected(result)
}

// DeleteAsset removes an asset together with its accessories, audit trail
// and tickets. This cascade is the only path that deletes audit entries.
func (r *assetRepository) DeleteAsset(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM audit_entries WHERE asset_id IN (SELECT id FROM assets WHERE parent_id = $1)`, []interface{}{id}},
		{`DELETE FROM tickets WHERE asset_id IN (SELECT id FROM assets WHERE parent_id = $1)`, []interface{}{id}},
		{`DELETE FROM assets WHERE parent_id = $1`, []interface{}{id}},
		{`DELETE FROM audit_entries WHERE asset_id = $1`, []interface{}{id}},
		{`DELETE FROM tickets WHERE asset_id = $1`, []interface{}{id}},
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("failed to cascade asset deletion: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if err := requireRowsAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit asset deletion: %w", err)
	}
	return nil
}

func (r *assetRepository) queryAssets(ctx context.Context, query string, args ...interface{}) ([]model.Asset, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return assets, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	var (
		a         model.Asset
		modelID   sql.NullInt64
		custodian sql.NullString
		parentID  sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Identifier, &a.Serial, &a.Hostname, &a.Reference, &a.MAC, &a.IP,
		&a.TypeID, &a.BrandID, &modelID, &a.State, &custodian, &parentID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ModelID = modelID.Int64
	a.CustodianCode = custodian.String
	a.ParentID = parentID.Int64
	return &a, nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
