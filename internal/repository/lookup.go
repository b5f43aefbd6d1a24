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

var (
	ErrLookupNotFound = errors.New("lookup entry not found")
	ErrDuplicateName  = errors.New("lookup entry with this name already exists")
	ErrLookupInUse    = errors.New("lookup entry is referenced by existing records")
)

// LookupRepository manages the dictionary tables referenced by assets:
// brands, equipment types, areas, models and employees.
type LookupRepository interface {
	ListBrands(ctx context.Context) ([]model.Brand, error)
	CreateBrand(ctx context.Context, name string) (*model.Brand, error)
	UpdateBrand(ctx context.Context, id int64, name string) error
	DeleteBrand(ctx context.Context, id int64) error
	FindOrCreateBrand(ctx context.Context, name string) (*model.Brand, error)
	BrandName(ctx context.Context, id int64) (string, error)

	ListTypes(ctx context.Context) ([]model.AssetType, error)
	CreateType(ctx context.Context, name string) (*model.AssetType, error)
	UpdateType(ctx context.Context, id int64, name string) error
	DeleteType(ctx context.Context, id int64) error
	FindOrCreateType(ctx context.Context, name string) (*model.AssetType, error)
	TypeName(ctx context.Context, id int64) (string, error)

	ListAreas(ctx context.Context) ([]model.Area, error)
	CreateArea(ctx context.Context, name string) (*model.Area, error)
	UpdateArea(ctx context.Context, id int64, name string) error
	DeleteArea(ctx context.Context, id int64) error
	FirstAreaID(ctx context.Context) (int64, error)

	ListModels(ctx context.Context) ([]model.ModelRef, error)
	CreateModel(ctx context.Context, m model.ModelRef) (*model.ModelRef, error)
	UpdateModel(ctx context.Context, id int64, m model.ModelRef) error
	DeleteModel(ctx context.Context, id int64) error
	ModelName(ctx context.Context, id int64) (string, error)

	ListEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployeeByCode(ctx context.Context, code string) (*model.Employee, error)
	CreateEmployee(ctx context.Context, e model.Employee) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, code string, e model.Employee) error
	DeleteEmployee(ctx context.Context, code string) error
}

type lookupRepository struct {
	DB *sql.DB
}

// NewLookupRepository creates a new LookupRepository.
func NewLookupRepository(db *sql.DB) LookupRepository {
	return &lookupRepository{DB: db}
}

// mapLookupError converts pq constraint violations to sentinel errors.
func mapLookupError(err error, operation string) error {
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return ErrDuplicateName
	}
	if strings.Contains(msg, "violates foreign key constraint") {
		return ErrLookupInUse
	}
	return fmt.Errorf("failed to %s lookup entry: %w", operation, err)
}

// --- brands ---

func (r *lookupRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	var brands []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *lookupRepository) CreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b := model.Brand{Name: strings.ToUpper(strings.TrimSpace(name))}
	err := r.DB.QueryRowContext(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id`, b.Name).Scan(&b.ID)
	if err != nil {
		return nil, mapLookupError(err, "create")
	}
	return &b, nil
}

func (r *lookupRepository) UpdateBrand(ctx context.Context, id int64, name string) error {
	return r.updateNamed(ctx, `UPDATE brands SET name = $1 WHERE id = $2`, strings.ToUpper(strings.TrimSpace(name)), id)
}

func (r *lookupRepository) DeleteBrand(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, `DELETE FROM brands WHERE id = $1`, id)
}

// FindOrCreateBrand resolves a brand by exact name or inserts it. The
// ON CONFLICT upsert makes the lookup-or-create atomic under concurrent
// writers: two racing callers both get the same row.
func (r *lookupRepository) FindOrCreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b := model.Brand{Name: strings.ToUpper(strings.TrimSpace(name))}
	query := `
		INSERT INTO brands (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	if err := r.DB.QueryRowContext(ctx, query, b.Name).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("failed to find or create brand: %w", err)
	}
	return &b, nil
}

func (r *lookupRepository) BrandName(ctx context.Context, id int64) (string, error) {
	return r.lookupName(ctx, `SELECT name FROM brands WHERE id = $1`, id)
}

// --- equipment types ---

func (r *lookupRepository) ListTypes(ctx context.Context) ([]model.AssetType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM asset_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset types: %w", err)
	}
	defer rows.Close()

	var types []model.AssetType
	for rows.Next() {
		var t model.AssetType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan asset type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *lookupRepository) CreateType(ctx context.Context, name string) (*model.AssetType, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t := model.AssetType{Name: strings.ToUpper(strings.TrimSpace(name))}
	err := r.DB.QueryRowContext(ctx, `INSERT INTO asset_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		return nil, mapLookupError(err, "create")
	}
	return &t, nil
}

func (r *lookupRepository) UpdateType(ctx context.Context, id int64, name string) error {
	return r.updateNamed(ctx, `UPDATE asset_types SET name = $1 WHERE id = $2`, strings.ToUpper(strings.TrimSpace(name)), id)
}

func (r *lookupRepository) DeleteType(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, `DELETE FROM asset_types WHERE id = $1`, id)
}

// FindOrCreateType is the type-dictionary counterpart of FindOrCreateBrand.
func (r *lookupRepository) FindOrCreateType(ctx context.Context, name string) (*model.AssetType, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t := model.AssetType{Name: strings.ToUpper(strings.TrimSpace(name))}
	query := `
		INSERT INTO asset_types (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	if err := r.DB.QueryRowContext(ctx, query, t.Name).Scan(&t.ID); err != nil {
		return nil, fmt.Errorf("failed to find or create asset type: %w", err)
	}
	return &t, nil
}

func (r *lookupRepository) TypeName(ctx context.Context, id int64) (string, error) {
	return r.lookupName(ctx, `SELECT name FROM asset_types WHERE id = $1`, id)
}

// --- areas ---

func (r *lookupRepository) ListAreas(ctx context.Context) ([]model.Area, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM areas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *lookupRepository) CreateArea(ctx context.Context, name string) (*model.Area, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a := model.Area{Name: strings.TrimSpace(name)}
	err := r.DB.QueryRowContext(ctx, `INSERT INTO areas (name) VALUES ($1) RETURNING id`, a.Name).Scan(&a.ID)
	if err != nil {
		return nil, mapLookupError(err, "create")
	}
	return &a, nil
}

func (r *lookupRepository) UpdateArea(ctx context.Context, id int64, name string) error {
	return r.updateNamed(ctx, `UPDATE areas SET name = $1 WHERE id = $2`, strings.TrimSpace(name), id)
}

func (r *lookupRepository) DeleteArea(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, `DELETE FROM areas WHERE id = $1`, id)
}

// FirstAreaID returns the default area used when auto-creating employees
// without an explicit area.
func (r *lookupRepository) FirstAreaID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM areas ORDER BY id LIMIT 1`).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrLookupNotFound
		}
		return 0, fmt.Errorf("failed to get default area: %w", err)
	}
	return id, nil
}

// --- models ---

func (r *lookupRepository) ListModels(ctx context.Context) ([]model.ModelRef, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, brand_id, type_id FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var models []model.ModelRef
	for rows.Next() {
		var (
			m      model.ModelRef
			typeID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.BrandID, &typeID); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		m.TypeID = typeID.Int64
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *lookupRepository) CreateModel(ctx context.Context, m model.ModelRef) (*model.ModelRef, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	m.Name = strings.TrimSpace(m.Name)
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO models (name, brand_id, type_id) VALUES ($1, $2, $3) RETURNING id`,
		m.Name, m.BrandID, nullInt64(m.TypeID)).Scan(&m.ID)
	if err != nil {
		return nil, mapLookupError(err, "create")
	}
	return &m, nil
}

func (r *lookupRepository) UpdateModel(ctx context.Context, id int64, m model.ModelRef) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx,
		`UPDATE models SET name = $1, brand_id = $2, type_id = $3 WHERE id = $4`,
		strings.TrimSpace(m.Name), m.BrandID, nullInt64(m.TypeID), id)
	if err != nil {
		return mapLookupError(err, "update")
	}
	return requireLookupRows(result)
}

func (r *lookupRepository) DeleteModel(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, `DELETE FROM models WHERE id = $1`, id)
}

func (r *lookupRepository) ModelName(ctx context.Context, id int64) (string, error) {
	return r.lookupName(ctx, `SELECT name FROM models WHERE id = $1`, id)
}

// --- employees ---

func (r *lookupRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT code, name, area_id, active FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.Code, &e.Name, &e.AreaID, &e.Active); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *lookupRepository) GetEmployeeByCode(ctx context.Context, code string) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e model.Employee
	err := r.DB.QueryRowContext(ctx,
		`SELECT code, name, area_id, active FROM employees WHERE code = $1`, code).
		Scan(&e.Code, &e.Name, &e.AreaID, &e.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLookupNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (r *lookupRepository) CreateEmployee(ctx context.Context, e model.Employee) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	e.Name = strings.ToUpper(strings.TrimSpace(e.Name))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO employees (code, name, area_id, active) VALUES ($1, $2, $3, $4)`,
		e.Code, e.Name, e.AreaID, e.Active)
	if err != nil {
		return nil, mapLookupError(err, "create")
	}
	return &e, nil
}

func (r *lookupRepository) UpdateEmployee(ctx context.Context, code string, e model.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx,
		`UPDATE employees SET name = $1, area_id = $2, active = $3 WHERE code = $4`,
		strings.ToUpper(strings.TrimSpace(e.Name)), e.AreaID, e.Active, code)
	if err != nil {
		return mapLookupError(err, "update")
	}
	return requireLookupRows(result)
}

func (r *lookupRepository) DeleteEmployee(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM employees WHERE code = $1`, code)
	if err != nil {
		return mapLookupError(err, "delete")
	}
	return requireLookupRows(result)
}

// --- shared helpers ---

func (r *lookupRepository) updateNamed(ctx context.Context, query, name string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, query, name, id)
	if err != nil {
		return mapLookupError(err, "update")
	}
	return requireLookupRows(result)
}

func (r *lookupRepository) deleteNamed(ctx context.Context, query string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return mapLookupError(err, "delete")
	}
	return requireLookupRows(result)
}

func (r *lookupRepository) lookupName(ctx context.Context, query string, id int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var name string
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrLookupNotFound
		}
		return "", fmt.Errorf("failed to resolve lookup name: %w", err)
	}
	return name, nil
}

func requireLookupRows(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLookupNotFound
	}
	return nil
}
