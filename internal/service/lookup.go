package service

import (
	"context"
	"log"
	"strings"

	"asset-inventory-api/internal/model"
	"asset-inventory-api/internal/repository"
	apperrors "asset-inventory-api/pkg/errors"
	"asset-inventory-api/pkg/validation"
)

// LookupService handles the catalog entities referenced by assets: brands,
// asset types, areas, models and employees.
type LookupService struct {
	lookups repository.LookupRepository
	logger  *log.Logger
}

// NewLookupService creates a new lookup service
func NewLookupService(lookups repository.LookupRepository, logger *log.Logger) *LookupService {
	if logger == nil {
		logger = log.Default()
	}
	return &LookupService{lookups: lookups, logger: logger}
}

func mapLookupErr(err error, kind string) error {
	switch err {
	case nil:
		return nil
	case repository.ErrLookupNotFound:
		return apperrors.NotFoundError(kind)
	case repository.ErrDuplicateName:
		return apperrors.AlreadyExistsError(kind)
	case repository.ErrLookupInUse:
		return apperrors.ConflictError(kind + " is referenced by existing assets")
	default:
		return apperrors.DatabaseError("lookup operation failed", err)
	}
}

func (s *LookupService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.lookups.ListBrands(ctx)
	return brands, mapLookupErr(err, "brand")
}

func (s *LookupService) CreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	brand, err := s.lookups.CreateBrand(ctx, name)
	return brand, mapLookupErr(err, "brand")
}

func (s *LookupService) UpdateBrand(ctx context.Context, id int64, name string) error {
	if err := validation.ValidateRequired("name", name); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return mapLookupErr(s.lookups.UpdateBrand(ctx, id, name), "brand")
}

func (s *LookupService) DeleteBrand(ctx context.Context, id int64) error {
	return mapLookupErr(s.lookups.DeleteBrand(ctx, id), "brand")
}

func (s *LookupService) ListTypes(ctx context.Context) ([]model.AssetType, error) {
	types, err := s.lookups.ListTypes(ctx)
	return types, mapLookupErr(err, "asset type")
}

func (s *LookupService) CreateType(ctx context.Context, name string) (*model.AssetType, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	t, err := s.lookups.CreateType(ctx, name)
	return t, mapLookupErr(err, "asset type")
}

func (s *LookupService) UpdateType(ctx context.Context, id int64, name string) error {
	if err := validation.ValidateRequired("name", name); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return mapLookupErr(s.lookups.UpdateType(ctx, id, name), "asset type")
}

func (s *LookupService) DeleteType(ctx context.Context, id int64) error {
	return mapLookupErr(s.lookups.DeleteType(ctx, id), "asset type")
}

func (s *LookupService) ListAreas(ctx context.Context) ([]model.Area, error) {
	areas, err := s.lookups.ListAreas(ctx)
	return areas, mapLookupErr(err, "area")
}

func (s *LookupService) CreateArea(ctx context.Context, name string) (*model.Area, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	area, err := s.lookups.CreateArea(ctx, name)
	return area, mapLookupErr(err, "area")
}

func (s *LookupService) UpdateArea(ctx context.Context, id int64, name string) error {
	if err := validation.ValidateRequired("name", name); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return mapLookupErr(s.lookups.UpdateArea(ctx, id, name), "area")
}

func (s *LookupService) DeleteArea(ctx context.Context, id int64) error {
	return mapLookupErr(s.lookups.DeleteArea(ctx, id), "area")
}

func (s *LookupService) ListModels(ctx context.Context) ([]model.ModelRef, error) {
	models, err := s.lookups.ListModels(ctx)
	return models, mapLookupErr(err, "model")
}

func (s *LookupService) CreateModel(ctx context.Context, m model.ModelRef) (*model.ModelRef, error) {
	if err := validation.ValidateRequired("name", m.Name); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	created, err := s.lookups.CreateModel(ctx, m)
	return created, mapLookupErr(err, "model")
}

func (s *LookupService) UpdateModel(ctx context.Context, id int64, m model.ModelRef) error {
	if err := validation.ValidateRequired("name", m.Name); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return mapLookupErr(s.lookups.UpdateModel(ctx, id, m), "model")
}

func (s *LookupService) DeleteModel(ctx context.Context, id int64) error {
	return mapLookupErr(s.lookups.DeleteModel(ctx, id), "model")
}

func (s *LookupService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.lookups.ListEmployees(ctx)
	return employees, mapLookupErr(err, "employee")
}

func (s *LookupService) GetEmployee(ctx context.Context, code string) (*model.Employee, error) {
	if err := validation.ValidateEmployeeCode(code); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	emp, err := s.lookups.GetEmployeeByCode(ctx, code)
	return emp, mapLookupErr(err, "employee")
}

func (s *LookupService) CreateEmployee(ctx context.Context, emp model.Employee) (*model.Employee, error) {
	// The code is the primary key here, unlike the optional custodian
	// reference on assets.
	if err := validation.ValidateRequired("code", emp.Code); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if err := validation.ValidateEmployeeCode(emp.Code); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if err := validation.ValidateRequired("name", emp.Name); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	emp.Name = strings.ToUpper(strings.TrimSpace(emp.Name))
	created, err := s.lookups.CreateEmployee(ctx, emp)
	return created, mapLookupErr(err, "employee")
}

func (s *LookupService) UpdateEmployee(ctx context.Context, code string, emp model.Employee) error {
	if err := validation.ValidateRequired("name", emp.Name); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return mapLookupErr(s.lookups.UpdateEmployee(ctx, code, emp), "employee")
}

func (s *LookupService) DeleteEmployee(ctx context.Context, code string) error {
	return mapLookupErr(s.lookups.DeleteEmployee(ctx, code), "employee")
}
