package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"asset-inventory-api/internal/audit"
	"asset-inventory-api/internal/intake"
	"asset-inventory-api/internal/model"
	"asset-inventory-api/internal/repository"
	apperrors "asset-inventory-api/pkg/errors"
	"asset-inventory-api/pkg/validation"

	"github.com/google/uuid"
)

// AssetService handles business logic for asset operations: the two-phase
// identifier protocol, accessory batches and hierarchy rules.
type AssetService struct {
	assets   repository.AssetRepository
	lookups  repository.LookupRepository
	auditLog repository.AuditRepository
	recorder *audit.Recorder
	logger   *log.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(assets repository.AssetRepository, lookups repository.LookupRepository,
	auditLog repository.AuditRepository, recorder *audit.Recorder, logger *log.Logger) *AssetService {
	if logger == nil {
		logger = log.Default()
	}
	return &AssetService{
		assets:   assets,
		lookups:  lookups,
		auditLog: auditLog,
		recorder: recorder,
		logger:   logger,
	}
}

// CreateAssetInput carries a creation form submission, manual or pre-filled
// from an extraction. AccessoriesPayload is the opaque encoded accessory
// list produced by the intake endpoint.
type CreateAssetInput struct {
	Serial        string `json:"serial"`
	Hostname      string `json:"hostname"`
	Reference     string `json:"reference"`
	MAC           string `json:"mac"`
	IP            string `json:"ip"`
	TypeID        int64  `json:"type_id"`
	BrandID       int64  `json:"brand_id"`
	ModelID       int64  `json:"model_id"`
	State         string `json:"state"`
	ParentID      int64  `json:"parent_id"`
	CustodianCode string `json:"custodian_code"`

	// Set when the custodian does not exist yet and should be registered.
	NewEmployeeName   string `json:"new_employee_name"`
	NewEmployeeAreaID int64  `json:"new_employee_area_id"`

	AccessoriesPayload string `json:"accessories_payload"`
}

// UpdateAssetInput carries an edit form submission.
type UpdateAssetInput struct {
	Serial        string `json:"serial"`
	Hostname      string `json:"hostname"`
	Reference     string `json:"reference"`
	MAC           string `json:"mac"`
	IP            string `json:"ip"`
	TypeID        int64  `json:"type_id"`
	BrandID       int64  `json:"brand_id"`
	ModelID       int64  `json:"model_id"`
	State         string `json:"state"`
	ParentID      int64  `json:"parent_id"`
	CustodianCode string `json:"custodian_code"`
}

// CreateAsset creates a principal asset (or a single accessory) using the
// two-phase identifier protocol, then processes the accessory batch. The
// batch runs strictly after the principal's final identifier is committed
// because each accessory's audit entry references that code. Batch failures
// are logged and skipped; the principal creation is never rolled back.
func (s *AssetService) CreateAsset(ctx context.Context, input CreateAssetInput, actor string) (*model.Asset, error) {
	serial := intake.NormalizeSerial(input.Serial)
	if serial == "" {
		return nil, apperrors.ValidationError("serial is missing or a placeholder value")
	}

	if errs := validation.ValidateAssetInput(validation.AssetInput{
		Serial:        serial,
		IP:            strings.TrimSpace(input.IP),
		TypeID:        input.TypeID,
		BrandID:       input.BrandID,
		State:         input.State,
		CustodianCode: strings.TrimSpace(input.CustodianCode),
	}); len(errs) > 0 {
		return nil, apperrors.ValidationError(strings.Join(errs, "; "))
	}

	if err := s.validateParent(ctx, input.ParentID); err != nil {
		return nil, err
	}

	custodian, err := s.resolveCustodian(ctx, input.CustodianCode, input.NewEmployeeName, input.NewEmployeeAreaID)
	if err != nil {
		return nil, err
	}

	asset := model.Asset{
		// Provisional identifier; rewritten to the final ACT-/ACC- code
		// once storage assigns the numeric id.
		Identifier:    uuid.NewString(),
		Serial:        serial,
		Hostname:      strings.TrimSpace(input.Hostname),
		Reference:     strings.TrimSpace(input.Reference),
		MAC:           intake.NormalizeMAC(input.MAC),
		IP:            strings.TrimSpace(input.IP),
		TypeID:        input.TypeID,
		BrandID:       input.BrandID,
		ModelID:       input.ModelID,
		State:         input.State,
		CustodianCode: custodian,
		ParentID:      input.ParentID,
	}

	created, err := s.assets.CreateAsset(ctx, asset)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			return nil, apperrors.AlreadyExistsError("asset with this serial")
		}
		return nil, apperrors.DatabaseError("failed to create asset", err)
	}

	custodianDisplay := custodian
	if custodianDisplay == "" {
		custodianDisplay = audit.NoCustodian
	}
	s.recorder.RecordEvent(ctx, created.ID, model.EventCreation,
		fmt.Sprintf("Activo creado. Resp: %s", custodianDisplay), actor)

	s.processAccessoryBatch(ctx, created, input.AccessoriesPayload, actor)

	s.logger.Printf("Asset created: id=%d identifier=%s serial=%s", created.ID, created.Identifier, created.Serial)
	return created, nil
}

// processAccessoryBatch decodes the opaque accessory payload and creates
// each candidate as a child asset through the same two-phase protocol. A
// malformed payload or a failing item aborts the batch; the principal
// stands either way.
func (s *AssetService) processAccessoryBatch(ctx context.Context, principal *model.Asset, payload, actor string) {
	if strings.TrimSpace(payload) == "" {
		return
	}

	var candidates []intake.AccessoryCandidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		s.logger.Printf("Skipping accessory batch for %s: malformed payload: %v", principal.Identifier, err)
		return
	}

	for _, c := range candidates {
		serial := intake.NormalizeSerial(c.Serial)
		if serial == "" {
			s.logger.Printf("Skipping accessory without usable serial (type=%q) for %s", c.Type, principal.Identifier)
			continue
		}

		typeName := strings.TrimSpace(c.Type)
		if typeName == "" {
			typeName = intake.DefaultType
		}
		brandName := strings.TrimSpace(c.Brand)
		if brandName == "" {
			brandName = "GENERICO"
		}

		accType, err := s.lookups.FindOrCreateType(ctx, typeName)
		if err != nil {
			s.logger.Printf("Aborting accessory batch for %s: %v", principal.Identifier, err)
			return
		}
		brand, err := s.lookups.FindOrCreateBrand(ctx, brandName)
		if err != nil {
			s.logger.Printf("Aborting accessory batch for %s: %v", principal.Identifier, err)
			return
		}

		accessory := model.Asset{
			Identifier: uuid.NewString(),
			Serial:     serial,
			Reference:  strings.TrimSpace(c.Reference),
			TypeID:     accType.ID,
			BrandID:    brand.ID,
			State:      model.StateGood,
			ParentID:   principal.ID,
		}

		created, err := s.assets.CreateAsset(ctx, accessory)
		if err != nil {
			s.logger.Printf("Aborting accessory batch for %s: %v", principal.Identifier, err)
			return
		}

		s.recorder.RecordEvent(ctx, created.ID, model.EventCreation,
			fmt.Sprintf("Accesorio vinculado a %s", principal.Identifier), actor)
	}
}

// GetAsset returns an asset with its lookup names and accessories resolved.
func (s *AssetService) GetAsset(ctx context.Context, id int64) (*model.AssetDetail, error) {
	asset, err := s.assets.GetAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, apperrors.NotFoundError("asset")
		}
		return nil, apperrors.DatabaseError("failed to retrieve asset", err)
	}

	detail := &model.AssetDetail{Asset: *asset}

	if detail.TypeName, err = s.lookups.TypeName(ctx, asset.TypeID); err != nil {
		s.logger.Printf("Failed to resolve type name for asset %d: %v", id, err)
	}
	if detail.BrandName, err = s.lookups.BrandName(ctx, asset.BrandID); err != nil {
		s.logger.Printf("Failed to resolve brand name for asset %d: %v", id, err)
	}
	if asset.ModelID != 0 {
		if detail.ModelName, err = s.lookups.ModelName(ctx, asset.ModelID); err != nil {
			s.logger.Printf("Failed to resolve model name for asset %d: %v", id, err)
		}
	}
	if asset.CustodianCode != "" {
		if emp, err := s.lookups.GetEmployeeByCode(ctx, asset.CustodianCode); err == nil {
			detail.CustodianName = emp.Name
		}
	}

	if !asset.IsAccessory() {
		accessories, err := s.assets.ListAccessories(ctx, asset.ID)
		if err != nil {
			return nil, apperrors.DatabaseError("failed to retrieve accessories", err)
		}
		detail.Accessories = accessories
	}

	return detail, nil
}

// ListPrincipalAssets returns all top-level equipment records.
func (s *AssetService) ListPrincipalAssets(ctx context.Context) ([]model.Asset, error) {
	assets, err := s.assets.ListPrincipalAssets(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve assets", err)
	}
	return assets, nil
}

// ListAssetsByCustodian returns the active assets held by one custodian.
func (s *AssetService) ListAssetsByCustodian(ctx context.Context, code string) ([]model.Asset, error) {
	if err := validation.ValidateEmployeeCode(code); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	assets, err := s.assets.ListAssetsByCustodian(ctx, code)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve custodian assets", err)
	}
	return assets, nil
}

// UpdateAsset applies an edit. The change recorder compares the persisted
// state against the proposal after the write succeeds; a failed audit write
// never undoes or blocks the edit itself.
func (s *AssetService) UpdateAsset(ctx context.Context, id int64, input UpdateAssetInput, actor string) (*model.Asset, error) {
	existing, err := s.assets.GetAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, apperrors.NotFoundError("asset")
		}
		return nil, apperrors.DatabaseError("failed to retrieve asset for update", err)
	}

	serial := intake.NormalizeSerial(input.Serial)
	if serial == "" {
		return nil, apperrors.ValidationError("serial is missing or a placeholder value")
	}
	if errs := validation.ValidateAssetInput(validation.AssetInput{
		Serial:        serial,
		IP:            strings.TrimSpace(input.IP),
		TypeID:        input.TypeID,
		BrandID:       input.BrandID,
		State:         input.State,
		CustodianCode: strings.TrimSpace(input.CustodianCode),
	}); len(errs) > 0 {
		return nil, apperrors.ValidationError(strings.Join(errs, "; "))
	}

	if input.ParentID != id {
		if err := s.validateParent(ctx, input.ParentID); err != nil {
			return nil, err
		}
	} else {
		return nil, apperrors.ValidationError("asset cannot be its own parent")
	}

	proposed := *existing
	proposed.Serial = serial
	proposed.Hostname = strings.TrimSpace(input.Hostname)
	proposed.Reference = strings.TrimSpace(input.Reference)
	proposed.MAC = intake.NormalizeMAC(input.MAC)
	proposed.IP = strings.TrimSpace(input.IP)
	proposed.TypeID = input.TypeID
	proposed.BrandID = input.BrandID
	proposed.ModelID = input.ModelID
	proposed.State = input.State
	proposed.ParentID = input.ParentID
	proposed.CustodianCode = strings.TrimSpace(input.CustodianCode)

	if err := s.assets.UpdateAsset(ctx, id, proposed); err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			return nil, apperrors.AlreadyExistsError("asset with this serial")
		}
		return nil, apperrors.DatabaseError("failed to update asset", err)
	}

	s.recorder.RecordEdit(ctx, *existing, proposed, actor)

	updated, err := s.assets.GetAssetByID(ctx, id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve updated asset", err)
	}
	return updated, nil
}

// DeleteAsset removes an asset and its accessories, audit trail and tickets.
func (s *AssetService) DeleteAsset(ctx context.Context, id int64) error {
	if err := s.assets.DeleteAsset(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return apperrors.NotFoundError("asset")
		}
		return apperrors.DatabaseError("failed to delete asset", err)
	}
	s.logger.Printf("Asset deleted: id=%d", id)
	return nil
}

// GetAssetHistory returns the audit trail of an asset, newest first.
func (s *AssetService) GetAssetHistory(ctx context.Context, id int64) ([]model.AuditEntry, error) {
	if _, err := s.assets.GetAssetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, apperrors.NotFoundError("asset")
		}
		return nil, apperrors.DatabaseError("failed to retrieve asset", err)
	}
	entries, err := s.auditLog.ListByAsset(ctx, id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to retrieve audit trail", err)
	}
	return entries, nil
}

// validateParent enforces the single-level hierarchy: a parent must exist
// and must itself be principal equipment.
func (s *AssetService) validateParent(ctx context.Context, parentID int64) error {
	if parentID == 0 {
		return nil
	}
	parent, err := s.assets.GetAssetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return apperrors.ValidationError("parent asset does not exist")
		}
		return apperrors.DatabaseError("failed to validate parent asset", err)
	}
	if parent.IsAccessory() {
		return apperrors.ValidationError("parent asset is itself an accessory; nesting is not allowed")
	}
	return nil
}

// resolveCustodian maps the submitted custodian code to an employee,
// registering a new one when a name was supplied for an unknown code.
func (s *AssetService) resolveCustodian(ctx context.Context, code, newName string, areaID int64) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}

	if _, err := s.lookups.GetEmployeeByCode(ctx, code); err == nil {
		return code, nil
	} else if !errors.Is(err, repository.ErrLookupNotFound) {
		return "", apperrors.DatabaseError("failed to resolve custodian", err)
	}

	if strings.TrimSpace(newName) == "" {
		// Unknown code and nothing to register: asset stays in the warehouse.
		return "", nil
	}

	// Temporary code until HR assigns a real one.
	newCode := "T-" + strings.ToUpper(uuid.NewString()[:4])
	if areaID == 0 {
		var err error
		if areaID, err = s.lookups.FirstAreaID(ctx); err != nil {
			return "", apperrors.DatabaseError("no area available for new employee", err)
		}
	}

	emp, err := s.lookups.CreateEmployee(ctx, model.Employee{
		Code:   newCode,
		Name:   strings.ToUpper(strings.TrimSpace(newName)),
		AreaID: areaID,
		Active: true,
	})
	if err != nil {
		return "", apperrors.DatabaseError("failed to register new custodian", err)
	}

	s.logger.Printf("Registered new custodian %s (%s)", emp.Code, emp.Name)
	return emp.Code, nil
}
