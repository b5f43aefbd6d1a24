package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"asset-inventory-api/internal/audit"
	"asset-inventory-api/internal/model"
	"asset-inventory-api/internal/repository"
	apperrors "asset-inventory-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAssetRepo is an in-memory AssetRepository mirroring the two-phase
// identifier behavior of the real one.
type fakeAssetRepo struct {
	nextID  int64
	assets  map[int64]model.Asset
	failAll bool
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: map[int64]model.Asset{}}
}

func (r *fakeAssetRepo) CreateAsset(_ context.Context, asset model.Asset) (*model.Asset, error) {
	if r.failAll {
		return nil, errors.New("storage down")
	}
	for _, a := range r.assets {
		if a.Serial == asset.Serial {
			return nil, repository.ErrDuplicateSerial
		}
	}
	r.nextID++
	asset.ID = r.nextID
	prefix := model.PrefixEquipment
	if asset.ParentID != 0 {
		prefix = model.PrefixAccessory
	}
	asset.Identifier = model.FormatIdentifier(prefix, asset.ID)
	r.assets[asset.ID] = asset
	return &asset, nil
}

func (r *fakeAssetRepo) GetAssetByID(_ context.Context, id int64) (*model.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, repository.ErrAssetNotFound
	}
	return &a, nil
}

func (r *fakeAssetRepo) ListPrincipalAssets(context.Context) ([]model.Asset, error) {
	var out []model.Asset
	for _, a := range r.assets {
		if a.ParentID == 0 {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) ListAccessories(_ context.Context, parentID int64) ([]model.Asset, error) {
	var out []model.Asset
	for _, a := range r.assets {
		if a.ParentID == parentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) ListAssetsByCustodian(_ context.Context, code string) ([]model.Asset, error) {
	var out []model.Asset
	for _, a := range r.assets {
		if a.CustodianCode == code && a.State != model.StateRetired {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) UpdateAsset(_ context.Context, id int64, asset model.Asset) error {
	if _, ok := r.assets[id]; !ok {
		return repository.ErrAssetNotFound
	}
	asset.ID = id
	r.assets[id] = asset
	return nil
}

func (r *fakeAssetRepo) UpdateAssetState(_ context.Context, id int64, state string) error {
	a, ok := r.assets[id]
	if !ok {
		return repository.ErrAssetNotFound
	}
	a.State = state
	r.assets[id] = a
	return nil
}

func (r *fakeAssetRepo) DeleteAsset(_ context.Context, id int64) error {
	if _, ok := r.assets[id]; !ok {
		return repository.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

// fakeLookups is an in-memory LookupRepository covering what the services
// exercise.
type fakeLookups struct {
	nextID    int64
	brands    map[string]int64
	types     map[string]int64
	employees map[string]model.Employee
	areas     []model.Area
}

func newFakeLookups() *fakeLookups {
	return &fakeLookups{
		brands:    map[string]int64{},
		types:     map[string]int64{},
		employees: map[string]model.Employee{},
		areas:     []model.Area{{ID: 1, Name: "Sistemas"}},
	}
}

func (l *fakeLookups) ListBrands(context.Context) ([]model.Brand, error) { return nil, nil }
func (l *fakeLookups) CreateBrand(_ context.Context, name string) (*model.Brand, error) {
	return l.FindOrCreateBrand(context.Background(), name)
}
func (l *fakeLookups) UpdateBrand(context.Context, int64, string) error { return nil }
func (l *fakeLookups) DeleteBrand(context.Context, int64) error         { return nil }
func (l *fakeLookups) FindOrCreateBrand(_ context.Context, name string) (*model.Brand, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if id, ok := l.brands[name]; ok {
		return &model.Brand{ID: id, Name: name}, nil
	}
	l.nextID++
	l.brands[name] = l.nextID
	return &model.Brand{ID: l.nextID, Name: name}, nil
}
func (l *fakeLookups) BrandName(_ context.Context, id int64) (string, error) {
	for name, bid := range l.brands {
		if bid == id {
			return name, nil
		}
	}
	return "", repository.ErrLookupNotFound
}

func (l *fakeLookups) ListTypes(context.Context) ([]model.AssetType, error) { return nil, nil }
func (l *fakeLookups) CreateType(_ context.Context, name string) (*model.AssetType, error) {
	return l.FindOrCreateType(context.Background(), name)
}
func (l *fakeLookups) UpdateType(context.Context, int64, string) error { return nil }
func (l *fakeLookups) DeleteType(context.Context, int64) error         { return nil }
func (l *fakeLookups) FindOrCreateType(_ context.Context, name string) (*model.AssetType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if id, ok := l.types[name]; ok {
		return &model.AssetType{ID: id, Name: name}, nil
	}
	l.nextID++
	l.types[name] = l.nextID
	return &model.AssetType{ID: l.nextID, Name: name}, nil
}
func (l *fakeLookups) TypeName(_ context.Context, id int64) (string, error) {
	for name, tid := range l.types {
		if tid == id {
			return name, nil
		}
	}
	return "", repository.ErrLookupNotFound
}

func (l *fakeLookups) ListAreas(context.Context) ([]model.Area, error)            { return l.areas, nil }
func (l *fakeLookups) CreateArea(context.Context, string) (*model.Area, error)    { return nil, nil }
func (l *fakeLookups) UpdateArea(context.Context, int64, string) error            { return nil }
func (l *fakeLookups) DeleteArea(context.Context, int64) error                    { return nil }
func (l *fakeLookups) FirstAreaID(context.Context) (int64, error)                 { return l.areas[0].ID, nil }
func (l *fakeLookups) ListModels(context.Context) ([]model.ModelRef, error)       { return nil, nil }
func (l *fakeLookups) CreateModel(_ context.Context, m model.ModelRef) (*model.ModelRef, error) {
	return &m, nil
}
func (l *fakeLookups) UpdateModel(context.Context, int64, model.ModelRef) error { return nil }
func (l *fakeLookups) DeleteModel(context.Context, int64) error                 { return nil }
func (l *fakeLookups) ModelName(context.Context, int64) (string, error)         { return "", nil }

func (l *fakeLookups) ListEmployees(context.Context) ([]model.Employee, error) { return nil, nil }
func (l *fakeLookups) GetEmployeeByCode(_ context.Context, code string) (*model.Employee, error) {
	e, ok := l.employees[code]
	if !ok {
		return nil, repository.ErrLookupNotFound
	}
	return &e, nil
}
func (l *fakeLookups) CreateEmployee(_ context.Context, e model.Employee) (*model.Employee, error) {
	l.employees[e.Code] = e
	return &e, nil
}
func (l *fakeLookups) UpdateEmployee(context.Context, string, model.Employee) error { return nil }
func (l *fakeLookups) DeleteEmployee(context.Context, string) error                 { return nil }

// fakeAuditRepo records appended entries.
type fakeAuditRepo struct {
	entries []model.AuditEntry
	err     error
}

func (r *fakeAuditRepo) AppendEntry(_ context.Context, entry model.AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListByAsset(_ context.Context, assetID int64) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	for _, e := range r.entries {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestAssetService() (*AssetService, *fakeAssetRepo, *fakeLookups, *fakeAuditRepo) {
	assets := newFakeAssetRepo()
	lookups := newFakeLookups()
	auditRepo := &fakeAuditRepo{}
	recorder := audit.NewRecorder(auditRepo, lookups, nil)
	svc := NewAssetService(assets, lookups, auditRepo, recorder, nil)
	return svc, assets, lookups, auditRepo
}

func validInput() CreateAssetInput {
	return CreateAssetInput{
		Serial:  "ABC123",
		TypeID:  1,
		BrandID: 1,
		State:   model.StateGood,
	}
}

func TestCreateAsset_AssignsFinalIdentifier(t *testing.T) {
	svc, _, _, auditRepo := newTestAssetService()

	created, err := svc.CreateAsset(context.Background(), validInput(), "admin")

	require.NoError(t, err)
	assert.Equal(t, "ACT-0001", created.Identifier)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.EventCreation, auditRepo.entries[0].Kind)
	assert.Equal(t, "Activo creado. Resp: Bodega", auditRepo.entries[0].Description)
	assert.Equal(t, "admin", auditRepo.entries[0].Actor)
}

func TestCreateAsset_RejectsPlaceholderSerial(t *testing.T) {
	svc, _, _, _ := newTestAssetService()

	input := validInput()
	input.Serial = "N.A"

	_, err := svc.CreateAsset(context.Background(), input, "admin")

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeValidation, appErr.Code)
}

func TestCreateAsset_DuplicateSerial(t *testing.T) {
	svc, _, _, _ := newTestAssetService()

	_, err := svc.CreateAsset(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	_, err = svc.CreateAsset(context.Background(), validInput(), "admin")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeAlreadyExists, appErr.Code)
}

func TestCreateAsset_AccessoryBatchAfterPrincipal(t *testing.T) {
	svc, assets, _, auditRepo := newTestAssetService()

	input := validInput()
	input.AccessoriesPayload = `[{"type":"MOUSE","brand":"LOGITECH","serial":"XK-991"}]`

	principal, err := svc.CreateAsset(context.Background(), input, "admin")
	require.NoError(t, err)

	accessories, err := assets.ListAccessories(context.Background(), principal.ID)
	require.NoError(t, err)
	require.Len(t, accessories, 1)
	assert.Equal(t, "ACC-0002", accessories[0].Identifier)
	assert.Equal(t, model.StateGood, accessories[0].State)

	// The accessory's audit entry references the principal's final code.
	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, fmt.Sprintf("Accesorio vinculado a %s", principal.Identifier), auditRepo.entries[1].Description)
}

func TestCreateAsset_MalformedAccessoryPayloadSkipsBatch(t *testing.T) {
	svc, assets, _, _ := newTestAssetService()

	input := validInput()
	input.AccessoriesPayload = `{not json`

	principal, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	accessories, _ := assets.ListAccessories(context.Background(), principal.ID)
	assert.Empty(t, accessories)
}

func TestCreateAsset_AccessoryWithoutSerialSkipped(t *testing.T) {
	svc, assets, _, _ := newTestAssetService()

	input := validInput()
	input.AccessoriesPayload = `[{"type":"MOUSE","serial":"NA"},{"type":"TECLADO","serial":"KB-200"}]`

	principal, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	accessories, _ := assets.ListAccessories(context.Background(), principal.ID)
	require.Len(t, accessories, 1)
	assert.Equal(t, "KB-200", accessories[0].Serial)
}

func TestCreateAsset_AccessoryDefaultsBrandGenerico(t *testing.T) {
	svc, assets, lookups, _ := newTestAssetService()

	input := validInput()
	input.AccessoriesPayload = `[{"type":"MONITOR","serial":"MN-555"}]`

	principal, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	accessories, _ := assets.ListAccessories(context.Background(), principal.ID)
	require.Len(t, accessories, 1)
	name, err := lookups.BrandName(context.Background(), accessories[0].BrandID)
	require.NoError(t, err)
	assert.Equal(t, "GENERICO", name)
}

func TestCreateAsset_RejectsAccessoryAsParent(t *testing.T) {
	svc, assets, _, _ := newTestAssetService()

	// Seed a principal and one accessory.
	principal, err := svc.CreateAsset(context.Background(), validInput(), "admin")
	require.NoError(t, err)
	accessory, err := assets.CreateAsset(context.Background(), model.Asset{
		Serial: "CHILD1", TypeID: 1, BrandID: 1, State: model.StateGood, ParentID: principal.ID,
	})
	require.NoError(t, err)

	input := validInput()
	input.Serial = "NESTED1"
	input.ParentID = accessory.ID

	_, err = svc.CreateAsset(context.Background(), input, "admin")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeValidation, appErr.Code)
}

func TestCreateAsset_RegistersNewCustodian(t *testing.T) {
	svc, _, lookups, _ := newTestAssetService()

	input := validInput()
	input.CustodianCode = "1098"
	input.NewEmployeeName = "maria lopez"

	created, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	require.NotEmpty(t, created.CustodianCode)
	assert.True(t, strings.HasPrefix(created.CustodianCode, "T-"))
	emp, err := lookups.GetEmployeeByCode(context.Background(), created.CustodianCode)
	require.NoError(t, err)
	assert.Equal(t, "MARIA LOPEZ", emp.Name)
	assert.Equal(t, int64(1), emp.AreaID)
}

func TestCreateAsset_UnknownCustodianWithoutNameStaysInWarehouse(t *testing.T) {
	svc, _, _, auditRepo := newTestAssetService()

	input := validInput()
	input.CustodianCode = "9999"

	created, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	assert.Empty(t, created.CustodianCode)
	require.Len(t, auditRepo.entries, 1)
	assert.Contains(t, auditRepo.entries[0].Description, "Bodega")
}

func TestCreateAsset_ExistingCustodianKept(t *testing.T) {
	svc, _, lookups, auditRepo := newTestAssetService()
	lookups.employees["1098"] = model.Employee{Code: "1098", Name: "MARIA LOPEZ", AreaID: 1, Active: true}

	input := validInput()
	input.CustodianCode = "1098"

	created, err := svc.CreateAsset(context.Background(), input, "admin")

	require.NoError(t, err)
	assert.Equal(t, "1098", created.CustodianCode)
	assert.Equal(t, "Activo creado. Resp: 1098", auditRepo.entries[0].Description)
}

func TestUpdateAsset_RecordsDiff(t *testing.T) {
	svc, _, _, auditRepo := newTestAssetService()

	created, err := svc.CreateAsset(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	updated, err := svc.UpdateAsset(context.Background(), created.ID, UpdateAssetInput{
		Serial:  "ABC123",
		IP:      "10.0.0.5",
		TypeID:  created.TypeID,
		BrandID: created.BrandID,
		State:   model.StateGood,
	}, "admin")

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", updated.IP)
	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, model.EventEdit, auditRepo.entries[1].Kind)
	assert.Equal(t, "IP: ->10.0.0.5", auditRepo.entries[1].Description)
}

func TestUpdateAsset_AuditFailureDoesNotBlock(t *testing.T) {
	svc, _, _, auditRepo := newTestAssetService()

	created, err := svc.CreateAsset(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	auditRepo.err = errors.New("audit store down")

	updated, err := svc.UpdateAsset(context.Background(), created.ID, UpdateAssetInput{
		Serial:  "ABC123",
		IP:      "10.0.0.5",
		TypeID:  created.TypeID,
		BrandID: created.BrandID,
		State:   model.StateGood,
	}, "admin")

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", updated.IP)
}

func TestUpdateAsset_RejectsSelfParent(t *testing.T) {
	svc, _, _, _ := newTestAssetService()

	created, err := svc.CreateAsset(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	_, err = svc.UpdateAsset(context.Background(), created.ID, UpdateAssetInput{
		Serial:   "ABC123",
		TypeID:   created.TypeID,
		BrandID:  created.BrandID,
		State:    model.StateGood,
		ParentID: created.ID,
	}, "admin")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeValidation, appErr.Code)
}

func TestGetAsset_ResolvesNamesAndAccessories(t *testing.T) {
	svc, _, lookups, _ := newTestAssetService()

	typ, _ := lookups.FindOrCreateType(context.Background(), "COMPUTADOR")
	brand, _ := lookups.FindOrCreateBrand(context.Background(), "HP")

	input := validInput()
	input.TypeID = typ.ID
	input.BrandID = brand.ID
	input.AccessoriesPayload = `[{"type":"MOUSE","serial":"XK-991"}]`

	created, err := svc.CreateAsset(context.Background(), input, "admin")
	require.NoError(t, err)

	detail, err := svc.GetAsset(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, "COMPUTADOR", detail.TypeName)
	assert.Equal(t, "HP", detail.BrandName)
	require.Len(t, detail.Accessories, 1)
}

func TestGetAssetHistory_NotFound(t *testing.T) {
	svc, _, _, _ := newTestAssetService()

	_, err := svc.GetAssetHistory(context.Background(), 99)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeNotFound, appErr.Code)
}
