package service

import (
	"context"
	"testing"

	"asset-inventory-api/internal/model"
	apperrors "asset-inventory-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLookupService() (*LookupService, *fakeLookups) {
	lookups := newFakeLookups()
	return NewLookupService(lookups, nil), lookups
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCodeValidation, appErr.Code)
}

func TestLookupService_RejectsBlankNames(t *testing.T) {
	svc, lookups := newTestLookupService()
	ctx := context.Background()

	_, err := svc.CreateBrand(ctx, "")
	requireValidation(t, err)
	_, err = svc.CreateBrand(ctx, "   ")
	requireValidation(t, err)
	requireValidation(t, svc.UpdateBrand(ctx, 1, ""))

	_, err = svc.CreateType(ctx, "")
	requireValidation(t, err)
	requireValidation(t, svc.UpdateType(ctx, 1, " "))

	_, err = svc.CreateArea(ctx, "")
	requireValidation(t, err)
	requireValidation(t, svc.UpdateArea(ctx, 1, ""))

	_, err = svc.CreateModel(ctx, model.ModelRef{BrandID: 1})
	requireValidation(t, err)
	requireValidation(t, svc.UpdateModel(ctx, 1, model.ModelRef{}))

	_, err = svc.CreateEmployee(ctx, model.Employee{Code: "1098"})
	requireValidation(t, err)
	requireValidation(t, svc.UpdateEmployee(ctx, "1098", model.Employee{Code: "1098"}))

	assert.Empty(t, lookups.brands)
	assert.Empty(t, lookups.types)
	assert.Empty(t, lookups.employees)
}

func TestLookupService_CreateBrand(t *testing.T) {
	svc, _ := newTestLookupService()

	brand, err := svc.CreateBrand(context.Background(), "Lenovo")
	require.NoError(t, err)
	assert.Equal(t, "LENOVO", brand.Name)
	assert.NotZero(t, brand.ID)
}

func TestLookupService_CreateEmployee(t *testing.T) {
	svc, lookups := newTestLookupService()

	emp, err := svc.CreateEmployee(context.Background(), model.Employee{
		Code:   "1098",
		Name:   "Maria Lopez",
		AreaID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "MARIA LOPEZ", emp.Name)
	assert.Contains(t, lookups.employees, "1098")
}

func TestLookupService_CreateEmployeeRequiresCode(t *testing.T) {
	svc, lookups := newTestLookupService()
	ctx := context.Background()

	// The code is the row's primary key. A blank custodian code is valid on
	// an asset, but not here.
	_, err := svc.CreateEmployee(ctx, model.Employee{Name: "Maria Lopez", AreaID: 1})
	requireValidation(t, err)

	_, err = svc.CreateEmployee(ctx, model.Employee{Code: "  ", Name: "Maria Lopez"})
	requireValidation(t, err)

	assert.Empty(t, lookups.employees)
}

func TestLookupService_CreateEmployeeRejectsMalformedCode(t *testing.T) {
	svc, _ := newTestLookupService()

	_, err := svc.CreateEmployee(context.Background(), model.Employee{
		Code: "10 98",
		Name: "Maria Lopez",
	})
	requireValidation(t, err)
}
