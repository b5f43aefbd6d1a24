package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"asset-inventory-api/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAssetTestDB(t testing.TB) (*sql.DB, sqlmock.Sqlmock, AssetRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAssetRepository(db)
	return db, mock, repo
}

func assetRows(assets ...model.Asset) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "identifier", "serial", "hostname", "reference", "mac", "ip",
		"type_id", "brand_id", "model_id", "state", "custodian_code", "parent_id",
		"created_at", "updated_at",
	})
	for _, a := range assets {
		var modelID, parentID interface{}
		if a.ModelID != 0 {
			modelID = a.ModelID
		}
		if a.ParentID != 0 {
			parentID = a.ParentID
		}
		var custodian interface{}
		if a.CustodianCode != "" {
			custodian = a.CustodianCode
		}
		rows.AddRow(a.ID, a.Identifier, a.Serial, a.Hostname, a.Reference, a.MAC, a.IP,
			a.TypeID, a.BrandID, modelID, a.State, custodian, parentID,
			time.Now(), time.Now())
	}
	return rows
}

func TestCreateAsset_TwoPhaseIdentifier(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	asset := model.Asset{
		Identifier: "9f3a7c1e-provisional",
		Serial:     "ABC123",
		TypeID:     1,
		BrandID:    2,
		State:      model.StateGood,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO assets`)).
		WithArgs(asset.Identifier, asset.Serial, "", "", "", "", int64(1), int64(2),
			sql.NullInt64{}, asset.State, sql.NullString{}, sql.NullInt64{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assets SET identifier = $1 WHERE id = $2`)).
		WithArgs("ACT-0042", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateAsset(context.Background(), asset)

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "ACT-0042", created.Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_AccessoryPrefix(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	asset := model.Asset{
		Identifier: "provisional-token",
		Serial:     "XK-991",
		TypeID:     3,
		BrandID:    4,
		State:      model.StateGood,
		ParentID:   42,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO assets`)).
		WithArgs(asset.Identifier, asset.Serial, "", "", "", "", int64(3), int64(4),
			sql.NullInt64{}, asset.State, sql.NullString{}, sql.NullInt64{Int64: 42, Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assets SET identifier = $1 WHERE id = $2`)).
		WithArgs("ACC-0007", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateAsset(context.Background(), asset)

	require.NoError(t, err)
	assert.Equal(t, "ACC-0007", created.Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_DuplicateSerial(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	asset := model.Asset{Identifier: "tok", Serial: "ABC123", TypeID: 1, BrandID: 1, State: model.StateGood}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO assets`)).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "assets_serial_key"`))
	mock.ExpectRollback()

	_, err := repo.CreateAsset(context.Background(), asset)

	assert.True(t, errors.Is(err, ErrDuplicateSerial))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_IdentifierAssignFailureRollsBack(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	asset := model.Asset{Identifier: "tok", Serial: "ABC123", TypeID: 1, BrandID: 1, State: model.StateGood}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO assets`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assets SET identifier = $1 WHERE id = $2`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CreateAsset(context.Background(), asset)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetByID_Success(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, identifier, serial`)).
		WithArgs(int64(42)).
		WillReturnRows(assetRows(model.Asset{
			ID: 42, Identifier: "ACT-0042", Serial: "ABC123",
			TypeID: 1, BrandID: 1, State: model.StateGood,
		}))

	asset, err := repo.GetAssetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "ACT-0042", asset.Identifier)
	assert.Zero(t, asset.ModelID)
	assert.Empty(t, asset.CustodianCode)
}

func TestGetAssetByID_NotFound(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, identifier, serial`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAssetByID(context.Background(), 99)

	assert.Equal(t, ErrAssetNotFound, err)
}

func TestListPrincipalAssets_ExcludesAccessories(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE parent_id IS NULL`)).
		WillReturnRows(assetRows(
			model.Asset{ID: 2, Identifier: "ACT-0002", Serial: "S2", TypeID: 1, BrandID: 1, State: model.StateGood},
			model.Asset{ID: 1, Identifier: "ACT-0001", Serial: "S1", TypeID: 1, BrandID: 1, State: model.StateGood},
		))

	assets, err := repo.ListPrincipalAssets(context.Background())

	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "ACT-0002", assets[0].Identifier)
}

func TestListAssetsByCustodian_ExcludesRetired(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE custodian_code = $1 AND state != $2`)).
		WithArgs("1098", model.StateRetired).
		WillReturnRows(assetRows(model.Asset{
			ID: 5, Identifier: "ACT-0005", Serial: "S5", TypeID: 1, BrandID: 1,
			State: model.StateGood, CustodianCode: "1098",
		}))

	assets, err := repo.ListAssetsByCustodian(context.Background(), "1098")

	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "1098", assets[0].CustodianCode)
}

func TestUpdateAsset_NotFound(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assets`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAsset(context.Background(), 99, model.Asset{Serial: "S", TypeID: 1, BrandID: 1, State: model.StateGood})

	assert.Equal(t, ErrAssetNotFound, err)
}

func TestUpdateAssetState_Success(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assets SET state = $1`)).
		WithArgs(model.StateBad, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateAssetState(context.Background(), 42, model.StateBad)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset_CascadesChildren(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audit_entries WHERE asset_id IN (SELECT id FROM assets WHERE parent_id = $1)`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tickets WHERE asset_id IN (SELECT id FROM assets WHERE parent_id = $1)`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assets WHERE parent_id = $1`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audit_entries WHERE asset_id = $1`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tickets WHERE asset_id = $1`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assets WHERE id = $1`)).
		WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteAsset(context.Background(), 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset_NotFound(t *testing.T) {
	db, mock, repo := setupAssetTestDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audit_entries WHERE asset_id IN`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tickets WHERE asset_id IN`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assets WHERE parent_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audit_entries WHERE asset_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tickets WHERE asset_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assets WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteAsset(context.Background(), 99)

	assert.Equal(t, ErrAssetNotFound, err)
}
