package repositories

import (
	"context"
	"testing"
	"time"

	"webstore/internal/common"
	"webstore/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProductRepository
	context context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepo(mock)
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) TestCreate_Success() {
	product := &models.Product{
		OwnerID:      7,
		Name:         "Widget",
		Description:  "A widget",
		SKU:          "WID-001",
		Manufacturer: "Acme",
		Quantity:     5,
	}
	now := time.Now()

	suite.mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(product.OwnerID, product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	err := suite.repo.Create(suite.context, product)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), product.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestCreate_UniqueViolationIsConflict() {
	product := &models.Product{OwnerID: 7, Name: "Widget", SKU: "WID-001", Quantity: 5}

	suite.mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(product.OwnerID, product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	err := suite.repo.Create(suite.context, product)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), common.KindConflict, common.KindOf(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, owner_id, name, description, sku, manufacturer, quantity, created_at, updated_at`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "name", "description", "sku", "manufacturer", "quantity", "created_at", "updated_at"}).
			AddRow(int64(42), int64(7), "Widget", "A widget", "WID-001", "Acme", 5, now, now))

	product, err := suite.repo.GetByID(suite.context, 42)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "WID-001", product.SKU)
	assert.Equal(suite.T(), int64(7), product.OwnerID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestGetByID_NoRowsIsNotFound() {
	suite.mock.ExpectQuery(`SELECT id, owner_id, name, description, sku, manufacturer, quantity, created_at, updated_at`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	product, err := suite.repo.GetByID(suite.context, 99)
	assert.Nil(suite.T(), product)
	assert.Equal(suite.T(), common.KindNotFound, common.KindOf(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestUpdate_Success() {
	product := &models.Product{ID: 42, Name: "Widget v2", Description: "", SKU: "WID-001", Manufacturer: "Acme", Quantity: 9}

	suite.mock.ExpectQuery(`UPDATE products`).
		WithArgs(product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity, product.ID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	err := suite.repo.Update(suite.context, product)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestUpdate_SKUConflict() {
	product := &models.Product{ID: 42, Name: "Widget", SKU: "TAKEN", Quantity: 9}

	suite.mock.ExpectQuery(`UPDATE products`).
		WithArgs(product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity, product.ID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := suite.repo.Update(suite.context, product)
	assert.Equal(suite.T(), common.KindConflict, common.KindOf(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, 42)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestDelete_MissingRowIsNotFound() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, 99)
	assert.Equal(suite.T(), common.KindNotFound, common.KindOf(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestExistsBySKU() {
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("WID-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsBySKU(suite.context, "WID-001")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestList() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, owner_id, name, description, sku, manufacturer, quantity, created_at, updated_at`).
		WithArgs(int64(7), 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "name", "description", "sku", "manufacturer", "quantity", "created_at", "updated_at"}).
			AddRow(int64(1), int64(7), "A", "", "SKU-A", "", 1, now, now).
			AddRow(int64(2), int64(7), "B", "", "SKU-B", "", 2, now, now))

	products, err := suite.repo.List(suite.context, 7, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
