package repositories

import (
	"context"
	"testing"
	"time"

	"webstore/internal/common"
	"webstore/internal/models"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductImageRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProductImageRepository
	context context.Context
}

func (suite *ProductImageRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductImageRepo(mock)
	suite.context = context.Background()
}

func (suite *ProductImageRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestProductImageRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductImageRepoTestSuite))
}

func (suite *ProductImageRepoTestSuite) TestCreate_ReturnsGeneratedID() {
	image := &models.ProductImage{ProductID: 42, FileName: "photo.jpg"}

	suite.mock.ExpectQuery(`INSERT INTO product_images`).
		WithArgs(image.ProductID, image.FileName).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now()))

	err := suite.repo.Create(suite.context, image)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(9), image.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductImageRepoTestSuite) TestUpdatePath() {
	suite.mock.ExpectExec(`UPDATE product_images SET s3_bucket_path = \$1 WHERE id = \$2`).
		WithArgs("42/9/photo.jpg", int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePath(suite.context, 9, "42/9/photo.jpg")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductImageRepoTestSuite) TestGetByProductAndID_NoRowsIsNotFound() {
	suite.mock.ExpectQuery(`SELECT id, product_id, file_name, s3_bucket_path, created_at`).
		WithArgs(int64(42), int64(99)).
		WillReturnError(pgx.ErrNoRows)

	image, err := suite.repo.GetByProductAndID(suite.context, 42, 99)
	assert.Nil(suite.T(), image)
	assert.Equal(suite.T(), common.KindNotFound, common.KindOf(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductImageRepoTestSuite) TestListByProductID() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, product_id, file_name, s3_bucket_path, created_at`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "file_name", "s3_bucket_path", "created_at"}).
			AddRow(int64(1), int64(42), "a.jpg", "42/1/a.jpg", now).
			AddRow(int64(2), int64(42), "b.jpg", "42/2/b.jpg", now))

	images, err := suite.repo.ListByProductID(suite.context, 42)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), images, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductImageRepoTestSuite) TestListPathsByProductID_SkipsUnpathedRows() {
	suite.mock.ExpectQuery(`SELECT s3_bucket_path`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"s3_bucket_path"}).
			AddRow("42/1/a.jpg").
			AddRow("42/2/b.jpg"))

	paths, err := suite.repo.ListPathsByProductID(suite.context, 42)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"42/1/a.jpg", "42/2/b.jpg"}, paths)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductImageRepoTestSuite) TestDeleteStaleUnpathed() {
	cutoff := time.Now().Add(-30 * time.Minute)
	suite.mock.ExpectExec(`DELETE FROM product_images WHERE s3_bucket_path = '' AND created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := suite.repo.DeleteStaleUnpathed(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), removed)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
