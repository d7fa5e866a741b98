package repositories

import (
	"context"
	"errors"

	"webstore/internal/common"
	"webstore/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	List(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (owner_id, name, description, sku, manufacturer, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, product.OwnerID, product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		// Unique violation on sku. Two concurrent creates race past the
		// pre-insert check; the constraint decides the loser.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.NewConflict("a product with this sku already exists")
		}
		return err
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, owner_id, name, description, sku, manufacturer, quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).
		Scan(&product.ID, &product.OwnerID, &product.Name, &product.Description, &product.SKU, &product.Manufacturer, &product.Quantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("product not found")
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, sku = $3, manufacturer = $4, quantity = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, product.Name, product.Description, product.SKU, product.Manufacturer, product.Quantity, product.ID).
		Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFound("product not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.NewConflict("a product with this sku already exists")
		}
		return err
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("product not found")
	}
	return nil
}

func (r *productRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`
	if err := r.db.QueryRow(ctx, query, sku).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *productRepo) List(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, owner_id, name, description, sku, manufacturer, quantity, created_at, updated_at
		FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.OwnerID, &product.Name, &product.Description, &product.SKU, &product.Manufacturer, &product.Quantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
