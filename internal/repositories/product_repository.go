package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

// ProductRepository is the slice of marketplace persistence the bot sweeps
// need.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
}

// ProductRepo is a sqlx implementation of ProductRepository.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// CreateProduct stores a marketplace listing.
func (r *ProductRepo) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO products (seller_id, name, description, price, stock, condition, category, status)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, seller_id, name, description, price, stock, condition, category, status, created_at`,
		product.SellerID, product.Name, product.Description, product.Price, product.Stock,
		product.Condition, product.Category, product.Status).
		StructScan(&product)
	return product, err
}
