package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sixshop/internal/domain"
)

// ProductRepo caches the last successfully fetched catalog.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          int     `db:"id"`
	Title       string  `db:"title"`
	Price       float64 `db:"price"`
	Description string  `db:"description"`
	Category    string  `db:"category"`
	Image       string  `db:"image"`
	RatingRate  float64 `db:"rating_rate"`
	RatingCount int     `db:"rating_count"`
}

func (r productRow) product() domain.Product {
	return domain.Product{
		ID: r.ID, Title: r.Title, Price: r.Price, Description: r.Description,
		Category: r.Category, Image: r.Image,
		Rating: domain.Rating{Rate: r.RatingRate, Count: r.RatingCount},
	}
}

// ReplaceAll swaps the cached catalog for products, keeping their order.
func (r *ProductRepo) ReplaceAll(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return err
	}
	for i, p := range products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products(id, position, title, price, description, category, image, rating_rate, rating_count)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, p.ID, i, p.Title, p.Price, p.Description, p.Category, p.Image, p.Rating.Rate, p.Rating.Count); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// All returns the cached catalog in catalog order.
func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `
	  SELECT id, title, price, COALESCE(description,'') AS description, category,
	         COALESCE(image,'') AS image, rating_rate, rating_count
	  FROM products
	  ORDER BY position
	`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}
