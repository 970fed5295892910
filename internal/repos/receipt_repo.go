package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sixshop/internal/domain"
)

type ReceiptRepo struct{ db *sqlx.DB }

func NewReceiptRepo(db *sqlx.DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

// ---------- Rows ----------

type ReceiptSummary struct {
	ID          string  `db:"id" json:"id"`
	SessionID   string  `db:"session_id" json:"-"`
	PlacedAt    string  `db:"placed_at" json:"placedAt"`
	TotalItems  int     `db:"total_items" json:"totalItems"`
	TotalPrice  float64 `db:"total_price" json:"totalPrice"`
	TotalPoints int     `db:"total_points" json:"totalPoints"`
}

type receiptItemRow struct {
	ProductID  int     `db:"product_id"`
	Title      string  `db:"title"`
	Category   string  `db:"category"`
	Image      string  `db:"image"`
	Price      float64 `db:"price"`
	Quantity   int     `db:"quantity"`
	TotalPrice float64 `db:"total_price"`
	Point      int     `db:"point"`
}

// Create inserts the receipt header and its line items in one transaction.
func (r *ReceiptRepo) Create(ctx context.Context, sessionID string, rc domain.Receipt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	  INSERT INTO receipts(id, session_id, placed_at, total_items, total_price, total_points)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, rc.ID, sessionID, rc.PlacedAt.UTC().Format(time.RFC3339Nano),
		rc.Totals.Items, rc.Totals.Price, rc.Totals.Points); err != nil {
		return err
	}
	for i, it := range rc.Items {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO receipt_items(receipt_id, position, product_id, title, category, image, price, quantity, total_price, point)
		  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rc.ID, i, it.ID, it.Title, it.Category, it.Image, it.Price, it.Quantity, it.TotalPrice, it.Point); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get loads a receipt with its items. Returns sql.ErrNoRows when absent.
func (r *ReceiptRepo) Get(ctx context.Context, id string) (domain.Receipt, string, error) {
	var head ReceiptSummary
	if err := r.db.GetContext(ctx, &head, `
		SELECT id, COALESCE(session_id,'') AS session_id, placed_at, total_items, total_price, total_points
		FROM receipts WHERE id = ?
	`, id); err != nil {
		return domain.Receipt{}, "", err
	}

	var rows []receiptItemRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT product_id, title, COALESCE(category,'') AS category, COALESCE(image,'') AS image,
		       price, quantity, total_price, point
		FROM receipt_items
		WHERE receipt_id = ?
		ORDER BY position
	`, id); err != nil {
		return domain.Receipt{}, "", err
	}

	placed, _ := time.Parse(time.RFC3339Nano, head.PlacedAt)
	rc := domain.Receipt{
		ID:       head.ID,
		PlacedAt: placed,
		Totals:   domain.Totals{Items: head.TotalItems, Price: head.TotalPrice, Points: head.TotalPoints},
		Items:    make([]domain.CartLineItem, 0, len(rows)),
	}
	for _, it := range rows {
		rc.Items = append(rc.Items, domain.CartLineItem{
			Product:    domain.Product{ID: it.ProductID, Title: it.Title, Category: it.Category, Image: it.Image, Price: it.Price},
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
			Point:      it.Point,
		})
	}
	return rc, head.SessionID, nil
}

// ListBySession returns receipts for a session, newest first.
func (r *ReceiptRepo) ListBySession(ctx context.Context, sessionID string) ([]ReceiptSummary, error) {
	var out []ReceiptSummary
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, session_id, placed_at, total_items, total_price, total_points
		FROM receipts
		WHERE session_id = ?
		ORDER BY placed_at DESC
	`, sessionID)
	return out, err
}
