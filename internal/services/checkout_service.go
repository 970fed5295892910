package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/metrics"
	"sixshop/internal/repos"
)

// CheckoutService simulates payment: it records a receipt and empties the cart.
type CheckoutService struct {
	Receipts *repos.ReceiptRepo
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewCheckoutService(receipts *repos.ReceiptRepo, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{Receipts: receipts, Metrics: m, Now: time.Now}
}

func (s *CheckoutService) Place(ctx context.Context, sessionID string, cart *CartService) (domain.Receipt, error) {
	items := cart.Items()
	if len(items) == 0 {
		return domain.Receipt{}, domain.ErrEmptyCart
	}

	rc := domain.Receipt{
		ID:       uuid.NewString(),
		PlacedAt: s.Now().UTC(),
		Items:    items,
		Totals:   Summarize(items),
	}
	if s.Receipts != nil {
		if err := s.Receipts.Create(ctx, sessionID, rc); err != nil {
			return domain.Receipt{}, err
		}
	}
	cart.Clear(ctx)
	s.Metrics.Checkout()
	applog.Audit(nil, "checkout.place", map[string]any{
		"receipt_id": rc.ID,
		"items":      rc.Totals.Items,
		"total":      rc.Totals.Price,
		"points":     rc.Totals.Points,
	})
	return rc, nil
}

// Get returns a recorded receipt and the session that placed it.
func (s *CheckoutService) Get(ctx context.Context, id string) (domain.Receipt, string, error) {
	if s.Receipts == nil {
		return domain.Receipt{}, "", domain.ErrNotFound
	}
	return s.Receipts.Get(ctx, id)
}

// History lists the receipts placed by one session, newest first.
func (s *CheckoutService) History(ctx context.Context, sessionID string) ([]repos.ReceiptSummary, error) {
	if s.Receipts == nil {
		return []repos.ReceiptSummary{}, nil
	}
	out, err := s.Receipts.ListBySession(ctx, sessionID)
	if out == nil {
		out = []repos.ReceiptSummary{}
	}
	return out, err
}
