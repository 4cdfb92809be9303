package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

// SaveReceipt records one confirmed order. Replayed references are ignored so
// the receipt worker can process duplicate events safely.
func (s *Store) SaveReceipt(ctx context.Context, r *models.Receipt) error {
	query := `
		INSERT INTO order_receipts (reference, email, customer_name, total, delivery_method, items)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (reference) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		r.Reference, r.Email, r.CustomerName, r.Total, r.DeliveryMethod, r.Items)
	return err
}

// ReceiptsByEmail lists a shopper's order history, newest first.
func (s *Store) ReceiptsByEmail(ctx context.Context, email string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := s.db.SelectContext(ctx, &receipts,
		"SELECT * FROM order_receipts WHERE email = $1 ORDER BY created_at DESC", email)
	return receipts, err
}

// ReceiptByReference fetches one receipt.
func (s *Store) ReceiptByReference(ctx context.Context, reference string) (*models.Receipt, error) {
	var r models.Receipt
	err := s.db.GetContext(ctx, &r,
		"SELECT * FROM order_receipts WHERE reference = $1", reference)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt not found: %s", reference)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
