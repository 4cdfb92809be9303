package cart

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Saver persists the cart after every successful mutation so a reload never
// loses a confirmed cart state.
type Saver interface {
	SaveCart(ctx context.Context, owner string, lines []models.CartLine) error
}

// Ledger is the ordered collection of cart lines and the single source of
// truth for what is purchasable. Line prices and stock ceilings are snapshots
// taken at add-time; later catalog changes never alter them. The ledger has a
// single owner and is never mutated concurrently.
type Ledger struct {
	owner  string
	lines  []models.CartLine
	saver  Saver
	logger *zap.Logger
}

// NewLedger creates a ledger for one session, seeded with any previously
// persisted lines.
func NewLedger(owner string, saver Saver, initial []models.CartLine) *Ledger {
	l := &Ledger{
		owner:  owner,
		lines:  make([]models.CartLine, len(initial)),
		saver:  saver,
		logger: util.GetLogger(),
	}
	copy(l.lines, initial)
	return l
}

// AddOrIncrement adds a new line with qty 1, or bumps an existing line with
// the same SKU by one. Increments past the snapshotted stock ceiling fail
// with a stock failure and leave the line unchanged.
func (l *Ledger) AddOrIncrement(ctx context.Context, line models.CartLine) error {
	for i := range l.lines {
		if l.lines[i].SKU != line.SKU {
			continue
		}
		if l.lines[i].Qty >= l.lines[i].MaxQty {
			util.StockRejectionsTotal.Inc()
			return models.NewStockFailure("Max stock reached.")
		}
		l.lines[i].Qty++
		util.CartAddsTotal.Inc()
		l.persist(ctx)
		return nil
	}

	line.Qty = 1
	l.lines = append(l.lines, line)
	util.CartAddsTotal.Inc()
	l.persist(ctx)
	return nil
}

// Remove deletes the line for a SKU. Removing an absent SKU is a no-op.
func (l *Ledger) Remove(ctx context.Context, sku string) {
	for i := range l.lines {
		if l.lines[i].SKU == sku {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// SetQty sets the quantity of a line. Values below 1 are rejected as
// validation failures; values above the snapshotted ceiling are rejected as
// stock failures. The line is unchanged on rejection.
func (l *Ledger) SetQty(ctx context.Context, sku string, qty int) error {
	if qty < 1 {
		return models.NewValidationFailure("qty", "quantity must be at least 1")
	}
	for i := range l.lines {
		if l.lines[i].SKU != sku {
			continue
		}
		if qty > l.lines[i].MaxQty {
			util.StockRejectionsTotal.Inc()
			return models.NewStockFailure("Max stock reached.")
		}
		l.lines[i].Qty = qty
		l.persist(ctx)
		return nil
	}
	return models.NewValidationFailure("sku", "item not in cart")
}

// Clear empties the ledger. Used after a successful order submission.
func (l *Ledger) Clear(ctx context.Context) {
	l.lines = l.lines[:0]
	l.persist(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (l *Ledger) Lines() []models.CartLine {
	out := make([]models.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// persist writes the cart synchronously after a successful mutation. A failed
// write does not undo the mutation; it is logged and the in-memory state
// stays authoritative for the session.
func (l *Ledger) persist(ctx context.Context) {
	if l.saver == nil {
		return
	}
	if err := l.saver.SaveCart(ctx, l.owner, l.Lines()); err != nil {
		l.logger.Error("Failed to persist cart",
			zap.String("owner", l.owner),
			zap.Error(err))
	}
}
