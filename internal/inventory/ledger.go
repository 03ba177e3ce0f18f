package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)

// Ledger is the authority for a product's available-inventory count.
// Both operations mutate stock through a single conditional statement so
// concurrent orders can never oversell.
type Ledger interface {
	// Reserve decrements stock by qty if at least qty units remain and
	// returns the new stock level.
	Reserve(ctx context.Context, productID uint, qty int) (int, error)

	// Release returns qty units to stock and reports the new level. Used
	// as compensation when a later placement step fails.
	Release(ctx context.Context, productID uint, qty int) (int, error)
}

type ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) Ledger {
	return &ledger{db: db}
}

func (l *ledger) Reserve(ctx context.Context, productID uint, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	log := logger.FromCtx(ctx).With(
		zap.Uint("product_id", productID),
		zap.Int("quantity", qty),
	)

	// The availability check lives inside the UPDATE itself; a separate
	// read-then-write pair would race with concurrent reservations.
	var remaining int
	err := l.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, productID, qty).Scan(&remaining)

	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := l.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID,
		).Scan(&exists); checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, ErrProductNotFound
		}
		log.Warn("stock reservation rejected")
		return 0, fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	if err != nil {
		log.Error("failed to reserve stock", zap.Error(err))
		return 0, err
	}

	log.Debug("stock reserved", zap.Int("remaining", remaining))
	return remaining, nil
}

func (l *ledger) Release(ctx context.Context, productID uint, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	log := logger.FromCtx(ctx).With(
		zap.Uint("product_id", productID),
		zap.Int("quantity", qty),
	)

	var remaining int
	err := l.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING stock
	`, productID, qty).Scan(&remaining)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to release stock", zap.Error(err))
		return 0, err
	}

	log.Debug("stock released", zap.Int("remaining", remaining))
	return remaining, nil
}
