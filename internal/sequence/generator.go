package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

// DefaultOrderSequence is the counter backing order numbers.
const DefaultOrderSequence = "orderNumber"

var ErrSequenceUnavailable = errors.New("sequence unavailable")

// Generator issues strictly increasing values from a named counter. The
// counter row is created on first use, starting at 0, and every call is a
// single fetch-and-increment, so no two callers ever observe the same value.
type Generator interface {
	Next(ctx context.Context, name string) (string, error)
}

type generator struct {
	db *sql.DB
}

func NewGenerator(db *sql.DB) Generator {
	return &generator{db: db}
}

func (g *generator) Next(ctx context.Context, name string) (string, error) {
	var value int64
	err := g.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, name).Scan(&value)

	if err != nil {
		logger.FromCtx(ctx).Error("failed to advance counter",
			zap.String("sequence", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %s", ErrSequenceUnavailable, name)
	}

	return Format(value), nil
}

// Format renders a counter value as a human-readable order number,
// e.g. 8 -> "ORD000008".
func Format(value int64) string {
	return fmt.Sprintf("ORD%06d", value)
}
