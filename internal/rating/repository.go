package rating

import (
	"context"
	"database/sql"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Upsert stores the latest rating for (customer, product) and
	// recomputes the product's average in the same transaction.
	Upsert(ctx context.Context, rt *Rating) (avg float64, err error)
	ListByProduct(ctx context.Context, productID uint) ([]Rating, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, rt *Rating) (float64, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("customer_id", rt.CustomerID),
		zap.Uint("product_id", rt.ProductID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, rt.ProductID,
	).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrProductNotFound
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, rt.CustomerID,
	).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrCustomerNotFound
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO ratings (customer_id, product_id, value, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET value = EXCLUDED.value, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, rt.CustomerID, rt.ProductID, rt.Value, rt.Comment).
		Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert rating", zap.Error(err))
		return 0, err
	}

	// The average is derived from the ratings table inside the same tx, so
	// it always includes the row written above.
	var avg float64
	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET avg_rating = (
			SELECT COALESCE(AVG(value), 0) FROM ratings WHERE product_id = $1
		), updated_at = NOW()
		WHERE id = $1
		RETURNING avg_rating
	`, rt.ProductID).Scan(&avg)
	if err != nil {
		log.Error("failed to recompute product rating", zap.Error(err))
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return avg, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uint) ([]Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, product_id, value, comment, created_at, updated_at
		FROM ratings WHERE product_id = $1 ORDER BY updated_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.ID, &rt.CustomerID, &rt.ProductID, &rt.Value, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}

	return ratings, rows.Err()
}
