package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storemart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type QueryOptions struct {
	CustomerID *uint
	Status     *Status
	Limit      int
	Page       int
}

type Repository interface {
	// Create persists the order, its items, its initial comment and the
	// customer's history entry in one transaction.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, opts QueryOptions) ([]Order, error)
	Update(ctx context.Context, id uint, patch Patch) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, order_number, customer_id, coupon_code, discount, total_amount,
	transaction_id, note, status, payment_status, shipping_method, shipping_cost,
	payment_method, order_date, delivery_date,
	address_street, address_city, address_state, address_postal_code, address_country,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CouponCode, &o.Discount, &o.TotalAmount,
		&o.TransactionID, &o.Note, &o.Status, &o.PaymentStatus, &o.ShippingMethod, &o.ShippingCost,
		&o.PaymentMethod, &o.OrderDate, &o.DeliveryDate,
		&o.Address.Street, &o.Address.City, &o.Address.State, &o.Address.PostalCode, &o.Address.Country,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", o.OrderNumber),
		zap.Uint("customer_id", o.CustomerID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, customer_id, coupon_code, discount, total_amount,
			note, status, payment_status, shipping_method, shipping_cost, payment_method,
			address_street, address_city, address_state, address_postal_code, address_country
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, order_date, created_at, updated_at
	`,
		o.OrderNumber, o.CustomerID, o.CouponCode, o.Discount, o.TotalAmount,
		o.Note, o.Status, o.PaymentStatus, o.ShippingMethod, o.ShippingCost, o.PaymentMethod,
		o.Address.Street, o.Address.City, o.Address.State, o.Address.PostalCode, o.Address.Country,
	).Scan(&o.ID, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrOrderNumberConflict
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price, line_total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, o.ID, item.ProductID, item.Quantity, item.Price, item.LineTotal).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item", zap.Uint("product_id", item.ProductID), zap.Error(err))
			return err
		}
	}

	for i := range o.Comments {
		c := &o.Comments[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_comments (order_id, comment, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, o.ID, c.Comment, c.AuthorID).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			log.Error("failed to insert order comment", zap.Error(err))
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO customer_order_history (customer_id, order_id)
		VALUES ($1, $2)
	`, o.CustomerID, o.ID); err != nil {
		log.Error("failed to append order history", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.Price, &it.LineTotal); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}

	return rows.Err()
}

func (r *repository) loadComments(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, comment, author_id, created_at
		FROM order_comments WHERE order_id = $1 ORDER BY created_at, id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Comment, &c.AuthorID, &c.CreatedAt); err != nil {
			return err
		}
		o.Comments = append(o.Comments, c)
	}

	return rows.Err()
}

func (r *repository) List(ctx context.Context, opts QueryOptions) ([]Order, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)
	where := []string{}
	args := []any{}

	if opts.CustomerID != nil {
		args = append(args, *opts.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY order_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uint, patch Patch) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", id))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the row so the transition check and the write see the same state.
	var current Status
	var currentPayment PaymentStatus
	var currentTxnID *string
	err = tx.QueryRowContext(ctx, `
		SELECT status, payment_status, transaction_id
		FROM orders WHERE id = $1 FOR UPDATE
	`, id).Scan(&current, &currentPayment, &currentTxnID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		if !CanTransition(current, *patch.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, *patch.Status)
		}
		add("status", *patch.Status)
	}
	if patch.PaymentStatus != nil {
		if !CanTransitionPayment(currentPayment, *patch.PaymentStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, currentPayment, *patch.PaymentStatus)
		}
		if *patch.PaymentStatus == PaymentPaid && patch.TransactionID == nil && currentTxnID == nil {
			return nil, ErrMissingTransactionID
		}
		add("payment_status", *patch.PaymentStatus)
	}
	if patch.TransactionID != nil {
		add("transaction_id", *patch.TransactionID)
	}
	if patch.DeliveryDate != nil {
		add("delivery_date", *patch.DeliveryDate)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d`,
		strings.Join(set, ", "), len(args))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update order", zap.Error(err))
		return nil, err
	}

	if patch.Comment != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_comments (order_id, comment, author_id)
			VALUES ($1, $2, $3)
		`, id, *patch.Comment, patch.AuthorID); err != nil {
			log.Error("failed to append order comment", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
