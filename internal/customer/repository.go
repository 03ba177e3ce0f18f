package customer

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

type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id uint) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, string, error)
	Create(ctx context.Context, c *Customer, passwordHash string) error
	Update(ctx context.Context, id uint, upd Update) (*Customer, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadAddresses(ctx, &c); err != nil {
		return nil, err
	}
	if err := r.loadOrderHistory(ctx, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) loadAddresses(ctx context.Context, c *Customer) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, street, city, state, postal_code, country, is_default
		FROM customer_addresses WHERE customer_id = $1 ORDER BY id
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.Label, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault); err != nil {
			return err
		}
		c.Addresses = append(c.Addresses, a)
	}

	return rows.Err()
}

func (r *repository) loadOrderHistory(ctx context.Context, c *Customer) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id FROM customer_order_history
		WHERE customer_id = $1 ORDER BY created_at
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uint
		if err := rows.Scan(&orderID); err != nil {
			return err
		}
		c.OrderHistory = append(c.OrderHistory, orderID)
	}

	return rows.Err()
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, string, error) {
	var c Customer
	var hash string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password, created_at, updated_at
		FROM customers WHERE email = $1
	`, email).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &hash, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrCustomerNotFound
	}
	if err != nil {
		return nil, "", err
	}

	return &c, hash, nil
}

func (r *repository) Create(ctx context.Context, c *Customer, passwordHash string) error {
	log := logger.FromCtx(ctx).With(zap.String("email", c.Email))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, passwordHash).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	if err != nil {
		log.Error("failed to insert customer", zap.Error(err))
		return err
	}

	for _, a := range c.Addresses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customer_addresses (customer_id, label, street, city, state, postal_code, country, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, a.Label, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault); err != nil {
			log.Error("failed to insert customer address", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) Update(ctx context.Context, id uint, upd Update) (*Customer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE customers SET %s WHERE id = $%d
		RETURNING id, name, email, phone, created_at, updated_at
	`, strings.Join(set, ", "), len(args))

	var c Customer
	err = tx.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}

	if upd.Addresses != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM customer_addresses WHERE customer_id = $1`, id); err != nil {
			return nil, err
		}
		for _, a := range upd.Addresses {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO customer_addresses (customer_id, label, street, city, state, postal_code, country, is_default)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, id, a.Label, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault); err != nil {
				return nil, err
			}
		}
		c.Addresses = upd.Addresses
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
