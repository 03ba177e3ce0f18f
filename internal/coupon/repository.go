package coupon

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
	List(ctx context.Context) ([]Coupon, error)
	GetByID(ctx context.Context, id uint) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, id uint, upd Update) (*Coupon, error)
	Delete(ctx context.Context, id uint) error

	// Redeem consumes one use of the coupon. The usage guard is part of
	// the statement itself so concurrent redemptions can never drive the
	// remaining count negative.
	Redeem(ctx context.Context, code string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `id, code, discount_percent, discount_cap, usage_limit, expiration_date, is_active, created_at, updated_at`

func scanCoupon(row interface{ Scan(...any) error }) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountPercent,
		&c.DiscountCap,
		&c.UsageLimit,
		&c.ExpirationDate,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}

	return coupons, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Coupon, error) {
	c, err := scanCoupon(r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	c, err := scanCoupon(r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	log := logger.FromCtx(ctx).With(zap.String("code", c.Code))

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_percent, discount_cap, usage_limit, expiration_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		c.Code,
		c.DiscountPercent,
		c.DiscountCap,
		c.UsageLimit,
		c.ExpirationDate,
		c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrCodeExists
	}
	if err != nil {
		log.Error("failed to insert coupon", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, id uint, upd Update) (*Coupon, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Code != nil {
		add("code", *upd.Code)
	}
	if upd.DiscountPercent != nil {
		add("discount_percent", *upd.DiscountPercent)
	}
	if upd.DiscountCap != nil {
		add("discount_cap", *upd.DiscountCap)
	}
	if upd.UsageLimit != nil {
		add("usage_limit", *upd.UsageLimit)
	}
	if upd.ExpirationDate != nil {
		add("expiration_date", *upd.ExpirationDate)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE coupons SET %s WHERE id = $%d RETURNING `+couponColumns,
		strings.Join(set, ", "), len(args),
	)

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrCodeExists
	}
	return c, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) Redeem(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET usage_limit = usage_limit - 1, updated_at = NOW()
		WHERE code = $1 AND usage_limit > 0
	`, code)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to redeem coupon",
			zap.String("code", code),
			zap.Error(err),
		)
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM coupons WHERE code = $1)`, code,
		).Scan(&exists); checkErr != nil {
			return checkErr
		}
		if !exists {
			return ErrCouponNotFound
		}
		return ErrCouponExhausted
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
