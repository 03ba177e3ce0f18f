package product

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
	List(ctx context.Context, opts QueryOptions) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id uint, upd Update) (*Product, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, tags, specifications, base_price, selling_price, cost_to_company, category_id, stock, active, avg_rating, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		pq.Array(&p.Tags),
		pq.Array(&p.Specifications),
		&p.BasePrice,
		&p.SellingPrice,
		&p.CostToCompany,
		&p.CategoryID,
		&p.Stock,
		&p.Active,
		&p.AvgRating,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, opts QueryOptions) ([]Product, error) {
	finalLimit := int32(20)
	finalPage := int32(1)

	if opts.Limit > 0 {
		finalLimit = opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}
	if opts.Page > 0 {
		finalPage = opts.Page
	}
	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if opts.Search != nil && *opts.Search != "" {
		args = append(args, "%"+*opts.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if opts.CategoryID != nil {
		args = append(args, *opts.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if opts.OnlyActive {
		query += " AND active = TRUE"
	}

	query += " ORDER BY id"
	args = append(args, finalLimit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx).With(zap.String("name", p.Name))

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, tags, specifications, base_price, selling_price, cost_to_company, category_id, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, avg_rating, created_at, updated_at
	`,
		p.Name,
		p.Description,
		pq.Array(p.Tags),
		pq.Array(p.Specifications),
		p.BasePrice,
		p.SellingPrice,
		p.CostToCompany,
		p.CategoryID,
		p.Stock,
		p.Active,
	).Scan(&p.ID, &p.AvgRating, &p.CreatedAt, &p.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrNameExists
	}
	if err != nil {
		log.Error("failed to insert product", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, id uint, upd Update) (*Product, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Tags != nil {
		add("tags", pq.Array(upd.Tags))
	}
	if upd.Specifications != nil {
		add("specifications", pq.Array(upd.Specifications))
	}
	if upd.BasePrice != nil {
		add("base_price", *upd.BasePrice)
	}
	if upd.SellingPrice != nil {
		add("selling_price", *upd.SellingPrice)
	}
	if upd.CostToCompany != nil {
		add("cost_to_company", *upd.CostToCompany)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if upd.Active != nil {
		add("active", *upd.Active)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE products SET %s WHERE id = $%d RETURNING `+productColumns,
		strings.Join(set, ", "), len(args),
	)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrNameExists
	}
	return p, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
