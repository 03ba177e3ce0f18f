package category

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
	List(ctx context.Context, filter *string, limit, page *int32) ([]Category, error)
	GetByID(ctx context.Context, id uint) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, id uint, upd Update) (*Category, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	filter *string,
	limit *int32,
	page *int32,
) ([]Category, error) {

	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}

	finalOffset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
	`

	where := []string{}
	args := []any{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("db query failed listing categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0, finalLimit)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	log := logger.FromCtx(ctx).With(zap.String("name", c.Name))

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrNameExists
	}
	if err != nil {
		log.Error("failed to insert category", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, id uint, upd Update) (*Category, error) {
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

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE categories SET %s WHERE id = $%d
		RETURNING id, name, description, created_at, updated_at
	`, strings.Join(set, ", "), len(args))

	var c Category
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrNameExists
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
