package product

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "tags", "specifications",
		"base_price", "selling_price", "cost_to_company", "category_id",
		"stock", "active", "avg_rating", "created_at", "updated_at",
	})
}

func addProductRow(rows *sqlmock.Rows, id uint, name string, price float64, stock int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, name, nil, "{}", "{}",
		price, price, price/2, 1,
		stock, true, 0.0, now, now,
	)
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(addProductRow(productRows(), 1, "Widget", 25.0, 10))

		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, 25.0, p.SellingPrice)
		assert.Equal(t, 10, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(uint(404)).
			WillReturnRows(productRows())

		_, err = repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsAndFilters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		search := "wid"
		mock.ExpectQuery(`SELECT .* FROM products WHERE 1=1 AND name ILIKE \$1 AND active = TRUE ORDER BY id LIMIT \$2 OFFSET \$3`).
			WithArgs("%wid%", int32(20), int32(0)).
			WillReturnRows(addProductRow(productRows(), 1, "Widget", 25.0, 10))

		products, err := repo.List(ctx, QueryOptions{Search: &search, OnlyActive: true})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Widget", products[0].Name)
	})
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateName", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO products`).
			WillReturnError(&pq.Error{Code: "23505"})

		err = repo.Create(ctx, &Product{Name: "Widget"})
		assert.ErrorIs(t, err, ErrNameExists)
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlyListedColumns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		price := 30.0
		mock.ExpectQuery(`UPDATE products SET updated_at = NOW\(\), selling_price = \$1 WHERE id = \$2`).
			WithArgs(30.0, uint(1)).
			WillReturnRows(addProductRow(productRows(), 1, "Widget", 30.0, 10))

		p, err := repo.Update(ctx, 1, Update{SellingPrice: &price})
		require.NoError(t, err)
		assert.Equal(t, 30.0, p.SellingPrice)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		name := "Gadget"
		mock.ExpectQuery(`UPDATE products`).
			WillReturnRows(productRows())

		_, err = repo.Update(ctx, 99, Update{Name: &name})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(nil)

	err := svc.Create(context.Background(), &Product{Name: "X", SellingPrice: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
