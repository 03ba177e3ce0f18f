package rating

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM products WHERE id = \$1\)`).
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM customers WHERE id = \$1\)`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`INSERT INTO ratings`).
			WithArgs(uint(1), uint(2), 4.0, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))
		mock.ExpectQuery(`UPDATE products\s+SET avg_rating`).
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{"avg_rating"}).AddRow(4.25))
		mock.ExpectCommit()

		rt := &Rating{CustomerID: 1, ProductID: 2, Value: 4}
		avg, err := repo.Upsert(ctx, rt)
		require.NoError(t, err)
		assert.Equal(t, 4.25, avg)
		assert.Equal(t, uint(9), rt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProductMissing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM products WHERE id = \$1\)`).
			WithArgs(uint(404)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err = repo.Upsert(ctx, &Rating{CustomerID: 1, ProductID: 404, Value: 4})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("CustomerMissing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM products WHERE id = \$1\)`).
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM customers WHERE id = \$1\)`).
			WithArgs(uint(404)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err = repo.Upsert(ctx, &Rating{CustomerID: 404, ProductID: 2, Value: 4})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestRepository_ListByProduct(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Now()
	comment := "solid"
	mock.ExpectQuery(`FROM ratings WHERE product_id = \$1`).
		WithArgs(uint(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "product_id", "value", "comment", "created_at", "updated_at"}).
			AddRow(1, 1, 2, 5.0, comment, now, now).
			AddRow(2, 3, 2, 3.5, nil, now, now))

	ratings, err := repo.ListByProduct(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 5.0, ratings[0].Value)
	assert.Nil(t, ratings[1].Comment)
}
