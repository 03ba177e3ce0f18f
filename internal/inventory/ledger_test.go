package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products\s+SET stock = stock - \$2.*WHERE id = \$1 AND stock >= \$2`).
			WithArgs(uint(1), 3).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(7))

		remaining, err := ledger.Reserve(ctx, 1, 3)
		assert.NoError(t, err)
		assert.Equal(t, 7, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products`).
			WithArgs(uint(1), 99).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err = ledger.Reserve(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products`).
			WithArgs(uint(404), 1).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint(404)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err = ledger.Reserve(ctx, 404, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		_, err = ledger.Reserve(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products`).
			WillReturnError(errors.New("connection refused"))

		_, err = ledger.Reserve(ctx, 1, 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestLedger_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products\s+SET stock = stock \+ \$2`).
			WithArgs(uint(1), 3).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(10))

		remaining, err := ledger.Release(ctx, 1, 3)
		assert.NoError(t, err)
		assert.Equal(t, 10, remaining)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		mock.ExpectQuery(`UPDATE products`).
			WithArgs(uint(404), 1).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))

		_, err = ledger.Release(ctx, 404, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		ledger := NewLedger(db)

		_, err = ledger.Release(ctx, 1, -1)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}
