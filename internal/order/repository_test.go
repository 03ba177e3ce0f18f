package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date", "created_at", "updated_at"}).
				AddRow(1, now, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(1), uint(10), 2, 25.0, 50.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_comments`).
			WithArgs(uint(1), "Order is placed", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
		mock.ExpectExec(`INSERT INTO customer_order_history`).
			WithArgs(uint(1), uint(1)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		o := &Order{
			OrderNumber:    "ORD000001",
			CustomerID:     1,
			Items:          []Item{{ProductID: 10, Quantity: 2, Price: 25, LineTotal: 50}},
			TotalAmount:    50,
			Status:         StatusPending,
			PaymentStatus:  PaymentPending,
			ShippingMethod: ShippingStandard,
			ShippingCost:   7.5,
			PaymentMethod:  PaymentCOD,
			Address:        Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "USA"},
			Comments:       []Comment{{Comment: "Order is placed"}},
		}
		require.NoError(t, repo.Create(ctx, o))
		assert.Equal(t, uint(1), o.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateOrderNumber", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err = repo.Create(ctx, &Order{OrderNumber: "ORD000001", CustomerID: 1})
		assert.ErrorIs(t, err, ErrOrderNumberConflict)
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	lockQuery := `SELECT status, payment_status, transaction_id\s+FROM orders WHERE id = \$1 FOR UPDATE`

	t.Run("InvalidStatusTransition", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status", "transaction_id"}).
				AddRow("Pending", "Pending", nil))
		mock.ExpectRollback()

		shipped := StatusShipped
		_, err = repo.Update(ctx, 1, Patch{Status: &shipped})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("PaidWithoutTransactionID", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status", "transaction_id"}).
				AddRow("Pending", "Pending", nil))
		mock.ExpectRollback()

		paid := PaymentPaid
		_, err = repo.Update(ctx, 1, Patch{PaymentStatus: &paid})
		assert.ErrorIs(t, err, ErrMissingTransactionID)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(uint(404)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		confirmed := StatusConfirmed
		_, err = repo.Update(ctx, 404, Patch{Status: &confirmed})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("ConfirmWithComment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status", "transaction_id"}).
				AddRow("Pending", "Pending", nil))
		mock.ExpectExec(`UPDATE orders SET updated_at = NOW\(\), status = \$1 WHERE id = \$2`).
			WithArgs(StatusConfirmed, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_comments`).
			WithArgs(uint(1), "Confirmed by staff", nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_number", "customer_id", "coupon_code", "discount", "total_amount",
				"transaction_id", "note", "status", "payment_status", "shipping_method", "shipping_cost",
				"payment_method", "order_date", "delivery_date",
				"address_street", "address_city", "address_state", "address_postal_code", "address_country",
				"created_at", "updated_at",
			}).AddRow(
				1, "ORD000001", 1, nil, 0.0, 50.0,
				nil, nil, "Confirmed", "Pending", "Standard", 7.5,
				"Cash On Delivery", now, nil,
				"1 Main St", "Springfield", "IL", "62701", "USA",
				now, now,
			))
		mock.ExpectQuery(`FROM order_items WHERE order_id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "price", "line_total"}).
				AddRow(1, 10, 2, 25.0, 50.0))
		mock.ExpectQuery(`FROM order_comments WHERE order_id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "comment", "author_id", "created_at"}).
				AddRow(1, "Order is placed", nil, now).
				AddRow(2, "Confirmed by staff", nil, now))

		confirmed := StatusConfirmed
		comment := "Confirmed by staff"
		o, err := repo.Update(ctx, 1, Patch{Status: &confirmed, Comment: &comment})
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		require.Len(t, o.Comments, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
