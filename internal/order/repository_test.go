package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "status", "total", "created_at", "confirmed_at",
	"cancelled_at", "cancellation_reason", "version",
}

var itemRowColumns = []string{"order_id", "product_id", "product_name", "unit_price", "quantity"}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT.*FROM orders WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(5, "Confirmed", "30.00", now, now, nil, nil, 2))

		mock.ExpectQuery(`(?s)SELECT order_id, product_id.*FROM order_items.*ANY\(\$1\)`).
			WithArgs(pq.Array([]int64{5})).
			WillReturnRows(sqlmock.NewRows(itemRowColumns).
				AddRow(5, 1, "Pen", "10.00", 3))

		rec, err := repo.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, rec.Status)
		assert.Equal(t, 2, rec.Version)
		assert.NotNil(t, rec.ConfirmedAt)
		assert.Nil(t, rec.CancelledAt)
		assert.Empty(t, rec.CancellationReason)
		require.Len(t, rec.Items, 1)
		assert.Equal(t, "Pen", rec.Items[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT.*FROM orders`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err = repo.Get(ctx, 5)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("ItemsError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT.*FROM orders`).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(5, "Draft", "0", now, nil, nil, nil, 1))
		mock.ExpectQuery(`(?s)FROM order_items`).WillReturnError(errors.New("db error"))

		_, err = repo.Get(ctx, 5)
		assert.Error(t, err)
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("StatusFilterAndClamp", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		status := StatusCancelled

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE status = $1")).
			WithArgs("Cancelled").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		mock.ExpectQuery(`(?s)SELECT.*FROM orders WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("Cancelled", 100, 0).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(8, "Cancelled", "0", now, nil, now, "dup", 2).
				AddRow(7, "Cancelled", "0", now, nil, now, "dup", 2))

		mock.ExpectQuery(`(?s)FROM order_items`).
			WithArgs(pq.Array([]int64{8, 7})).
			WillReturnRows(sqlmock.NewRows(itemRowColumns))

		records, total, err := repo.List(ctx, ListFilter{Status: &status, Page: 0, PageSize: 1000})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, records, 2)
		assert.Equal(t, int64(8), records[0].ID)
		assert.Equal(t, "dup", records[1].CancellationReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyPageSkipsItems", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`(?s)SELECT.*FROM orders ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 20).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		records, total, err := repo.List(ctx, ListFilter{Page: 2, PageSize: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()

	draft := func() Record {
		return Record{
			Status:    StatusDraft,
			Total:     dec("20.00"),
			CreatedAt: time.Now(),
			Items: []ItemRecord{
				{ProductID: 1, ProductName: "Pen", UnitPrice: dec("10.00"), Quantity: 1},
				{ProductID: 2, ProductName: "Ink", UnitPrice: dec("5.00"), Quantity: 2},
			},
		}
	}

	t.Run("Insert", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)INSERT INTO orders .* RETURNING id`).
			WithArgs("Draft", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
		mock.ExpectExec(`(?s)INSERT INTO order_items`).
			WithArgs(int64(31), 0, int64(1), "Pen", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)INSERT INTO order_items`).
			WithArgs(int64(31), 1, int64(2), "Ink", sqlmock.AnyArg(), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		saved, err := repo.Save(ctx, draft())
		require.NoError(t, err)
		assert.Equal(t, int64(31), saved.ID)
		assert.Equal(t, 1, saved.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateReplacesItems", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rec := draft()
		rec.ID = 31
		rec.Version = 4
		rec.Items = rec.Items[:1]
		rec.Total = dec("10.00")

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE orders SET .* WHERE id = \$7 AND version = \$8`).
			WithArgs("Draft", sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg(), int64(31), 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_items WHERE order_id = $1")).
			WithArgs(int64(31)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`(?s)INSERT INTO order_items`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		saved, err := repo.Save(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, 5, saved.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VersionConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rec := draft()
		rec.ID = 31
		rec.Version = 4

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE orders SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err = repo.Save(ctx, rec)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemInsertFailureRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
		mock.ExpectExec(`(?s)INSERT INTO order_items`).
			WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		_, err = repo.Save(ctx, draft())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
