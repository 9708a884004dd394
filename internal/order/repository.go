package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-be/internal/logger"
	"catalog-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, id int64) (Record, error)
	Save(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int, error)
}

type ListFilter struct {
	Status   *Status
	Page     int
	PageSize int
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, status, total, created_at, confirmed_at,
	cancelled_at, cancellation_reason, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Record, error) {
	var (
		rec         Record
		confirmedAt sql.NullTime
		cancelledAt sql.NullTime
		reason      sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.Status,
		&rec.Total,
		&rec.CreatedAt,
		&confirmedAt,
		&cancelledAt,
		&reason,
		&rec.Version,
	)
	if err != nil {
		return Record{}, err
	}

	if confirmedAt.Valid {
		rec.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		rec.CancelledAt = &cancelledAt.Time
	}
	rec.CancellationReason = reason.String
	return rec, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Get"),
		zap.Int64("order_id", id),
	)

	rec, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT"+orderColumns+"FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrOrderNotFound
	}
	if err != nil {
		log.Error("get order failed", zap.Error(err))
		return Record{}, fmt.Errorf("get order %d: %w", id, err)
	}

	items, err := r.fetchItems(ctx, []int64{id})
	if err != nil {
		log.Error("get order items failed", zap.Error(err))
		return Record{}, err
	}
	rec.Items = items[id]

	return rec, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	page, pageSize := utils.ClampPage(filter.Page, filter.PageSize)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)

	// ---------- FILTERING ----------
	where := ""
	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		log.Error("count orders failed", zap.Error(err))
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	// ---------- PAGE ----------
	query := "SELECT" + orderColumns + "FROM orders" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, utils.Offset(page, pageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list orders failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, pageSize)
	ids := make([]int64, 0, pageSize)
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		records = append(records, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	if len(ids) == 0 {
		return records, total, nil
	}

	// ---------- ITEMS ----------
	items, err := r.fetchItems(ctx, ids)
	if err != nil {
		log.Error("list order items failed", zap.Error(err))
		return nil, 0, err
	}
	for i := range records {
		records[i].Items = items[records[i].ID]
	}

	return records, total, nil
}

func (r *repository) fetchItems(ctx context.Context, orderIDs []int64) (map[int64][]ItemRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch order items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]ItemRecord, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			it      ItemRecord
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[orderID] = append(out[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return out, nil
}

// Save inserts a new order (ID 0) or updates an existing one guarded by its
// version. Item rows are replaced in the same transaction.
func (r *repository) Save(ctx context.Context, rec Record) (Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Save"),
		zap.Int64("order_id", rec.ID),
		zap.Int("version", rec.Version),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if rec.ID == 0 {
		// 1️⃣ Insert order header
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				status, total, created_at, confirmed_at,
				cancelled_at, cancellation_reason, version, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,1,$7)
			RETURNING id
		`,
			string(rec.Status),
			rec.Total,
			rec.CreatedAt,
			nullTime(rec.ConfirmedAt),
			nullTime(rec.CancelledAt),
			nullString(rec.CancellationReason),
			time.Now().UTC(),
		).Scan(&rec.ID)
		if err != nil {
			log.Error("insert order failed", zap.Error(err))
			return Record{}, fmt.Errorf("insert order: %w", err)
		}
		rec.Version = 1
	} else {
		// 1️⃣ Update header only if nobody else saved in between
		res, err := tx.ExecContext(ctx, `
			UPDATE orders SET
				status = $1,
				total = $2,
				confirmed_at = $3,
				cancelled_at = $4,
				cancellation_reason = $5,
				version = version + 1,
				updated_at = $6
			WHERE id = $7 AND version = $8
		`,
			string(rec.Status),
			rec.Total,
			nullTime(rec.ConfirmedAt),
			nullTime(rec.CancelledAt),
			nullString(rec.CancellationReason),
			time.Now().UTC(),
			rec.ID,
			rec.Version,
		)
		if err != nil {
			log.Error("update order failed", zap.Error(err))
			return Record{}, fmt.Errorf("update order %d: %w", rec.ID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return Record{}, fmt.Errorf("update order %d: %w", rec.ID, err)
		}
		if affected == 0 {
			log.Warn("order version conflict")
			return Record{}, ErrVersionConflict
		}
		rec.Version++

		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, rec.ID); err != nil {
			log.Error("delete order items failed", zap.Error(err))
			return Record{}, fmt.Errorf("delete order items: %w", err)
		}
	}

	// 2️⃣ Insert item rows
	for i, it := range rec.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, product_name, unit_price, quantity
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			rec.ID,
			i,
			it.ProductID,
			it.ProductName,
			it.UnitPrice,
			it.Quantity,
		)
		if err != nil {
			log.Error("insert order item failed", zap.Int64("product_id", it.ProductID), zap.Error(err))
			return Record{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit order: %w", err)
	}

	log.Info("order saved", zap.Int64("saved_id", rec.ID), zap.String("status", string(rec.Status)))
	return rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
