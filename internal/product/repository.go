package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-be/internal/logger"
	"catalog-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, int, error)
	GetByID(ctx context.Context, opts GetOptions) (*Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, description, price, category, stock,
	active, contact_email, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Stock,
		&p.Active,
		&p.ContactEmail,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int("page", opts.Page),
		zap.Int("page_size", opts.PageSize),
	)

	// ---------- FILTERING ----------
	where := " WHERE active = TRUE"
	args := []any{}
	argIndex := 1

	if opts.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, opts.Category)
		argIndex++
	}

	if opts.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+opts.Search+"%")
		argIndex++
	}

	// ---------- COUNT ----------
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		log.Error("count products failed", zap.Error(err))
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	// ---------- PAGE ----------
	query := "SELECT" + productColumns + "FROM products" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.PageSize, utils.Offset(opts.Page, opts.PageSize))

	log.Debug("executing list products query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list products failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0, opts.PageSize)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("scan product failed", zap.Error(err))
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, opts GetOptions) (*Product, error) {
	query := "SELECT" + productColumns + "FROM products WHERE id = $1"
	if opts.OnlyActive {
		query += " AND active = TRUE"
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, opts.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get product failed",
			zap.String("layer", "repository"),
			zap.Int64("product_id", opts.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get product %d: %w", opts.ID, err)
	}

	return p, nil
}

// FindByID returns the product regardless of its active flag.
func (r *repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.GetByID(ctx, GetOptions{ID: id})
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (
			name, description, price, category, stock,
			active, contact_email, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Stock,
		p.Active,
		p.ContactEmail,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		logger.FromCtx(ctx).Error("insert product failed",
			zap.String("layer", "repository"),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return p, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products SET
			name = $1,
			description = $2,
			price = $3,
			category = $4,
			stock = $5,
			active = $6,
			contact_email = $7,
			updated_at = $8
		WHERE id = $9
	`

	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Stock,
		p.Active,
		p.ContactEmail,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("update product failed",
			zap.String("layer", "repository"),
			zap.Int64("product_id", p.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
