package db

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-be/internal/logger"
	"catalog-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var demoProducts = []product.NewProductParams{
	{Name: "Dell XPS 13 Laptop", Description: "Intel Core i7, 16GB RAM and 512GB SSD", Price: decimal.RequireFromString("4500.00"), Category: "Electronics", Stock: 5, ContactEmail: "sales@dell.example.com"},
	{Name: "Logitech MX Master 3S", Description: "Wireless precision mouse with programmable buttons", Price: decimal.RequireFromString("450.00"), Category: "Electronics", Stock: 25, ContactEmail: "support@logitech.example.com"},
	{Name: "Mechanical RGB Keyboard", Description: "Compact keyboard with Cherry MX switches", Price: decimal.RequireFromString("350.00"), Category: "Electronics", Stock: 15, ContactEmail: "contact@keyboards.example.com"},
	{Name: "Clean Code", Description: "A handbook of agile software craftsmanship", Price: decimal.RequireFromString("89.90"), Category: "Books", Stock: 30, ContactEmail: "sales@books.example.com"},
	{Name: "Design Patterns", Description: "Elements of reusable object-oriented software", Price: decimal.RequireFromString("75.00"), Category: "Books", Stock: 20, ContactEmail: "sales@books.example.com"},
	{Name: "Blue Running Shirt", Description: "Breathable polyester shirt in several sizes", Price: decimal.RequireFromString("79.90"), Category: "Clothing", Stock: 50, ContactEmail: "sales@clothing.example.com"},
	{Name: "Gourmet Coffee 500g", Description: "Single-origin beans, medium roast", Price: decimal.RequireFromString("45.00"), Category: "Food", Stock: 100, ContactEmail: "sales@coffee.example.com"},
	{Name: "LG UltraWide 34 Monitor", Description: "Curved 3440x1440 display", Price: decimal.RequireFromString("1899.00"), Category: "Electronics", Stock: 3, ContactEmail: "support@lg.example.com"},
}

// Seed inserts the demo catalog when the products table is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "db"), zap.String("method", "Seed"))

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Debug("catalog already seeded", zap.Int("products", count))
		return nil
	}

	repo := product.NewRepository(db)
	for _, params := range demoProducts {
		res := product.New(params)
		if res.IsFailure() {
			return fmt.Errorf("seed product %q: %s", params.Name, res.Message())
		}
		if _, err := repo.Create(ctx, res.Value()); err != nil {
			return err
		}
	}

	log.Info("catalog seeded", zap.Int("products", len(demoProducts)))
	return nil
}
