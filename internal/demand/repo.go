package demand

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryLoader reads the raw per-order quantities for one product.
type HistoryLoader interface {
	DailyTotals(ctx context.Context, productID uuid.UUID) ([]DailyTotal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a HistoryLoader over order_items joined with orders.
func NewRepository(db *gorm.DB) HistoryLoader {
	return &repository{db: db}
}

type orderedRow struct {
	CreatedAt time.Time
	Quantity  int64
}

// DailyTotals returns one entry per order line. Bucketing into days happens in
// Go so the query stays portable across Postgres and SQLite.
func (r *repository) DailyTotals(ctx context.Context, productID uuid.UUID) ([]DailyTotal, error) {
	var rows []orderedRow
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("o.created_at AS created_at, oi.quantity AS quantity").
		Joins("JOIN orders AS o ON o.id = oi.order_id").
		Where("oi.product_id = ?", productID).
		Order("o.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]DailyTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, DailyTotal{Day: row.CreatedAt, Quantity: row.Quantity})
	}
	return out, nil
}
