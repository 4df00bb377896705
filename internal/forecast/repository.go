package forecast

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads catalog and movement history from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListItems returns the whole catalog ordered by item code.
func (r *Repository) ListItems(ctx context.Context) ([]CatalogItem, error) {
	const query = `
		SELECT i.id, i.code, i.name, COALESCE(c.name, ''), i.unit, i.stock, i.lead_time_days
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		ORDER BY i.code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CatalogItem
	for rows.Next() {
		var item CatalogItem
		var leadTime *int
		if err := rows.Scan(&item.ID, &item.Code, &item.Name, &item.CategoryName, &item.Unit, &item.Stock, &leadTime); err != nil {
			return nil, err
		}
		item.LeadTimeDays = leadTime
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListSales returns SALE movements for one item inside the inclusive range,
// ordered ascending by timestamp.
func (r *Repository) ListSales(ctx context.Context, itemID string, from, to time.Time) ([]Sale, error) {
	const query = `
		SELECT occurred_at, quantity
		FROM movements
		WHERE item_id = $1 AND kind = 'SALE' AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at ASC`

	rows, err := r.pool.Query(ctx, query, itemID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Sale, error) {
		var s Sale
		err := row.Scan(&s.OccurredAt, &s.Quantity)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}
