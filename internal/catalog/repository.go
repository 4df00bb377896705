package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists catalog data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `
	i.id, i.code, i.name, i.unit, i.stock, i.lead_time_days, i.category_id,
	COALESCE(c.name, ''), i.created_at, i.updated_at`

// ListItems returns the catalog newest first.
func (r *Repository) ListItems(ctx context.Context) ([]Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem returns one item by ID.
func (r *Repository) GetItem(ctx context.Context, id string) (Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	return item, nil
}

// LastItemCode returns the highest item code, or "" for an empty catalog.
func (r *Repository) LastItemCode(ctx context.Context) (string, error) {
	var code string
	err := r.pool.QueryRow(ctx, `SELECT code FROM items ORDER BY code DESC LIMIT 1`).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// InsertItem stores a new item.
func (r *Repository) InsertItem(ctx context.Context, item Item) error {
	const query = `
		INSERT INTO items (id, code, name, unit, stock, initial_stock, lead_time_days, category_id)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query, item.ID, item.Code, item.Name, item.Unit, item.Stock, item.LeadTimeDays, item.CategoryID)
	return err
}

// UpdateItem rewrites the editable fields. Stock is owned by the ledger and
// deliberately not touched here.
func (r *Repository) UpdateItem(ctx context.Context, id string, input ItemInput) error {
	const query = `
		UPDATE items
		SET name = $2, unit = $3, lead_time_days = $4, category_id = $5, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, input.Name, input.Unit, input.LeadTimeDays, input.CategoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem removes an item and, via ON DELETE CASCADE, its movements.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListCategories returns all categories with their item counts.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	const query = `
		SELECT c.id, c.name, COUNT(i.id), c.created_at
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id
		GROUP BY c.id, c.name, c.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ItemCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// InsertCategory stores a new category; duplicate names are rejected by the
// unique constraint.
func (r *Repository) InsertCategory(ctx context.Context, category Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, category.ID, category.Name)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	return err
}

// UpdateCategory renames a category.
func (r *Repository) UpdateCategory(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category; item references are nulled by the
// ON DELETE SET NULL constraint.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Unit, &item.Stock,
		&item.LeadTimeDays, &item.CategoryID, &item.CategoryName, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
