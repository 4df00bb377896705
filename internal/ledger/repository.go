package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stokpintar/stokpintar/internal/platform/db"
)

// Repository persists movements and item stock in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by service.
type TxRepository interface {
	GetItemForUpdate(ctx context.Context, itemID string) (ItemStock, error)
	GetMovementForUpdate(ctx context.Context, movementID string) (Movement, error)
	InsertMovement(ctx context.Context, movement Movement) error
	UpdateMovement(ctx context.Context, movement Movement) error
	DeleteMovement(ctx context.Context, movementID string) error
	UpdateItemStock(ctx context.Context, itemID string, stock int) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction. The
// item row lock taken by GetItemForUpdate serializes concurrent ledger
// operations against the same item.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// ListMovements returns every movement newest first with its item joined.
func (r *Repository) ListMovements(ctx context.Context) ([]MovementRecord, error) {
	const query = `
		SELECT m.id, m.item_id, m.kind, m.quantity, m.occurred_at, m.created_at,
		       i.code, i.name, COALESCE(c.name, ''), i.unit
		FROM movements m
		JOIN items i ON i.id = m.item_id
		LEFT JOIN categories c ON c.id = i.category_id
		ORDER BY m.occurred_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MovementRecord
	for rows.Next() {
		var rec MovementRecord
		err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Kind, &rec.Quantity, &rec.OccurredAt, &rec.CreatedAt,
			&rec.ItemCode, &rec.ItemName, &rec.CategoryName, &rec.Unit)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *txRepo) GetItemForUpdate(ctx context.Context, itemID string) (ItemStock, error) {
	const query = `SELECT id, code, name, stock FROM items WHERE id = $1 FOR UPDATE`

	var item ItemStock
	err := r.tx.QueryRow(ctx, query, itemID).Scan(&item.ID, &item.Code, &item.Name, &item.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemStock{}, ErrItemNotFound
		}
		return ItemStock{}, err
	}
	return item, nil
}

func (r *txRepo) GetMovementForUpdate(ctx context.Context, movementID string) (Movement, error) {
	const query = `SELECT id, item_id, kind, quantity, occurred_at, created_at FROM movements WHERE id = $1 FOR UPDATE`

	var m Movement
	err := r.tx.QueryRow(ctx, query, movementID).Scan(&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.OccurredAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movement{}, ErrMovementNotFound
		}
		return Movement{}, err
	}
	return m, nil
}

func (r *txRepo) InsertMovement(ctx context.Context, movement Movement) error {
	const query = `INSERT INTO movements (id, item_id, kind, quantity, occurred_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.tx.Exec(ctx, query, movement.ID, movement.ItemID, string(movement.Kind), movement.Quantity, movement.OccurredAt)
	return err
}

func (r *txRepo) UpdateMovement(ctx context.Context, movement Movement) error {
	const query = `UPDATE movements SET kind = $2, quantity = $3, occurred_at = $4 WHERE id = $1`
	tag, err := r.tx.Exec(ctx, query, movement.ID, string(movement.Kind), movement.Quantity, movement.OccurredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMovementNotFound
	}
	return nil
}

func (r *txRepo) DeleteMovement(ctx context.Context, movementID string) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM movements WHERE id = $1`, movementID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMovementNotFound
	}
	return nil
}

func (r *txRepo) UpdateItemStock(ctx context.Context, itemID string, stock int) error {
	tag, err := r.tx.Exec(ctx, `UPDATE items SET stock = $2, updated_at = NOW() WHERE id = $1`, itemID, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
