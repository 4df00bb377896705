package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	items     map[string]ItemStock
	movements map[string]Movement
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo(items ...ItemStock) *memoryRepo {
	repo := &memoryRepo{
		items:     make(map[string]ItemStock),
		movements: make(map[string]Movement),
	}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	// Snapshot so a failed callback leaves state untouched, mirroring a
	// rolled-back transaction.
	items := make(map[string]ItemStock, len(r.items))
	for k, v := range r.items {
		items[k] = v
	}
	movements := make(map[string]Movement, len(r.movements))
	for k, v := range r.movements {
		movements[k] = v
	}

	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.items = items
		r.movements = movements
		return err
	}
	return nil
}

func (r *memoryRepo) ListMovements(context.Context) ([]MovementRecord, error) {
	var records []MovementRecord
	for _, m := range r.movements {
		records = append(records, MovementRecord{Movement: m})
	}
	return records, nil
}

func (tx *memoryTx) GetItemForUpdate(_ context.Context, itemID string) (ItemStock, error) {
	item, ok := tx.repo.items[itemID]
	if !ok {
		return ItemStock{}, ErrItemNotFound
	}
	return item, nil
}

func (tx *memoryTx) GetMovementForUpdate(_ context.Context, movementID string) (Movement, error) {
	m, ok := tx.repo.movements[movementID]
	if !ok {
		return Movement{}, ErrMovementNotFound
	}
	return m, nil
}

func (tx *memoryTx) InsertMovement(_ context.Context, movement Movement) error {
	tx.repo.movements[movement.ID] = movement
	return nil
}

func (tx *memoryTx) UpdateMovement(_ context.Context, movement Movement) error {
	if _, ok := tx.repo.movements[movement.ID]; !ok {
		return ErrMovementNotFound
	}
	tx.repo.movements[movement.ID] = movement
	return nil
}

func (tx *memoryTx) DeleteMovement(_ context.Context, movementID string) error {
	if _, ok := tx.repo.movements[movementID]; !ok {
		return ErrMovementNotFound
	}
	delete(tx.repo.movements, movementID)
	return nil
}

func (tx *memoryTx) UpdateItemStock(_ context.Context, itemID string, stock int) error {
	item, ok := tx.repo.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	item.Stock = stock
	tx.repo.items[itemID] = item
	return nil
}

func (r *memoryRepo) signedSum(itemID string) int {
	sum := 0
	for _, m := range r.movements {
		if m.ItemID == itemID {
			sum += m.Kind.Delta(m.Quantity)
		}
	}
	return sum
}

func TestCreatePurchaseAddsStock(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 10})
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementPurchase, Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, entry.Item.Stock)
	require.NotEmpty(t, entry.Movement.ID)
	require.Equal(t, 15, repo.items["a"].Stock)
}

func TestCreateSaleRejectedWhenStockInsufficient(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 5})
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 8})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// No mutation is observable after the rejected call.
	require.Equal(t, 5, repo.items["a"].Stock)
	require.Empty(t, repo.movements)
}

func TestCreateThenDeleteRestoresStock(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 20})
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, entry.Item.Stock)

	deleted, err := svc.Delete(ctx, entry.Movement.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 20, deleted.Item.Stock)
	require.Empty(t, repo.movements)
}

func TestDeletePurchaseRefusedWhenStockAlreadySpent(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 0})
	svc := NewService(repo, nil)
	ctx := context.Background()

	purchase, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementPurchase, Quantity: 10})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 10})
	require.NoError(t, err)

	// Reversing the purchase would drive stock to -10.
	_, err = svc.Delete(ctx, purchase.Movement.ID, 0)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 0, repo.items["a"].Stock)
	require.Len(t, repo.movements, 2)
}

func TestUpdateRevertsThenReapplies(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 20})
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, entry.Item.Stock)

	// SALE 5 -> SALE 8: revert to 20, apply -8.
	updated, err := svc.Update(ctx, entry.Movement.ID, UpdateInput{Kind: MovementSale, Quantity: 8, OccurredAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 12, updated.Item.Stock)

	// SALE 8 -> PURCHASE 3: revert to 20, apply +3.
	updated, err = svc.Update(ctx, entry.Movement.ID, UpdateInput{Kind: MovementPurchase, Quantity: 3, OccurredAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 23, updated.Item.Stock)
}

func TestUpdateRejectedWhenFinalStockNegative(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: 20})
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 5})
	require.NoError(t, err)

	_, err = svc.Update(ctx, entry.Movement.ID, UpdateInput{Kind: MovementSale, Quantity: 25, OccurredAt: time.Now()})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Both the item and the movement are unchanged.
	require.Equal(t, 15, repo.items["a"].Stock)
	require.Equal(t, 5, repo.movements[entry.Movement.ID].Quantity)
	require.Equal(t, MovementSale, repo.movements[entry.Movement.ID].Kind)
}

func TestStockMatchesSignedSumAfterSequence(t *testing.T) {
	const initial = 50
	repo := newMemoryRepo(ItemStock{ID: "a", Code: "BRG001", Name: "Beras", Stock: initial})
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 10})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementPurchase, Quantity: 30})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 25})
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.Movement.ID, UpdateInput{Kind: MovementSale, Quantity: 4, OccurredAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.Delete(ctx, second.Movement.ID, 0)
	require.NoError(t, err)

	require.Equal(t, initial+repo.signedSum("a"), repo.items["a"].Stock)
}

func TestCreateValidation(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Stock: 10})
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ItemID: "a", Kind: "TRANSFER", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidKind)

	_, err = svc.Create(ctx, CreateInput{ItemID: "a", Kind: MovementSale, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(ctx, CreateInput{ItemID: "missing", Kind: MovementSale, Quantity: 1})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteUnknownMovement(t *testing.T) {
	repo := newMemoryRepo(ItemStock{ID: "a", Stock: 10})
	svc := NewService(repo, nil)

	_, err := svc.Delete(context.Background(), "nope", 0)
	require.ErrorIs(t, err, ErrMovementNotFound)
}
