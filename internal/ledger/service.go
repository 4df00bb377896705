package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stokpintar/stokpintar/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListMovements(ctx context.Context) ([]MovementRecord, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service keeps item stock consistent with the movement set. Every mutation
// runs as a single all-or-nothing transaction: the item row is locked, the
// negative-stock guard is checked before any write, and the movement and
// stock writes commit together.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all movements newest first, joined with their item.
func (s *Service) List(ctx context.Context) ([]MovementRecord, error) {
	return s.repo.ListMovements(ctx)
}

// Create records a movement and applies its effect to the item's stock.
func (s *Service) Create(ctx context.Context, input CreateInput) (Entry, error) {
	if input.ItemID == "" {
		return Entry{}, ErrItemNotFound
	}
	if !input.Kind.Valid() {
		return Entry{}, ErrInvalidKind
	}
	if input.Quantity <= 0 {
		return Entry{}, ErrInvalidQuantity
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	var entry Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}

		newStock := item.Stock + input.Kind.Delta(input.Quantity)
		if newStock < 0 {
			return ErrInsufficientStock
		}

		movement := Movement{
			ID:         uuid.NewString(),
			ItemID:     item.ID,
			Kind:       input.Kind,
			Quantity:   input.Quantity,
			OccurredAt: occurredAt,
		}
		if err := tx.InsertMovement(ctx, movement); err != nil {
			return err
		}
		if err := tx.UpdateItemStock(ctx, item.ID, newStock); err != nil {
			return err
		}

		item.Stock = newStock
		entry = Entry{Movement: movement, Item: item}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	s.recordAudit(ctx, input.ActorID, "ledger:create", entry)
	return entry, nil
}

// Update rewrites a movement. The stock is first computed as if the old
// movement were reverted, then the new movement's effect is applied on that
// baseline; the guard checks the final value before anything is written.
func (s *Service) Update(ctx context.Context, movementID string, input UpdateInput) (Entry, error) {
	if !input.Kind.Valid() {
		return Entry{}, ErrInvalidKind
	}
	if input.Quantity <= 0 {
		return Entry{}, ErrInvalidQuantity
	}

	var entry Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		old, err := tx.GetMovementForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		item, err := tx.GetItemForUpdate(ctx, old.ItemID)
		if err != nil {
			return err
		}

		reverted := item.Stock - old.Kind.Delta(old.Quantity)
		finalStock := reverted + input.Kind.Delta(input.Quantity)
		if finalStock < 0 {
			return ErrInsufficientStock
		}

		updated := old
		updated.Kind = input.Kind
		updated.Quantity = input.Quantity
		if !input.OccurredAt.IsZero() {
			updated.OccurredAt = input.OccurredAt
		}
		if err := tx.UpdateMovement(ctx, updated); err != nil {
			return err
		}
		if err := tx.UpdateItemStock(ctx, item.ID, finalStock); err != nil {
			return err
		}

		item.Stock = finalStock
		entry = Entry{Movement: updated, Item: item}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	s.recordAudit(ctx, input.ActorID, "ledger:update", entry)
	return entry, nil
}

// Delete removes a movement and reverses its stock effect. Deleting a
// purchase whose quantity is no longer on hand is refused.
func (s *Service) Delete(ctx context.Context, movementID string, actorID int64) (Entry, error) {
	var entry Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		movement, err := tx.GetMovementForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		item, err := tx.GetItemForUpdate(ctx, movement.ItemID)
		if err != nil {
			return err
		}

		newStock := item.Stock - movement.Kind.Delta(movement.Quantity)
		if newStock < 0 {
			return ErrInsufficientStock
		}

		if err := tx.UpdateItemStock(ctx, item.ID, newStock); err != nil {
			return err
		}
		if err := tx.DeleteMovement(ctx, movement.ID); err != nil {
			return err
		}

		item.Stock = newStock
		entry = Entry{Movement: movement, Item: item}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	s.recordAudit(ctx, actorID, "ledger:delete", entry)
	return entry, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entry Entry) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "movement",
		EntityID: entry.Movement.ID,
		Meta: map[string]any{
			"item_id":  entry.Item.ID,
			"kind":     string(entry.Movement.Kind),
			"qty":      entry.Movement.Quantity,
			"stock":    entry.Item.Stock,
			"happened": entry.Movement.OccurredAt,
		},
	})
}
