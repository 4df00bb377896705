package ledger

import (
	"errors"
	"time"
)

// MovementKind enumerates supported stock movements.
type MovementKind string

const (
	// MovementSale is an outbound movement, subtracting stock.
	MovementSale MovementKind = "SALE"
	// MovementPurchase is an inbound movement, adding stock.
	MovementPurchase MovementKind = "PURCHASE"
)

// Valid reports whether the kind is one of the known values.
func (k MovementKind) Valid() bool {
	return k == MovementSale || k == MovementPurchase
}

// Delta returns the signed stock effect of quantity units of this kind.
func (k MovementKind) Delta(quantity int) int {
	if k == MovementSale {
		return -quantity
	}
	return quantity
}

// Movement is a single recorded stock mutation. The signed sum of all
// movements of an item always equals that item's current stock.
type Movement struct {
	ID         string
	ItemID     string
	Kind       MovementKind
	Quantity   int
	OccurredAt time.Time
	CreatedAt  time.Time
}

// ItemStock is the slice of an item the ledger reads and writes.
type ItemStock struct {
	ID    string
	Code  string
	Name  string
	Stock int
}

// Entry is returned by ledger mutations: the movement together with the
// item's stock after the operation.
type Entry struct {
	Movement Movement
	Item     ItemStock
}

// MovementRecord is a movement joined with its item for listings.
type MovementRecord struct {
	Movement
	ItemCode     string
	ItemName     string
	CategoryName string
	Unit         string
}

// CreateInput describes a new movement.
type CreateInput struct {
	ItemID     string
	Kind       MovementKind
	Quantity   int
	OccurredAt time.Time
	ActorID    int64
}

// UpdateInput rewrites an existing movement. The owning item cannot change.
type UpdateInput struct {
	Kind       MovementKind
	Quantity   int
	OccurredAt time.Time
	ActorID    int64
}

// ErrInsufficientStock triggered when an operation would drive stock negative.
var ErrInsufficientStock = errors.New("ledger: insufficient stock")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("ledger: quantity must be positive")

// ErrInvalidKind indicates an unknown movement kind.
var ErrInvalidKind = errors.New("ledger: unknown movement kind")

// ErrItemNotFound indicates the referenced item does not exist.
var ErrItemNotFound = errors.New("ledger: item not found")

// ErrMovementNotFound indicates the referenced movement does not exist.
var ErrMovementNotFound = errors.New("ledger: movement not found")
