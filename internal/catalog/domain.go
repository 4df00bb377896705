package catalog

import (
	"errors"
	"time"
)

// Item is a sellable product tracked by the inventory.
type Item struct {
	ID           string
	Code         string
	Name         string
	Unit         string
	Stock        int
	LeadTimeDays *int
	CategoryID   *string
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category groups items.
type Category struct {
	ID        string
	Name      string
	ItemCount int
	CreatedAt time.Time
}

// ItemInput describes item create/update payloads.
type ItemInput struct {
	Name         string
	Unit         string
	Stock        int
	LeadTimeDays *int
	CategoryID   *string
}

// ErrNameRequired indicates a missing display name.
var ErrNameRequired = errors.New("catalog: name required")

// ErrDuplicateCategory indicates the category name already exists.
var ErrDuplicateCategory = errors.New("catalog: category already exists")

// ErrItemNotFound indicates the item does not exist.
var ErrItemNotFound = errors.New("catalog: item not found")

// ErrCategoryNotFound indicates the category does not exist.
var ErrCategoryNotFound = errors.New("catalog: category not found")
