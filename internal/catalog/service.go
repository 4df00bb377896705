package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	LastItemCode(ctx context.Context) (string, error)
	InsertItem(ctx context.Context, item Item) error
	UpdateItem(ctx context.Context, id string, input ItemInput) error
	DeleteItem(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, category Category) error
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
}

const (
	itemCodePrefix  = "BRG"
	defaultUnit     = "Pcs"
	defaultLeadTime = 7
)

// Service coordinates catalog management.
type Service struct {
	repo     RepositoryPort
	collator *collate.Collator
}

// NewService builds Service. Category names are ordered with Indonesian
// collation to match the shop locale.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, collator: collate.New(language.Indonesian)}
}

// ListItems returns the catalog newest first.
func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

// GetItem returns one item.
func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	return s.repo.GetItem(ctx, id)
}

// CreateItem stores a new item with an auto-generated sequential code.
func (s *Service) CreateItem(ctx context.Context, input ItemInput) (Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Item{}, ErrNameRequired
	}

	code, err := s.nextItemCode(ctx)
	if err != nil {
		return Item{}, err
	}

	leadTime := input.LeadTimeDays
	if leadTime == nil {
		v := defaultLeadTime
		leadTime = &v
	}
	unit := input.Unit
	if unit == "" {
		unit = defaultUnit
	}

	item := Item{
		ID:           uuid.NewString(),
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		Unit:         unit,
		Stock:        input.Stock,
		LeadTimeDays: leadTime,
		CategoryID:   input.CategoryID,
	}
	if err := s.repo.InsertItem(ctx, item); err != nil {
		return Item{}, err
	}
	return s.repo.GetItem(ctx, item.ID)
}

// UpdateItem edits the non-stock fields of an item.
func (s *Service) UpdateItem(ctx context.Context, id string, input ItemInput) (Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Item{}, ErrNameRequired
	}
	if input.Unit == "" {
		input.Unit = defaultUnit
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.repo.UpdateItem(ctx, id, input); err != nil {
		return Item{}, err
	}
	return s.repo.GetItem(ctx, id)
}

// DeleteItem removes an item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool {
		return s.collator.CompareString(categories[i].Name, categories[j].Name) < 0
	})
	return categories, nil
}

// CreateCategory stores a new category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrNameRequired
	}
	category := Category{ID: uuid.NewString(), Name: name}
	if err := s.repo.InsertCategory(ctx, category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// RenameCategory changes a category's name.
func (s *Service) RenameCategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	return s.repo.UpdateCategory(ctx, id, name)
}

// DeleteCategory removes a category, detaching its items.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

// nextItemCode continues the BRG001, BRG002, ... sequence.
func (s *Service) nextItemCode(ctx context.Context) (string, error) {
	last, err := s.repo.LastItemCode(ctx)
	if err != nil {
		return "", err
	}
	next := 1
	if strings.HasPrefix(last, itemCodePrefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, itemCodePrefix)); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", itemCodePrefix, next), nil
}
