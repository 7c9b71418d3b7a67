package app

import (
	"context"
	"strings"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo ItemRepo
	now  func() time.Time
}

func NewService(repo ItemRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(s.now()); err != nil {
		return domain.Item{}, err
	}
	return s.repo.Create(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id string) (domain.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Item{}, apperr.Validation("item id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, filter ListFilter) ([]domain.Item, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

// StockCheck answers whether an item can cover a requested quantity and what
// that quantity would cost at the current price.
type StockCheck struct {
	ItemID    string
	Quantity  int
	Stock     int
	Available bool
	Total     decimal.Decimal
}

// CheckStock reports whether the item can cover quantity units.
func (s *Service) CheckStock(ctx context.Context, id string, quantity int) (StockCheck, error) {
	if quantity < 0 {
		return StockCheck{}, apperr.Validation("quantity cannot be negative")
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return StockCheck{}, err
	}
	return StockCheck{
		ItemID:    item.ID,
		Quantity:  quantity,
		Stock:     item.Stock,
		Available: item.HasStock(quantity),
		Total:     item.Total(quantity),
	}, nil
}

func (s *Service) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
