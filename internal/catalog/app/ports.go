package app

import (
	"context"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
)

type ListFilter struct {
	Kind   domain.Kind
	Search string
}

type ItemRepo interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	// Get returns an apperr not-found error when no item has the id.
	Get(ctx context.Context, id string) (domain.Item, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Item, error)
	Count(ctx context.Context) (int64, error)
}
