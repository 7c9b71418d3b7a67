package app

import (
	"context"

	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// CartStore persists carts keyed by session. Implementations must hand out
// carts that share no memory with what they hold, so an unpersisted mutation
// never leaks into the store.
type CartStore interface {
	FindBySessionKey(ctx context.Context, sessionKey string) (*domain.Cart, bool, error)
	Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	Update(ctx context.Context, id string, cart *domain.Cart) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

// Item is the catalog view the cart needs: identity, snapshot fields and stock.
type Item struct {
	ID        string
	Name      string
	Kind      string
	Price     decimal.Decimal
	Stock     int
	Thumbnail string
}

func (i Item) HasStock(quantity int) bool {
	return i.Stock >= quantity
}

type ItemCatalog interface {
	FindByID(ctx context.Context, id string) (Item, bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
