package app

import (
	"context"
	"strings"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"go.uber.org/zap"
)

// Service runs the cart workflows. Each call is one load, check, mutate,
// persist sequence; no state survives between calls.
//
// Two concurrent mutations of the same session's cart are not serialised:
// both may pass their stock check and the later write replaces the earlier
// line set.
type Service struct {
	carts   CartStore
	catalog ItemCatalog
	events  EventPublisher
	log     *zap.Logger
	now     func() time.Time

	maxConcurrent int
}

func NewService(carts CartStore, catalog ItemCatalog, events EventPublisher, log *zap.Logger) *Service {
	if events == nil {
		events = NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		carts:         carts,
		catalog:       catalog,
		events:        events,
		log:           log.With(zap.String("component", "cart")),
		now:           time.Now,
		maxConcurrent: 8,
	}
}

// GetCart returns the session's cart, or an empty unpersisted cart when the
// session has none yet. It never writes.
func (s *Service) GetCart(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	cart, found, err := s.carts.FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.New(sessionKey), nil
	}
	return cart, nil
}

func (s *Service) GetSummary(ctx context.Context, sessionKey string) (domain.Summary, error) {
	cart, err := s.GetCart(ctx, sessionKey)
	if err != nil {
		return domain.Summary{}, err
	}
	return cart.Summary(), nil
}

// AddItem adds quantity units of itemID. Stock must cover what the cart
// already holds for the item plus the new quantity.
func (s *Service) AddItem(ctx context.Context, sessionKey, itemID string, quantity int) (*domain.Cart, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, apperr.Validation("itemId is required")
	}
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	// Lines are keyed by the catalog's id, which may be spelled differently
	// from the caller's.
	existing := cart.QuantityOf(item.ID)
	if !item.HasStock(existing + quantity) {
		return nil, apperr.InsufficientStock(
			"cannot add %d more of %q: cart already has %d, available stock %d",
			quantity, item.Name, existing, item.Stock,
		)
	}

	if err := cart.AddLine(domain.Line{
		ItemID:    item.ID,
		Name:      item.Name,
		Kind:      item.Kind,
		UnitPrice: item.Price,
		Quantity:  quantity,
		Thumbnail: item.Thumbnail,
	}); err != nil {
		return nil, err
	}

	saved, err := s.persist(ctx, cart)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventItemAdded, CartID: saved.ID, SessionKey: sessionKey, ItemID: item.ID, Quantity: quantity})
	return saved, nil
}

// UpdateQuantity sets the absolute quantity of a line. Stock is checked
// against the new quantity alone since it replaces the old one; zero removes
// the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionKey, itemID string, quantity int) (*domain.Cart, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}

	cart, err := s.loadExisting(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if _, ok := cart.FindLine(itemID); !ok {
		return nil, apperr.NotFound("item %q not found in cart", itemID)
	}

	if quantity > 0 {
		item, err := s.findItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if !item.HasStock(quantity) {
			return nil, apperr.InsufficientStock(
				"insufficient stock for %q: available %d, requested %d",
				item.Name, item.Stock, quantity,
			)
		}
	}

	if err := cart.SetLineQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	saved, err := s.persist(ctx, cart)
	if err != nil {
		return nil, err
	}

	evt := Event{Type: EventQuantityUpdated, CartID: saved.ID, SessionKey: sessionKey, ItemID: itemID, Quantity: quantity}
	if quantity == 0 {
		evt.Type = EventItemRemoved
	}
	s.publish(ctx, evt)
	return saved, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionKey, itemID string) (*domain.Cart, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	cart, err := s.loadExisting(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveLine(itemID); err != nil {
		return nil, err
	}

	saved, err := s.persist(ctx, cart)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventItemRemoved, CartID: saved.ID, SessionKey: sessionKey, ItemID: itemID})
	return saved, nil
}

// ClearCart deletes the session's cart entirely.
func (s *Service) ClearCart(ctx context.Context, sessionKey string) error {
	if err := requireSession(sessionKey); err != nil {
		return err
	}
	cart, err := s.loadExisting(ctx, sessionKey)
	if err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventCartCleared, CartID: cart.ID, SessionKey: sessionKey})
	return nil
}

func (s *Service) loadExisting(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	cart, found, err := s.carts.FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("cart not found")
	}
	return cart, nil
}

func (s *Service) findItem(ctx context.Context, itemID string) (Item, error) {
	item, found, err := s.catalog.FindByID(ctx, itemID)
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, apperr.NotFound("item %q not found", itemID)
	}
	return item, nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	if !cart.IsPersisted() {
		return s.carts.Create(ctx, cart)
	}
	return s.carts.Update(ctx, cart.ID, cart)
}

// publish is best effort: the mutation is already committed.
func (s *Service) publish(ctx context.Context, evt Event) {
	evt.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("publish cart event failed",
			zap.String("type", string(evt.Type)),
			zap.String("cart_id", evt.CartID),
			zap.Error(err),
		)
	}
}

func requireSession(sessionKey string) error {
	if strings.TrimSpace(sessionKey) == "" {
		return apperr.Validation("session key is required")
	}
	return nil
}
