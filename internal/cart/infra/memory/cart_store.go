// Package memory is a process-local cart store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/google/uuid"
)

type CartStore struct {
	mu        sync.RWMutex
	bySession map[string]*domain.Cart
	sessionOf map[string]string
	now       func() time.Time
}

func NewCartStore() *CartStore {
	return &CartStore{
		bySession: map[string]*domain.Cart{},
		sessionOf: map[string]string{},
		now:       time.Now,
	}
}

func (s *CartStore) FindBySessionKey(ctx context.Context, sessionKey string) (*domain.Cart, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.bySession[sessionKey]
	if !ok {
		return nil, false, nil
	}
	return clone(c), true, nil
}

func (s *CartStore) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySession[cart.SessionKey]; exists {
		return nil, apperr.Conflict(nil, "cart for session already exists")
	}

	stored := clone(cart)
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now().UTC()
	stored.UpdatedAt = stored.CreatedAt

	s.bySession[stored.SessionKey] = stored
	s.sessionOf[stored.ID] = stored.SessionKey
	return clone(stored), nil
}

func (s *CartStore) Update(ctx context.Context, id string, cart *domain.Cart) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionKey, ok := s.sessionOf[id]
	if !ok {
		return nil, apperr.NotFound("cart %q not found", id)
	}

	stored := clone(cart)
	stored.ID = id
	stored.SessionKey = sessionKey
	stored.CreatedAt = s.bySession[sessionKey].CreatedAt
	stored.UpdatedAt = s.now().UTC()

	s.bySession[sessionKey] = stored
	return clone(stored), nil
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionKey, ok := s.sessionOf[id]
	if !ok {
		return apperr.NotFound("cart %q not found", id)
	}
	delete(s.sessionOf, id)
	delete(s.bySession, sessionKey)
	return nil
}

// Len reports how many carts are stored.
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySession)
}

func clone(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append(make([]domain.Line, 0, len(c.Lines)), c.Lines...)
	return &out
}
