// Package redis keeps carts in Redis as JSON documents that expire after a
// period of inactivity.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

type document struct {
	ID         string        `json:"id"`
	SessionKey string        `json:"sessionKey"`
	Lines      []domain.Line `json:"lines"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// CartStore writes two keys per cart: the document under its session key and
// an id index pointing back at the session. Both share the same TTL, which
// every write refreshes.
type CartStore struct {
	rdb *goredis.Client
	ttl time.Duration
	now func() time.Time
}

func NewCartStore(rdb *goredis.Client, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// createScript stores the document only if the session has none, and writes
// the id index in the same step. ARGV[3] is the TTL in milliseconds; 0 keeps
// the keys forever.
var createScript = goredis.NewScript(`
local ttl = tonumber(ARGV[3])
local ok
if ttl > 0 then
  ok = redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ttl)
else
  ok = redis.call('SET', KEYS[1], ARGV[1], 'NX')
end
if not ok then
  return 0
end
if ttl > 0 then
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func sessionKey(key string) string { return keyPrefix + "session:" + key }
func idKey(id string) string       { return keyPrefix + "id:" + id }

func (s *CartStore) FindBySessionKey(ctx context.Context, key string) (*domain.Cart, bool, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get cart: %w", err)
	}

	cart, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

func (s *CartStore) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	now := s.now().UTC()
	doc := toDocument(cart)
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}

	created, err := createScript.Run(ctx, s.rdb,
		[]string{sessionKey(doc.SessionKey), idKey(doc.ID)},
		raw, doc.SessionKey, s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return nil, fmt.Errorf("redis create cart: %w", err)
	}
	if created == 0 {
		return nil, apperr.Conflict(nil, "cart for session already exists")
	}
	return doc.toDomain(), nil
}

func (s *CartStore) Update(ctx context.Context, id string, cart *domain.Cart) (*domain.Cart, error) {
	session, err := s.rdb.Get(ctx, idKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, apperr.NotFound("cart %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis lookup cart: %w", err)
	}

	current, found, err := s.FindBySessionKey(ctx, session)
	if err != nil {
		return nil, err
	}
	if !found || current.ID != id {
		return nil, apperr.NotFound("cart %q not found", id)
	}

	doc := toDocument(cart)
	doc.ID = id
	doc.SessionKey = session
	doc.CreatedAt = current.CreatedAt
	doc.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKey(session), raw, s.ttl)
		p.Set(ctx, idKey(id), session, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis update cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	session, err := s.rdb.Get(ctx, idKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return apperr.NotFound("cart %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("redis lookup cart: %w", err)
	}

	if err := s.rdb.Del(ctx, sessionKey(session), idKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func toDocument(cart *domain.Cart) document {
	lines := append([]domain.Line{}, cart.Lines...)
	return document{
		ID:         cart.ID,
		SessionKey: cart.SessionKey,
		Lines:      lines,
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	}
}

func decode(raw []byte) (*domain.Cart, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if doc.Lines == nil {
		doc.Lines = []domain.Line{}
	}
	return doc.toDomain(), nil
}

func (d document) toDomain() *domain.Cart {
	return &domain.Cart{
		ID:         d.ID,
		SessionKey: d.SessionKey,
		Lines:      d.Lines,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
