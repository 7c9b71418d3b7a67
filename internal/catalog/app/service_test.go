package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	items   map[string]domain.Item
	created []domain.Item
	filter  ListFilter
}

func newFakeRepo(items ...domain.Item) *fakeRepo {
	r := &fakeRepo{items: map[string]domain.Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.ID = "new-id"
	r.created = append(r.created, item)
	return item, nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (domain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return domain.Item{}, apperr.NotFound("item %q not found", id)
	}
	return it, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]domain.Item, error) {
	r.filter = filter
	return nil, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) { return int64(len(r.items)), nil }

func TestCreateItemValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), domain.Item{Name: "   ", Kind: domain.KindProduct})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("past event -> invalid", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), domain.Item{
			Name:  "Old Concert",
			Kind:  domain.KindEvent,
			Price: decimal.NewFromInt(10),
			Event: &domain.EventDetails{Date: time.Date(2025, 7, 15, 20, 0, 0, 0, time.UTC), Location: "Madrid"},
		})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("valid product is stored trimmed", func(t *testing.T) {
		item, err := svc.CreateItem(context.Background(), domain.Item{
			Name:  "  T-Shirt ",
			Kind:  domain.KindProduct,
			Price: decimal.RequireFromString("19.99"),
			Stock: 50,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID == "" || item.Name != "T-Shirt" {
			t.Fatalf("unexpected item %+v", item)
		}
	})

	if len(repo.created) != 1 {
		t.Fatalf("only the valid item should reach the repo, got %d", len(repo.created))
	}
}

func TestCheckStock(t *testing.T) {
	svc := NewService(newFakeRepo(domain.Item{ID: "i1", Name: "Mug", Kind: domain.KindProduct, Price: decimal.RequireFromString("7.50"), Stock: 5}))
	ctx := context.Background()

	got, err := svc.CheckStock(ctx, "i1", 5)
	if err != nil || !got.Available {
		t.Fatalf("expected stock for 5, got (%+v, %v)", got, err)
	}
	if got.Stock != 5 || got.ItemID != "i1" || !got.Total.Equal(decimal.RequireFromString("37.5")) {
		t.Fatalf("unexpected stock check %+v", got)
	}
	got, err = svc.CheckStock(ctx, "i1", 6)
	if err != nil || got.Available {
		t.Fatalf("expected no stock for 6, got (%+v, %v)", got, err)
	}
	if _, err := svc.CheckStock(ctx, "missing", 1); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.CheckStock(ctx, "i1", -1); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetItemRequiresID(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.GetItem(context.Background(), " "); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListItemsTrimsSearch(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	if _, err := svc.ListItems(context.Background(), ListFilter{Kind: domain.KindEvent, Search: "  jazz "}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.filter.Search != "jazz" || repo.filter.Kind != domain.KindEvent {
		t.Fatalf("unexpected filter %+v", repo.filter)
	}
}
