package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

var now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func validProduct() Item {
	return Item{
		Name:  "Sunglasses Carey",
		Kind:  KindProduct,
		Price: decimal.RequireFromString("39.99"),
		Stock: 20,
		Product: &ProductDetails{
			Brand:       "Carey",
			Color:       "Brown",
			Size:        "One Size",
			WeightGrams: intPtr(150),
		},
	}
}

func validEvent() Item {
	return Item{
		Name:  "Barcelona Jazz Festival",
		Kind:  KindEvent,
		Price: decimal.RequireFromString("45.00"),
		Stock: 200,
		Event: &EventDetails{
			Date:            now.Add(72 * time.Hour),
			Location:        "Barcelona",
			Artist:          "Various Artists",
			DurationMinutes: intPtr(240),
			AgeRestriction:  intPtr(0),
		},
	}
}

func TestHasStock(t *testing.T) {
	const stock = 5
	item := Item{Stock: stock}
	for q := 0; q <= stock+3; q++ {
		if got, want := item.HasStock(q), q <= stock; got != want {
			t.Fatalf("HasStock(%d) = %v with stock %d", q, got, stock)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    func() Item
		wantErr bool
	}{
		{"valid product", validProduct, false},
		{"product without details", func() Item { it := validProduct(); it.Product = nil; return it }, false},
		{"valid event", validEvent, false},
		{"blank name", func() Item { it := validProduct(); it.Name = "  "; return it }, true},
		{"negative price", func() Item { it := validProduct(); it.Price = decimal.NewFromInt(-1); return it }, true},
		{"negative stock", func() Item { it := validProduct(); it.Stock = -1; return it }, true},
		{"negative weight", func() Item { it := validProduct(); it.Product.WeightGrams = intPtr(-5); return it }, true},
		{"zero dimension", func() Item {
			it := validProduct()
			it.Product.Dimensions = &Dimensions{Length: 10, Width: 0, Height: 2}
			return it
		}, true},
		{"positive dimensions", func() Item {
			it := validProduct()
			it.Product.Dimensions = &Dimensions{Length: 10, Width: 1, Height: 2}
			return it
		}, false},
		{"event in the past", func() Item { it := validEvent(); it.Event.Date = now.Add(-time.Hour); return it }, true},
		{"event without location", func() Item { it := validEvent(); it.Event.Location = ""; return it }, true},
		{"event without details", func() Item { it := validEvent(); it.Event = nil; return it }, true},
		{"event zero duration", func() Item { it := validEvent(); it.Event.DurationMinutes = intPtr(0); return it }, true},
		{"event negative age", func() Item { it := validEvent(); it.Event.AgeRestriction = intPtr(-1); return it }, true},
		{"mismatched payload", func() Item { it := validProduct(); it.Event = validEvent().Event; return it }, true},
		{"unknown kind", func() Item { it := validProduct(); it.Kind = "SERVICE"; return it }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item().Validate(now)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" event "); err != nil || k != KindEvent {
		t.Fatalf("got (%v, %v)", k, err)
	}
	if _, err := ParseKind("ticket"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := validProduct().DisplayName(); got != "Carey - Sunglasses Carey - Brown - One Size" {
		t.Fatalf("product display name %q", got)
	}
	if got := validEvent().DisplayName(); got != "Various Artists - Barcelona Jazz Festival - in Barcelona" {
		t.Fatalf("event display name %q", got)
	}
}

func TestProductShippingWeight(t *testing.T) {
	if got := validProduct().Product.ShippingWeight(); got != 250 {
		t.Fatalf("expected 250, got %d", got)
	}
	if got := (ProductDetails{}).ShippingWeight(); got != 0 {
		t.Fatalf("expected 0 for unknown weight, got %d", got)
	}
}

func TestEventSchedule(t *testing.T) {
	ev := validEvent().Event
	if !ev.IsUpcoming(now) {
		t.Fatal("expected event to be upcoming")
	}
	if got := ev.DaysUntil(now); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	ev.Date = now.Add(2 * time.Hour)
	if got := ev.DaysUntil(now); got != 1 {
		t.Fatalf("expected partial day to round up, got %d", got)
	}
}

func TestTotal(t *testing.T) {
	got := validProduct().Total(3)
	if !got.Equal(decimal.RequireFromString("119.97")) {
		t.Fatalf("expected 119.97, got %s", got)
	}
}
