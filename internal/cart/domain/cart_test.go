package domain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(id string, p string, qty int) Line {
	return Line{ItemID: id, Name: "item " + id, Kind: "PRODUCT", UnitPrice: price(p), Quantity: qty}
}

func TestAddLineValidation(t *testing.T) {
	tests := []struct {
		name string
		line Line
	}{
		{"empty item id", Line{ItemID: " ", Quantity: 1, UnitPrice: price("1")}},
		{"zero quantity", Line{ItemID: "a", Quantity: 0, UnitPrice: price("1")}},
		{"negative quantity", Line{ItemID: "a", Quantity: -2, UnitPrice: price("1")}},
		{"negative price", Line{ItemID: "a", Quantity: 1, UnitPrice: price("-0.01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("s1")
			if err := c.AddLine(tt.line); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !c.IsEmpty() {
				t.Fatal("invalid line must not be stored")
			}
		})
	}
}

func TestAddLineMergesSameItem(t *testing.T) {
	c := New("s1")
	if err := c.AddLine(line("a", "10.00", 3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.AddLine(line("b", "2.50", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	second := line("a", "99.00", 2)
	second.Name = "renamed"
	if err := c.AddLine(second); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Lines))
	}
	got := c.Lines[0]
	if got.ItemID != "a" || got.Quantity != 5 {
		t.Fatalf("expected merged line a x5, got %+v", got)
	}
	if !got.UnitPrice.Equal(price("10.00")) || got.Name != "item a" {
		t.Fatalf("first-added snapshot must win, got %+v", got)
	}
	if c.Lines[1].ItemID != "b" {
		t.Fatal("insertion order not preserved")
	}
}

func TestSetLineQuantity(t *testing.T) {
	t.Run("absolute set", func(t *testing.T) {
		c := New("s1")
		_ = c.AddLine(line("a", "1", 4))
		if err := c.SetLineQuantity("a", 2); err != nil {
			t.Fatalf("set: %v", err)
		}
		if c.QuantityOf("a") != 2 {
			t.Fatalf("expected 2, got %d", c.QuantityOf("a"))
		}
	})

	t.Run("zero equals remove", func(t *testing.T) {
		viaSet := New("s1")
		viaRemove := New("s1")
		for _, c := range []*Cart{viaSet, viaRemove} {
			_ = c.AddLine(line("a", "1", 4))
			_ = c.AddLine(line("b", "3", 1))
		}
		if err := viaSet.SetLineQuantity("a", 0); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := viaRemove.RemoveLine("a"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, ok := viaSet.FindLine("a"); ok {
			t.Fatal("line should be gone")
		}
		if !reflect.DeepEqual(viaSet.Lines, viaRemove.Lines) {
			t.Fatalf("set 0 %+v differs from remove %+v", viaSet.Lines, viaRemove.Lines)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		c := New("s1")
		if err := c.SetLineQuantity("missing", 2); !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		c := New("s1")
		_ = c.AddLine(line("a", "1", 4))
		if err := c.SetLineQuantity("a", -1); !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if c.QuantityOf("a") != 4 {
			t.Fatal("quantity must be unchanged")
		}
	})
}

func TestRemoveMissingLeavesLinesUnchanged(t *testing.T) {
	c := New("s1")
	_ = c.AddLine(line("a", "1", 1))
	_ = c.AddLine(line("b", "2", 2))
	before := append([]Line(nil), c.Lines...)

	if err := c.RemoveLine("zzz"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !reflect.DeepEqual(before, c.Lines) {
		t.Fatalf("lines changed: %+v", c.Lines)
	}
}

func TestTotals(t *testing.T) {
	lines := []Line{line("a", "0.10", 3), line("b", "19.99", 2), line("c", "0.20", 7)}

	forward := New("s1")
	backward := New("s1")
	for i := range lines {
		_ = forward.AddLine(lines[i])
		_ = backward.AddLine(lines[len(lines)-1-i])
	}

	want := price("41.68")
	if !forward.TotalPrice().Equal(want) {
		t.Fatalf("expected %s, got %s", want, forward.TotalPrice())
	}
	if !forward.TotalPrice().Equal(backward.TotalPrice()) {
		t.Fatal("total price depends on insertion order")
	}
	if forward.TotalQuantity() != 12 {
		t.Fatalf("expected 12, got %d", forward.TotalQuantity())
	}
}

func TestClearAndEmptyTotals(t *testing.T) {
	c := New("s1")
	_ = c.AddLine(line("a", "10", 4))
	c.Clear()
	if !c.IsEmpty() || c.TotalQuantity() != 0 || !c.TotalPrice().IsZero() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestCartValidate(t *testing.T) {
	if err := (&Cart{}).Validate(); !apperr.IsValidation(err) {
		t.Fatalf("expected missing owner error, got %v", err)
	}
	if err := (&Cart{SessionKey: "s", UserKey: "u"}).Validate(); !apperr.IsValidation(err) {
		t.Fatalf("expected both-owners error, got %v", err)
	}
	if err := (&Cart{UserKey: "u"}).Validate(); err != nil {
		t.Fatalf("user cart should be valid: %v", err)
	}

	c := New("s1")
	c.Lines = append(c.Lines, Line{ItemID: "a", Quantity: 0, UnitPrice: price("1")})
	if err := c.Validate(); !apperr.IsValidation(err) {
		t.Fatalf("expected invalid line error, got %v", err)
	}

	c = New("s1")
	c.Lines = []Line{line("a", "1", 1), line("a", "1", 2)}
	if err := c.Validate(); !apperr.IsValidation(err) {
		t.Fatalf("expected duplicate line error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	c := New("s1")
	_ = c.AddLine(Line{ItemID: "a", Name: "Mug", Kind: "PRODUCT", UnitPrice: price("10.00"), Quantity: 3, Thumbnail: "t.png"})

	s := c.Summary()
	if len(s.Lines) != 1 || s.TotalQuantity != 3 || !s.TotalPrice.Equal(price("30")) {
		t.Fatalf("unexpected summary %+v", s)
	}
	if sl := s.Lines[0]; !sl.Subtotal.Equal(price("30")) || sl.Thumbnail != "t.png" || sl.Name != "Mug" {
		t.Fatalf("unexpected summary line %+v", sl)
	}
}
