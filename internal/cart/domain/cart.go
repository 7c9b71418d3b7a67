package domain

import (
	"time"

	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

// Cart is the per-session aggregate. Lines keep insertion order and hold at
// most one entry per item id; every stored line has a positive quantity.
type Cart struct {
	ID         string
	SessionKey string
	UserKey    string
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New returns an empty, unpersisted cart for a session.
func New(sessionKey string) *Cart {
	return &Cart{SessionKey: sessionKey, Lines: []Line{}}
}

func (c *Cart) IsPersisted() bool { return c.ID != "" }

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// AddLine appends line, or merges its quantity into the existing line for the
// same item. The existing line's name and price are kept.
func (c *Cart) AddLine(line Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	if i := c.indexOf(line.ItemID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return nil
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetLineQuantity overwrites the quantity of an existing line. Zero removes
// the line.
func (c *Cart) SetLineQuantity(itemID string, quantity int) error {
	if quantity < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	i := c.indexOf(itemID)
	if i < 0 {
		return apperr.NotFound("item %q not found in cart", itemID)
	}
	if quantity == 0 {
		c.deleteAt(i)
		return nil
	}
	c.Lines[i].Quantity = quantity
	return nil
}

func (c *Cart) RemoveLine(itemID string) error {
	i := c.indexOf(itemID)
	if i < 0 {
		return apperr.NotFound("item %q not found in cart", itemID)
	}
	c.deleteAt(i)
	return nil
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) FindLine(itemID string) (Line, bool) {
	if i := c.indexOf(itemID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// QuantityOf returns the quantity already held for itemID, or 0.
func (c *Cart) QuantityOf(itemID string) int {
	if l, ok := c.FindLine(itemID); ok {
		return l.Quantity
	}
	return 0
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Validate requires exactly one owner key and structurally valid lines.
func (c *Cart) Validate() error {
	switch {
	case c.SessionKey == "" && c.UserKey == "":
		return apperr.Validation("cart must have either a session key or a user key")
	case c.SessionKey != "" && c.UserKey != "":
		return apperr.Validation("cart cannot have both a session key and a user key")
	}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, dup := seen[l.ItemID]; dup {
			return apperr.Validation("cart has duplicate lines for item %q", l.ItemID)
		}
		seen[l.ItemID] = struct{}{}
	}
	return nil
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) deleteAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
