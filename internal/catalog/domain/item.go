package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

// Kind discriminates the payload an Item carries.
type Kind string

const (
	KindProduct Kind = "PRODUCT"
	KindEvent   Kind = "EVENT"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindProduct:
		return KindProduct, nil
	case KindEvent:
		return KindEvent, nil
	default:
		return "", apperr.Validation("unknown item type %q", s)
	}
}

// Item is a sellable catalog entry. Exactly one of Product or Event is set,
// matching Kind.
type Item struct {
	ID          string
	Name        string
	Kind        Kind
	Price       decimal.Decimal
	Stock       int
	Thumbnail   string
	Description string

	Product *ProductDetails
	Event   *EventDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasStock reports whether the remaining stock covers quantity.
func (i Item) HasStock(quantity int) bool {
	return i.Stock >= quantity
}

func (i Item) Total(quantity int) decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Validate checks the shared fields and then the kind-specific payload.
// now anchors the event-date check.
func (i Item) Validate(now time.Time) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperr.Validation("item name is required")
	}
	if i.Price.IsNegative() {
		return apperr.Validation("item price cannot be negative")
	}
	if i.Stock < 0 {
		return apperr.Validation("item stock cannot be negative")
	}

	switch i.Kind {
	case KindProduct:
		if i.Event != nil {
			return apperr.Validation("product %q cannot carry event details", i.Name)
		}
		if i.Product == nil {
			return nil
		}
		return i.Product.validate()
	case KindEvent:
		if i.Product != nil {
			return apperr.Validation("event %q cannot carry product details", i.Name)
		}
		if i.Event == nil {
			return apperr.Validation("event date is required")
		}
		return i.Event.validate(now)
	default:
		return apperr.Validation("unknown item type %q", i.Kind)
	}
}

func (i Item) DisplayName() string {
	switch i.Kind {
	case KindProduct:
		if i.Product != nil {
			return i.Product.displayName(i.Name)
		}
	case KindEvent:
		if i.Event != nil {
			return i.Event.displayName(i.Name)
		}
	}
	return i.Name
}

type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type ProductDetails struct {
	SKU         string      `json:"sku,omitempty" yaml:"sku"`
	Brand       string      `json:"brand,omitempty" yaml:"brand"`
	Category    string      `json:"category,omitempty" yaml:"category"`
	WeightGrams *int        `json:"weight,omitempty" yaml:"weight"`
	Dimensions  *Dimensions `json:"dimensions,omitempty" yaml:"dimensions"`
	Color       string      `json:"color,omitempty" yaml:"color"`
	Size        string      `json:"size,omitempty" yaml:"size"`
	Material    string      `json:"material,omitempty" yaml:"material"`
}

const packagingGrams = 100

// ShippingWeight is the product weight plus packaging, or 0 when unknown.
func (p ProductDetails) ShippingWeight() int {
	if p.WeightGrams == nil || *p.WeightGrams == 0 {
		return 0
	}
	return *p.WeightGrams + packagingGrams
}

func (p ProductDetails) validate() error {
	if p.WeightGrams != nil && *p.WeightGrams < 0 {
		return apperr.Validation("product weight cannot be negative")
	}
	if d := p.Dimensions; d != nil {
		if d.Length <= 0 || d.Width <= 0 || d.Height <= 0 {
			return apperr.Validation("product dimensions must be positive")
		}
	}
	return nil
}

func (p ProductDetails) displayName(name string) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Brand, name, p.Color, p.Size} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

type EventDetails struct {
	Date            time.Time `json:"eventDate" yaml:"eventDate"`
	Time            string    `json:"eventTime,omitempty" yaml:"eventTime"`
	Location        string    `json:"location" yaml:"location"`
	Venue           string    `json:"venue,omitempty" yaml:"venue"`
	Artist          string    `json:"artist,omitempty" yaml:"artist"`
	Genre           string    `json:"genre,omitempty" yaml:"genre"`
	DurationMinutes *int      `json:"duration,omitempty" yaml:"duration"`
	AgeRestriction  *int      `json:"ageRestriction,omitempty" yaml:"ageRestriction"`
	SeatType        string    `json:"seatType,omitempty" yaml:"seatType"`
	Section         string    `json:"section,omitempty" yaml:"section"`
	Row             string    `json:"row,omitempty" yaml:"row"`
	SeatNumber      string    `json:"seatNumber,omitempty" yaml:"seatNumber"`
}

func (e EventDetails) validate(now time.Time) error {
	if e.Date.IsZero() {
		return apperr.Validation("event date is required")
	}
	if strings.TrimSpace(e.Location) == "" {
		return apperr.Validation("event location is required")
	}
	if e.Date.Before(now) {
		return apperr.Validation("event date cannot be in the past")
	}
	if e.DurationMinutes != nil && *e.DurationMinutes <= 0 {
		return apperr.Validation("event duration must be positive")
	}
	if e.AgeRestriction != nil && *e.AgeRestriction < 0 {
		return apperr.Validation("age restriction cannot be negative")
	}
	return nil
}

func (e EventDetails) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// DaysUntil rounds partial days up, so an event later today is 1 day away.
func (e EventDetails) DaysUntil(now time.Time) int {
	diff := e.Date.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func (e EventDetails) displayName(name string) string {
	parts := make([]string, 0, 3)
	if e.Artist != "" {
		parts = append(parts, e.Artist)
	}
	parts = append(parts, name, fmt.Sprintf("in %s", e.Location))
	return strings.Join(parts, " - ")
}
