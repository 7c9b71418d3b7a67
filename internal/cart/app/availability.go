package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// LineAvailability compares one cart line with the live catalog.
type LineAvailability struct {
	ItemID        string
	Name          string
	Quantity      int
	Exists        bool
	InStock       bool
	Stock         int
	SnapshotPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	PriceChanged  bool
}

type Availability struct {
	Lines        []LineAvailability
	AllAvailable bool
}

// CheckAvailability re-reads every line's item and reports whether the cart
// could still be bought as is. It never writes.
func (s *Service) CheckAvailability(ctx context.Context, sessionKey string) (Availability, error) {
	cart, err := s.GetCart(ctx, sessionKey)
	if err != nil {
		return Availability{}, err
	}

	lines := make([]LineAvailability, len(cart.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range cart.Lines {
		g.Go(func() error {
			ln := cart.Lines[idx]
			item, found, err := s.catalog.FindByID(gctx, ln.ItemID)
			if err != nil {
				return fmt.Errorf("check item %s: %w", ln.ItemID, err)
			}

			la := LineAvailability{
				ItemID:        ln.ItemID,
				Name:          ln.Name,
				Quantity:      ln.Quantity,
				Exists:        found,
				SnapshotPrice: ln.UnitPrice,
			}
			if found {
				la.Stock = item.Stock
				la.InStock = item.HasStock(ln.Quantity)
				la.CurrentPrice = item.Price
				la.PriceChanged = !item.Price.Equal(ln.UnitPrice)
			}
			lines[idx] = la
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Availability{}, err
	}

	all := true
	for _, la := range lines {
		if !la.Exists || !la.InStock {
			all = false
			break
		}
	}
	return Availability{Lines: lines, AllAvailable: all}, nil
}
