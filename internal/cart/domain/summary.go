package domain

import "github.com/shopspring/decimal"

type SummaryLine struct {
	ItemID    string
	Name      string
	Kind      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Thumbnail string
}

// Summary is the display projection of a cart.
type Summary struct {
	Lines         []SummaryLine
	TotalQuantity int
	TotalPrice    decimal.Decimal
}

func (c *Cart) Summary() Summary {
	lines := make([]SummaryLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, SummaryLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Kind:      l.Kind,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
			Thumbnail: l.Thumbnail,
		})
	}
	return Summary{
		Lines:         lines,
		TotalQuantity: c.TotalQuantity(),
		TotalPrice:    c.TotalPrice(),
	}
}
