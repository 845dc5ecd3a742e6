package checkout

import "github.com/shopspring/decimal"

// Pricing is the flat discount rule: Rate of the subtotal once it reaches Threshold.
type Pricing struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

var DefaultPricing = Pricing{
	Threshold: decimal.NewFromInt(100000),
	Rate:      decimal.NewFromFloat(0.10),
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

func (p Pricing) Totals(subtotal decimal.Decimal) Totals {
	discount := decimal.Zero
	if subtotal.GreaterThanOrEqual(p.Threshold) {
		discount = subtotal.Mul(p.Rate).Round(2)
	}
	return Totals{Subtotal: subtotal, Discount: discount, Total: subtotal.Sub(discount)}
}

// Quote prices a cart with the caller supplied unit prices, without touching stock.
func (p Pricing) Quote(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return p.Totals(subtotal)
}
