package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable sale record. It owns its Items.
type Transaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Cashier  string          `json:"cashier"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Payment  decimal.Decimal `json:"payment"`
	Change   decimal.Decimal `json:"change"`
	Items    []Item          `json:"items"`
}

// Item snapshots the product name and unit price at the time of sale.
type Item struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Check verifies the arithmetic invariants of a transaction and its items.
func (t Transaction) Check() error {
	sum := decimal.Zero
	for i, it := range t.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity %d must be positive", i, it.Quantity)
		}
		if !it.Subtotal.Equal(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))) {
			return fmt.Errorf("item %d: subtotal %s != price*quantity", i, it.Subtotal)
		}
		sum = sum.Add(it.Subtotal)
	}
	if !sum.Equal(t.Subtotal) {
		return fmt.Errorf("items sum %s != subtotal %s", sum, t.Subtotal)
	}
	if !t.Total.Equal(t.Subtotal.Sub(t.Discount)) {
		return fmt.Errorf("total %s != subtotal - discount", t.Total)
	}
	if t.Payment.LessThan(t.Total) {
		return fmt.Errorf("payment %s < total %s", t.Payment, t.Total)
	}
	if !t.Change.Equal(t.Payment.Sub(t.Total)) {
		return fmt.Errorf("change %s != payment - total", t.Change)
	}
	for _, v := range []decimal.Decimal{t.Subtotal, t.Discount, t.Total, t.Payment, t.Change} {
		if v.IsNegative() {
			return fmt.Errorf("negative amount %s", v)
		}
	}
	return nil
}
