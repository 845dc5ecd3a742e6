package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sample() Transaction {
	return Transaction{
		ID:       "TRX-1700000000",
		Date:     time.Unix(1700000000, 0),
		Cashier:  "Haris",
		Subtotal: d(30000),
		Discount: d(0),
		Total:    d(30000),
		Payment:  d(50000),
		Change:   d(20000),
		Items: []Item{
			{ProductID: 1, ProductName: "Gacoan Level 1", Price: d(10000), Quantity: 3, Subtotal: d(30000)},
		},
	}
}

func TestCheckValid(t *testing.T) {
	assert.NoError(t, sample().Check())
}

func TestCheckViolations(t *testing.T) {
	cases := map[string]func(*Transaction){
		"zero quantity":     func(tx *Transaction) { tx.Items[0].Quantity = 0 },
		"item subtotal":     func(tx *Transaction) { tx.Items[0].Subtotal = d(1) },
		"subtotal mismatch": func(tx *Transaction) { tx.Subtotal = d(31000) },
		"total mismatch":    func(tx *Transaction) { tx.Total = d(29000) },
		"underpaid":         func(tx *Transaction) { tx.Payment = d(100); tx.Change = d(-29900) },
		"change mismatch":   func(tx *Transaction) { tx.Change = d(1) },
		"negative discount": func(tx *Transaction) { tx.Discount = d(-1); tx.Total = d(30001); tx.Change = d(19999) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tx := sample()
			tx.Items = append([]Item(nil), tx.Items...)
			mutate(&tx)
			assert.Error(t, tx.Check())
		})
	}
}
