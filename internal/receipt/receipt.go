// Package receipt turns a committed transaction into a printable receipt.
package receipt

import (
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	StoreName = "KASIR GACOAN"
	Tagline   = "Sistem Point of Sale"

	dateLayout = "02/01/2006 15:04:05"
)

var idr = message.NewPrinter(language.Indonesian)

// Rupiah formats an amount as "Rp 1.234.567", rounded to whole rupiah.
func Rupiah(d decimal.Decimal) string {
	return idr.Sprintf("Rp %d", d.Round(0).IntPart())
}

type Line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

// View is a transaction with every amount already formatted for printing.
type View struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Cashier  string `json:"cashier"`
	Lines    []Line `json:"items"`
	Subtotal string `json:"subtotal"`
	// Discount is empty when the transaction has no discount.
	Discount string `json:"discount,omitempty"`
	Total    string `json:"total"`
	Payment  string `json:"payment"`
	Change   string `json:"change"`
}

func Build(t ledger.Transaction, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	v := View{
		ID:       t.ID,
		Date:     t.Date.In(loc).Format(dateLayout),
		Cashier:  t.Cashier,
		Lines:    make([]Line, 0, len(t.Items)),
		Subtotal: Rupiah(t.Subtotal),
		Total:    Rupiah(t.Total),
		Payment:  Rupiah(t.Payment),
		Change:   Rupiah(t.Change),
	}
	if t.Discount.IsPositive() {
		v.Discount = "-" + Rupiah(t.Discount)
	}
	for _, it := range t.Items {
		v.Lines = append(v.Lines, Line{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    Rupiah(it.Price),
			Subtotal: Rupiah(it.Subtotal),
		})
	}
	return v
}

// FileName is the name a rendered receipt is stored under.
func FileName(transactionID string) string { return "receipt_" + transactionID + ".pdf" }
