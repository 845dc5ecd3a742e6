package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/config"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/shopspring/decimal"
)

// Line is one cart entry as submitted by the cashier screen.
type Line struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Publisher is told about every committed transaction.
type Publisher interface {
	TransactionCommitted(ctx context.Context, t ledger.Transaction)
}

const defaultMaxAttempts = 5

type Engine struct {
	Store   Store
	Pricing Pricing
	// PriceSource is config.PriceSourceCatalog (authoritative row price) or
	// config.PriceSourceCart (trust the submitted unit price).
	PriceSource string
	Publisher   Publisher
	Now         func() time.Time
	MaxAttempts int
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// TransactionID derives the ledger id from the commit time. attempt > 0 adds a
// disambiguator after an id collision.
func TransactionID(at time.Time, attempt int) string {
	if attempt == 0 {
		return fmt.Sprintf("TRX-%d", at.Unix())
	}
	return fmt.Sprintf("TRX-%d-%d", at.Unix(), attempt+1)
}

// Checkout prices the cart, verifies payment and stock, then decrements stock and
// appends the transaction as a single atomic unit.
func (e *Engine) Checkout(ctx context.Context, cart []Line, payment decimal.Decimal, cashier auth.Identity) (ledger.Transaction, error) {
	if len(cart) == 0 {
		return ledger.Transaction{}, apperr.New(apperr.ErrEmptyCart, "Keranjang kosong")
	}
	if cashier.IsZero() {
		return ledger.Transaction{}, apperr.New(apperr.ErrUnauthenticated, "silakan login terlebih dahulu")
	}
	if payment.IsNegative() {
		return ledger.Transaction{}, apperr.Validation("Jumlah pembayaran tidak valid")
	}
	for _, l := range cart {
		if l.ProductID <= 0 {
			return ledger.Transaction{}, apperr.Validation("Produk tidak valid")
		}
		if l.Quantity <= 0 {
			return ledger.Transaction{}, apperr.Validation("Jumlah %s harus lebih dari 0", l.Name)
		}
	}

	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var committed ledger.Transaction
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		committed, err = e.commit(ctx, cart, payment, cashier, attempt)
		if !errors.Is(err, ErrDuplicateID) {
			break
		}
		log.Printf("checkout: id collision on attempt %d, retrying", attempt+1)
	}
	if err != nil {
		return ledger.Transaction{}, classify(err)
	}

	log.Printf("checkout: %s committed %s total=%s items=%d", cashier.Username, committed.ID, committed.Total, len(committed.Items))
	if e.Publisher != nil {
		e.Publisher.TransactionCommitted(ctx, committed)
	}
	return committed, nil
}

func (e *Engine) commit(ctx context.Context, cart []Line, payment decimal.Decimal, cashier auth.Identity, attempt int) (ledger.Transaction, error) {
	var out ledger.Transaction
	err := e.Store.Atomically(ctx, func(ctx context.Context, tx Tx) error {
		// kunci baris produk berurutan by id supaya dua checkout tidak saling deadlock
		products, err := lockAll(ctx, tx, cart)
		if err != nil {
			return err
		}

		items, subtotal, err := e.price(cart, products)
		if err != nil {
			return err
		}
		totals := e.Pricing.Totals(subtotal)
		if payment.LessThan(totals.Total) {
			return apperr.New(apperr.ErrInsufficientPayment, "Pembayaran kurang")
		}

		remaining := make(map[int64]int, len(products))
		for id, p := range products {
			remaining[id] = p.Stock
		}
		for _, l := range cart {
			if remaining[l.ProductID] < l.Quantity {
				p := products[l.ProductID]
				return &apperr.StockError{ProductID: p.ID, Name: p.Name, Required: l.Quantity, Available: remaining[l.ProductID]}
			}
			remaining[l.ProductID] -= l.Quantity
		}
		for _, l := range cart {
			if err := tx.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		now := e.now()
		out = ledger.Transaction{
			ID:       TransactionID(now, attempt),
			Date:     now,
			Cashier:  cashier.Username,
			Subtotal: totals.Subtotal,
			Discount: totals.Discount,
			Total:    totals.Total,
			Payment:  payment,
			Change:   payment.Sub(totals.Total),
			Items:    items,
		}
		for i := range out.Items {
			out.Items[i].TransactionID = out.ID
		}
		if err := out.Check(); err != nil {
			return fmt.Errorf("ledger invariant: %w", err)
		}
		return tx.AppendTransaction(ctx, out)
	})
	return out, err
}

func lockAll(ctx context.Context, tx Tx, cart []Line) (map[int64]catalog.Product, error) {
	ids := make([]int64, 0, len(cart))
	seen := make(map[int64]bool, len(cart))
	for _, l := range cart {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make(map[int64]catalog.Product, len(ids))
	for _, id := range ids {
		p, err := tx.LockProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

func (e *Engine) price(cart []Line, products map[int64]catalog.Product) ([]ledger.Item, decimal.Decimal, error) {
	items := make([]ledger.Item, 0, len(cart))
	subtotal := decimal.Zero
	for _, l := range cart {
		p := products[l.ProductID]
		price := p.Price
		if e.PriceSource == config.PriceSourceCart {
			if !l.UnitPrice.IsPositive() {
				return nil, decimal.Zero, apperr.Validation("Harga %s tidak valid", p.Name)
			}
			price = l.UnitPrice
		} else if !l.UnitPrice.IsZero() && !l.UnitPrice.Equal(p.Price) {
			return nil, decimal.Zero, apperr.Validation("Harga %s sudah berubah, muat ulang katalog", p.Name)
		}

		line := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(line)
		items = append(items, ledger.Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       price,
			Quantity:    l.Quantity,
			Subtotal:    line,
		})
	}
	return items, subtotal, nil
}

func classify(err error) error {
	var ae *apperr.Error
	var se *apperr.StockError
	if errors.As(err, &ae) || errors.As(err, &se) {
		return err
	}
	log.Printf("checkout error: %v", err)
	return apperr.System("checkout", err)
}
