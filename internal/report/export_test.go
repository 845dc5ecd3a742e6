package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/analytics"
	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type txSource struct {
	txs []ledger.Transaction
	err error
}

func (s txSource) Between(context.Context, time.Time, time.Time) ([]ledger.Transaction, error) {
	return s.txs, s.err
}

type catSource struct {
	cats     []analytics.CategorySales
	from, to time.Time
}

func (s *catSource) CategoryPerformanceBetween(_ context.Context, from, to time.Time) ([]analytics.CategorySales, error) {
	s.from, s.to = from, to
	return s.cats, nil
}

var wib = time.FixedZone("WIB", 7*3600)

func fixture() Exporter {
	return Exporter{
		Transactions: txSource{txs: []ledger.Transaction{
			{
				ID: "TRX-1792240200", Date: time.Date(2026, 10, 17, 5, 30, 0, 0, time.UTC), Cashier: "Haris",
				Subtotal: d(30000), Discount: d(0), Total: d(30000), Payment: d(50000), Change: d(20000),
				Items: []ledger.Item{{ProductName: "Gacoan Level 1", Price: d(10000), Quantity: 3, Subtotal: d(30000)}},
			},
			{
				ID: "TRX-1792243800", Date: time.Date(2026, 10, 17, 6, 30, 0, 0, time.UTC), Cashier: "Dhini",
				Subtotal: d(120000), Discount: d(12000), Total: d(108000), Payment: d(110000), Change: d(2000),
				Items: []ledger.Item{
					{ProductName: "Gacoan Level 6", Price: d(16000), Quantity: 5, Subtotal: d(80000)},
					{ProductName: "Gacoan Level 3", Price: d(10000), Quantity: 4, Subtotal: d(40000)},
				},
			},
		}},
		Categories: &catSource{cats: []analytics.CategorySales{{Category: "makanan", Revenue: d(150000), Quantity: 12}}},
		Location:   wib,
	}
}

func TestExport(t *testing.T) {
	e := fixture()
	var buf bytes.Buffer
	from := time.Date(2026, 10, 17, 0, 0, 0, 0, wib)
	require.NoError(t, e.Export(context.Background(), &buf, from, from.AddDate(0, 0, 1)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTransactions, SheetItems, SheetCategories}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	assert.Equal(t, "ID Transaksi", rows[0][0])
	assert.Equal(t, []string{"TRX-1792240200", "17/10/2026 12:30", "Haris", "30000", "0", "30000", "50000", "20000"}, rows[1])
	assert.Equal(t, "138000", rows[len(rows)-1][5])

	items, err := f.GetRows(SheetItems)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	cats, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"makanan", "150000", "12"}, cats[1])

	src := e.Categories.(*catSource)
	assert.Equal(t, from, src.from, "category sheet covers the export range")
	assert.Equal(t, from.AddDate(0, 0, 1), src.to)
}

func TestExportRejectsEmptyRange(t *testing.T) {
	e := fixture()
	now := time.Now()
	err := e.Export(context.Background(), &bytes.Buffer{}, now, now)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestExportSourceFailure(t *testing.T) {
	e := fixture()
	e.Transactions = txSource{err: errors.New("db down")}
	now := time.Now()
	err := e.Export(context.Background(), &bytes.Buffer{}, now.Add(-time.Hour), now)
	assert.ErrorIs(t, err, apperr.ErrSystem)
}

func TestFileName(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, wib)
	assert.Equal(t, "laporan_20261001_20261017.xlsx", FileName(from, time.Date(2026, 10, 18, 0, 0, 0, 0, wib)))
}
