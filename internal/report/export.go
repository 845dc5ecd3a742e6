// Package report exports sales data as an Excel workbook.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/analytics"
	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTransactions = "Transaksi"
	SheetItems        = "Detail Item"
	SheetCategories   = "Kategori"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type TransactionSource interface {
	Between(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error)
}

type CategorySource interface {
	CategoryPerformanceBetween(ctx context.Context, from, to time.Time) ([]analytics.CategorySales, error)
}

type Exporter struct {
	Transactions TransactionSource
	Categories   CategorySource
	Location     *time.Location
}

// Export writes every transaction with from <= date < to, its items, and the
// category performance over the same range as an xlsx workbook.
func (e *Exporter) Export(ctx context.Context, w io.Writer, from, to time.Time) error {
	if !from.Before(to) {
		return apperr.Validation("rentang tanggal tidak valid")
	}
	txs, err := e.Transactions.Between(ctx, from, to)
	if err != nil {
		return apperr.System("export transactions", err)
	}
	cats, err := e.Categories.CategoryPerformanceBetween(ctx, from, to)
	if err != nil {
		return err
	}
	f, err := Workbook(txs, cats, e.Location)
	if err != nil {
		return apperr.System("build workbook", err)
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName names an export covering [from, to).
func FileName(from, to time.Time) string {
	return fmt.Sprintf("laporan_%s_%s.xlsx", from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
}

// Workbook lays out the three report sheets.
func Workbook(txs []ledger.Transaction, cats []analytics.CategorySales, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return nil, err
	}
	for _, s := range []string{SheetItems, SheetCategories} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, err
		}
	}

	trx := [][]any{{"ID Transaksi", "Tanggal", "Kasir", "Subtotal", "Diskon", "Total", "Bayar", "Kembali"}}
	items := [][]any{{"ID Transaksi", "Produk", "Harga", "Qty", "Subtotal"}}
	total := decimal.Zero
	for _, t := range txs {
		trx = append(trx, []any{
			t.ID, t.Date.In(loc).Format("02/01/2006 15:04"), t.Cashier,
			money(t.Subtotal), money(t.Discount), money(t.Total), money(t.Payment), money(t.Change),
		})
		total = total.Add(t.Total)
		for _, it := range t.Items {
			items = append(items, []any{t.ID, it.ProductName, money(it.Price), it.Quantity, money(it.Subtotal)})
		}
	}
	trx = append(trx, []any{}, []any{"", "", "", "", "TOTAL", money(total)})

	cat := [][]any{{"Kategori", "Total Penjualan", "Qty Terjual"}}
	for _, c := range cats {
		cat = append(cat, []any{c.Category, money(c.Revenue), c.Quantity})
	}

	for _, s := range []struct {
		name string
		rows [][]any
	}{
		{SheetTransactions, trx},
		{SheetItems, items},
		{SheetCategories, cat},
	} {
		if err := writeRows(f, s.name, s.rows, header); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
