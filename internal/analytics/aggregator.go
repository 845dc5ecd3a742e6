// Package analytics computes read-only sales summaries over committed transactions.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source reads committed ledger data. Ranges are half open: from <= date < to.
type Source interface {
	SumTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Sales(ctx context.Context, from, to time.Time) ([]Sale, error)
	TopProducts(ctx context.Context, n int) ([]ProductSales, error)
	CategorySales(ctx context.Context) ([]CategorySales, error)
	CategorySalesBetween(ctx context.Context, from, to time.Time) ([]CategorySales, error)
}

const (
	ChartDaily    = "daily"
	ChartHourly   = "hourly"
	ChartProducts = "products"

	dashboardDays = 7
	chartDays     = 30
	defaultTopN   = 10
)

type Aggregator struct {
	Source   Source
	Location *time.Location
	Now      func() time.Time
}

func (a *Aggregator) loc() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *Aggregator) today() time.Time {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	now = now.In(a.loc())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc())
}

// Range resolves w to a half open time range in the aggregator's location.
func (a *Aggregator) Range(w Window) (from, to time.Time, err error) {
	today := a.today()
	tomorrow := today.AddDate(0, 0, 1)
	switch w {
	case WindowToday:
		return today, tomorrow, nil
	case WindowYesterday:
		return today.AddDate(0, 0, -1), today, nil
	case WindowWeek:
		return today.AddDate(0, 0, -7), tomorrow, nil
	case WindowMonth:
		return today.AddDate(0, 0, 1-today.Day()), tomorrow, nil
	}
	return time.Time{}, time.Time{}, apperr.Validation("periode %q tidak dikenal", w)
}

// SalesSummary sums transaction totals inside w. No data yields zero.
func (a *Aggregator) SalesSummary(ctx context.Context, w Window) (decimal.Decimal, error) {
	from, to, err := a.Range(w)
	if err != nil {
		return decimal.Zero, err
	}
	sum, err := a.Source.SumTotal(ctx, from, to)
	if err != nil {
		return decimal.Zero, apperr.System("sales summary", err)
	}
	return sum, nil
}

// TopProducts returns at most n products by quantity sold, highest first.
func (a *Aggregator) TopProducts(ctx context.Context, n int) ([]ProductSales, error) {
	if n <= 0 {
		return nil, apperr.Validation("jumlah produk harus lebih dari 0")
	}
	ps, err := a.Source.TopProducts(ctx, n)
	if err != nil {
		return nil, apperr.System("top products", err)
	}
	// urutan dari source dipertahankan untuk nilai yang sama
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Quantity > ps[j].Quantity })
	if len(ps) > n {
		ps = ps[:n]
	}
	return ps, nil
}

// DailySeries returns one bucket per calendar day for the last days days, oldest first.
func (a *Aggregator) DailySeries(ctx context.Context, days int) ([]DayBucket, error) {
	if days <= 0 {
		return nil, apperr.Validation("jumlah hari harus lebih dari 0")
	}
	today := a.today()
	from := today.AddDate(0, 0, -(days - 1))
	sales, err := a.Source.Sales(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperr.System("daily series", err)
	}
	return BucketDaily(sales, from, days, a.loc()), nil
}

// HourlySeries returns 24 buckets for the current day.
func (a *Aggregator) HourlySeries(ctx context.Context) ([]HourBucket, error) {
	today := a.today()
	sales, err := a.Source.Sales(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperr.System("hourly series", err)
	}
	return BucketHourly(sales, a.loc()), nil
}

// CategoryPerformance sums revenue and quantity per category, highest revenue first.
func (a *Aggregator) CategoryPerformance(ctx context.Context) ([]CategorySales, error) {
	cs, err := a.Source.CategorySales(ctx)
	if err != nil {
		return nil, apperr.System("category performance", err)
	}
	return byRevenue(cs), nil
}

// CategoryPerformanceBetween is CategoryPerformance over from <= date < to.
func (a *Aggregator) CategoryPerformanceBetween(ctx context.Context, from, to time.Time) ([]CategorySales, error) {
	cs, err := a.Source.CategorySalesBetween(ctx, from, to)
	if err != nil {
		return nil, apperr.System("category performance", err)
	}
	return byRevenue(cs), nil
}

func byRevenue(cs []CategorySales) []CategorySales {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].Revenue.Equal(cs[j].Revenue) {
			return cs[i].Revenue.GreaterThan(cs[j].Revenue)
		}
		return cs[i].Category < cs[j].Category
	})
	return cs
}

// Dashboard gathers every summary shown on the sales history page.
func (a *Aggregator) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	windows := []struct {
		w   Window
		dst *decimal.Decimal
	}{
		{WindowToday, &d.TodaySales},
		{WindowYesterday, &d.YesterdaySales},
		{WindowWeek, &d.WeekSales},
		{WindowMonth, &d.MonthSales},
	}
	for _, win := range windows {
		win := win
		g.Go(func() error {
			v, err := a.SalesSummary(ctx, win.w)
			*win.dst = v
			return err
		})
	}
	g.Go(func() (err error) {
		d.TopProducts, err = a.TopProducts(ctx, defaultTopN)
		return err
	})
	g.Go(func() (err error) {
		d.Daily, err = a.DailySeries(ctx, dashboardDays)
		return err
	})
	g.Go(func() (err error) {
		d.Hourly, err = a.HourlySeries(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = a.CategoryPerformance(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// Chart returns data for the sales chart of the given kind. Unknown kinds yield no points.
func (a *Aggregator) Chart(ctx context.Context, kind string) ([]Point, error) {
	out := []Point{}
	switch kind {
	case ChartDaily:
		days, err := a.DailySeries(ctx, chartDays)
		if err != nil {
			return nil, err
		}
		for _, b := range days {
			out = append(out, Point{Label: b.Label, Value: b.Sales})
		}
	case ChartHourly:
		hours, err := a.HourlySeries(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range hours {
			out = append(out, Point{Label: b.Label, Value: b.Sales})
		}
	case ChartProducts:
		ps, err := a.TopProducts(ctx, defaultTopN)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			out = append(out, Point{Label: p.Name, Value: decimal.NewFromInt(p.Quantity)})
		}
	}
	return out, nil
}

// BucketDaily sums sales into days consecutive calendar days starting at from.
func BucketDaily(sales []Sale, from time.Time, days int, loc *time.Location) []DayBucket {
	out := make([]DayBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		out[i] = DayBucket{Date: day, Label: day.Format("02/01"), Sales: decimal.Zero}
		index[day.Format(time.DateOnly)] = i
	}
	for _, s := range sales {
		if i, ok := index[s.At.In(loc).Format(time.DateOnly)]; ok {
			out[i].Sales = out[i].Sales.Add(s.Total)
		}
	}
	return out
}

// BucketHourly sums sales by local hour of day into 24 buckets.
func BucketHourly(sales []Sale, loc *time.Location) []HourBucket {
	out := make([]HourBucket, 24)
	for h := range out {
		out[h] = HourBucket{Hour: h, Label: fmt.Sprintf("%02d:00", h), Sales: decimal.Zero}
	}
	for _, s := range sales {
		h := s.At.In(loc).Hour()
		out[h].Sales = out[h].Sales.Add(s.Total)
	}
	return out
}
