package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Window names a date predicate for SalesSummary.
type Window string

const (
	WindowToday     Window = "today"
	WindowYesterday Window = "yesterday"
	WindowWeek      Window = "week"
	WindowMonth     Window = "month"
)

// Sale is the minimal projection of a committed transaction used for bucketing.
type Sale struct {
	At    time.Time
	Total decimal.Decimal
}

type ProductSales struct {
	Name     string          `json:"product_name"`
	Quantity int64           `json:"total_quantity"`
	Revenue  decimal.Decimal `json:"total_revenue"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"total_sales"`
	Quantity int64           `json:"total_quantity"`
}

type DayBucket struct {
	Date  time.Time       `json:"date"`
	Label string          `json:"label"`
	Sales decimal.Decimal `json:"sales"`
}

type HourBucket struct {
	Hour  int             `json:"hour"`
	Label string          `json:"label"`
	Sales decimal.Decimal `json:"sales"`
}

// Point is one chart datum.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type Dashboard struct {
	TodaySales     decimal.Decimal `json:"today_sales"`
	YesterdaySales decimal.Decimal `json:"yesterday_sales"`
	WeekSales      decimal.Decimal `json:"week_sales"`
	MonthSales     decimal.Decimal `json:"month_sales"`
	TopProducts    []ProductSales  `json:"top_products"`
	Daily          []DayBucket     `json:"daily_sales"`
	Hourly         []HourBucket    `json:"hourly_sales"`
	Categories     []CategorySales `json:"category_sales"`
}
