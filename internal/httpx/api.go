package httpx

import (
	"context"
	"io"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/analytics"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/checkout"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type Catalog interface {
	List(ctx context.Context, category string) ([]catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
	LowStock(ctx context.Context) ([]catalog.Product, error)
	Add(ctx context.Context, actor auth.Identity, in catalog.Input) (catalog.Product, error)
	Edit(ctx context.Context, actor auth.Identity, id int64, in catalog.Input) (catalog.Product, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
	RemoveStock(ctx context.Context, actor auth.Identity, id int64, qty int) (catalog.Product, error)
}

type Checkout interface {
	Checkout(ctx context.Context, cart []checkout.Line, payment decimal.Decimal, cashier auth.Identity) (ledger.Transaction, error)
}

type Ledger interface {
	Get(ctx context.Context, id string) (ledger.Transaction, error)
	Recent(ctx context.Context, limit int) ([]ledger.Transaction, error)
	Delete(ctx context.Context, actor auth.Identity, id string) error
}

type Analytics interface {
	SalesSummary(ctx context.Context, w analytics.Window) (decimal.Decimal, error)
	TopProducts(ctx context.Context, n int) ([]analytics.ProductSales, error)
	DailySeries(ctx context.Context, days int) ([]analytics.DayBucket, error)
	HourlySeries(ctx context.Context) ([]analytics.HourBucket, error)
	CategoryPerformance(ctx context.Context) ([]analytics.CategorySales, error)
	Dashboard(ctx context.Context) (analytics.Dashboard, error)
	Chart(ctx context.Context, kind string) ([]analytics.Point, error)
}

type Reports interface {
	Export(ctx context.Context, w io.Writer, from, to time.Time) error
}

type Users interface {
	Authenticate(ctx context.Context, username, password string) (auth.Identity, error)
	ChangePassword(ctx context.Context, id auth.Identity, oldPassword, newPassword, confirm string) error
	List(ctx context.Context) ([]auth.User, error)
	AddUser(ctx context.Context, actor auth.Identity, in auth.UserInput) (auth.User, error)
	EditUser(ctx context.Context, actor auth.Identity, id int64, in auth.UserInput) (auth.User, error)
	ToggleActive(ctx context.Context, actor auth.Identity, id int64) (auth.User, error)
}

type Sessions interface {
	Create(ctx context.Context, id auth.Identity) (string, error)
	Resolve(ctx context.Context, token string) (auth.Identity, error)
	Logout(ctx context.Context, token string) error
}

// API holds the collaborators behind every endpoint.
type API struct {
	Catalog   Catalog
	Checkout  Checkout
	Pricing   checkout.Pricing
	Ledger    Ledger
	Analytics Analytics
	Reports   Reports
	Users     Users
	Sessions  Sessions

	// Redis backs checkout idempotency keys; nil disables them.
	Redis      redis.Cmdable
	Location   *time.Location
	SessionTTL time.Duration
	// CheckoutTimeout bounds one checkout; zero means 5s.
	CheckoutTimeout time.Duration
}

func (a *API) checkoutTimeout() time.Duration {
	if a.CheckoutTimeout > 0 {
		return a.CheckoutTimeout
	}
	return 5 * time.Second
}

func (a *API) loc() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}
