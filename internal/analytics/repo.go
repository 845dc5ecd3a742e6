package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) SumTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM transactions
		WHERE date >= $1 AND date < $2`, from, to).Scan(&sum)
	return sum, err
}

func (r *Repo) Sales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT date, total FROM transactions
		WHERE date >= $1 AND date < $2 ORDER BY date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.At, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TopProducts groups by the denormalized name; ties keep first-sold order.
func (r *Repo) TopProducts(ctx context.Context, n int) ([]ProductSales, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_name, SUM(quantity)::bigint, SUM(subtotal)
		FROM transaction_items
		GROUP BY product_name
		ORDER BY SUM(quantity) DESC, MIN(id) ASC
		LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ProductSales{}
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CategorySales(ctx context.Context) ([]CategorySales, error) {
	return r.categorySales(ctx, ``)
}

// CategorySalesBetween limits CategorySales to transactions with from <= date < to.
func (r *Repo) CategorySalesBetween(ctx context.Context, from, to time.Time) ([]CategorySales, error) {
	return r.categorySales(ctx, `
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.date >= $1 AND t.date < $2`, from, to)
}

func (r *Repo) categorySales(ctx context.Context, filter string, args ...any) ([]CategorySales, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.category, SUM(ti.subtotal), SUM(ti.quantity)::bigint
		FROM products p
		JOIN transaction_items ti ON p.id = ti.product_id`+filter+`
		GROUP BY p.category
		ORDER BY SUM(ti.subtotal) DESC, p.category`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CategorySales{}
	for rows.Next() {
		var c CategorySales
		if err := rows.Scan(&c.Category, &c.Revenue, &c.Quantity); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
