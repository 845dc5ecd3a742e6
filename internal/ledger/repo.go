package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ DB *pgxpool.Pool }

const txColumns = `id, date, cashier, subtotal, discount, total, payment, change`

// Insert appends t and its items through q. Callers own the surrounding DB transaction.
func Insert(ctx context.Context, q Querier, t Transaction) error {
	if _, err := q.Exec(ctx, `
		INSERT INTO transactions(`+txColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.Date, t.Cashier, t.Subtotal, t.Discount, t.Total, t.Payment, t.Change); err != nil {
		return err
	}
	for _, it := range t.Items {
		if _, err := q.Exec(ctx, `
			INSERT INTO transaction_items(transaction_id, product_id, product_name, price, quantity, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			t.ID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func scanTx(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Cashier, &t.Subtotal, &t.Discount, &t.Total, &t.Payment, &t.Change)
	return t, err
}

func (r *Repo) Get(ctx context.Context, id string) (Transaction, error) {
	t, err := scanTx(r.DB.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, apperr.NotFound("Transaksi tidak ditemukan")
	}
	if err != nil {
		return Transaction{}, err
	}
	items, err := r.items(ctx, []string{id})
	if err != nil {
		return Transaction{}, err
	}
	t.Items = items[id]
	return t, nil
}

// List returns transactions newest first. limit <= 0 means no limit.
func (r *Repo) List(ctx context.Context, limit int) ([]Transaction, error) {
	q := `SELECT ` + txColumns + ` FROM transactions ORDER BY date DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	return r.query(ctx, q, args...)
}

// Between returns transactions with from <= date < to, oldest first.
func (r *Repo) Between(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	return r.query(ctx, `SELECT `+txColumns+` FROM transactions WHERE date >= $1 AND date < $2 ORDER BY date, id`, from, to)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out := []Transaction{}
	ids := []string{}
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) items(ctx context.Context, ids []string) (map[string][]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, transaction_id, product_id, product_name, price, quantity, subtotal
		FROM transaction_items WHERE transaction_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Item, len(ids))
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		out[it.TransactionID] = append(out[it.TransactionID], it)
	}
	return out, rows.Err()
}

// Delete removes a transaction together with its items in one DB transaction.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id=$1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return apperr.NotFound("Transaksi tidak ditemukan")
		}
		return nil
	})
}

func (r *Repo) ProductReferenced(ctx context.Context, productID int64) (bool, error) {
	var used bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transaction_items WHERE product_id=$1)`, productID).Scan(&used)
	return used, err
}
