package checkout

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/ariefcatur/go-kasir-pos.git/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct{ DB *pgxpool.Pool }

func (s *PgStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return postgres.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(ctx, pgTx{tx})
	})
}

type pgTx struct{ tx pgx.Tx }

func (t pgTx) LockProduct(ctx context.Context, id int64) (catalog.Product, error) {
	p, err := catalog.ScanProduct(t.tx.QueryRow(ctx, `SELECT `+catalog.Columns+` FROM products WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	return p, err
}

func (t pgTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at=now() WHERE id=$1 AND stock >= $2`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return &apperr.StockError{ProductID: id, Name: "produk", Required: qty}
	}
	return nil
}

func (t pgTx) AppendTransaction(ctx context.Context, trx ledger.Transaction) error {
	err := ledger.Insert(ctx, t.tx, trx)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "transactions_pkey" {
		return ErrDuplicateID
	}
	return err
}
