package catalog

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Columns is the select list ScanProduct expects.
const Columns = `id, name, price, stock, category, created_at, updated_at`

func ScanProduct(row pgx.Row) (Product, error) {
	var p Product
	var cat string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &cat, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	p.Category = Category(cat)
	return p, nil
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := ScanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context, category Category) ([]Product, error) {
	if category == "" {
		rows, err := r.DB.Query(ctx, `SELECT `+Columns+` FROM products ORDER BY id`)
		if err != nil {
			return nil, err
		}
		return collect(rows)
	}
	rows, err := r.DB.Query(ctx, `SELECT `+Columns+` FROM products WHERE category=$1 ORDER BY id`, string(category))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) Get(ctx context.Context, id int64) (Product, error) {
	p, err := ScanProduct(r.DB.QueryRow(ctx, `SELECT `+Columns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	return p, err
}

func (r *Repo) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var taken bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name=$1 AND id<>$2)`, name, exceptID).Scan(&taken)
	return taken, err
}

func (r *Repo) Create(ctx context.Context, in Input) (Product, error) {
	p, err := ScanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products(name, price, stock, category)
		VALUES ($1,$2,$3,$4)
		RETURNING `+Columns, in.Name, in.Price, in.Stock, string(in.Category)))
	return p, mapWriteErr(err)
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) (Product, error) {
	p, err := ScanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, price=$3, stock=$4, category=$5, updated_at=now()
		WHERE id=$1
		RETURNING `+Columns, id, in.Name, in.Price, in.Stock, string(in.Category)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	return p, mapWriteErr(err)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return mapWriteErr(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	return nil
}

// RemoveStock kurangi stok secara atomik; WHERE stock >= qty menjaga stok tidak negatif.
func (r *Repo) RemoveStock(ctx context.Context, id int64, qty int) (Product, error) {
	p, err := ScanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET stock = stock - $2, updated_at=now()
		WHERE id=$1 AND stock >= $2
		RETURNING `+Columns, id, qty))
	if !errors.Is(err, pgx.ErrNoRows) {
		return p, err
	}
	if _, err := r.Get(ctx, id); err != nil {
		return Product{}, err
	}
	return Product{}, apperr.Validation("Jumlah yang dihapus tidak boleh lebih dari stok tersedia")
}

func (r *Repo) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+Columns+` FROM products WHERE stock <= $1 ORDER BY stock, id`, threshold)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.New(apperr.ErrDuplicateName, "Produk dengan nama tersebut sudah ada")
		case "23503":
			return apperr.New(apperr.ErrProductInUse, "Tidak dapat menghapus produk yang sudah pernah dijual")
		case "23514":
			return apperr.Validation("Data produk tidak valid")
		}
	}
	return err
}
