package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username, password, role string
}

type seedProduct struct {
	name     string
	price    int64
	stock    int
	category string
}

// menu awal gerai
var defaultUsers = []seedUser{
	{"Haris", "110405", "cashier"},
	{"Dhini", "Riantina", "cashier"},
	{"Susanto", "Santo", "cashier"},
	{"Tribudi", "Prasetyo", "cashier"},
	{"Adinda", "Putri", "admin"},
}

var defaultProducts = []seedProduct{
	{"Gacoan Level 1", 10000, 100, "makanan"},
	{"Gacoan Level 2", 10000, 100, "makanan"},
	{"Gacoan Level 3", 10000, 100, "makanan"},
	{"Gacoan Level 4", 10000, 100, "makanan"},
	{"Gacoan Level 5", 12000, 100, "makanan"},
	{"Gacoan Level 6", 16000, 100, "makanan"},
	{"Gacoan Level 7", 17000, 100, "makanan"},
	{"Gacoan Level 8", 18000, 100, "makanan"},
	{"Udang Keju", 10000, 50, "snack"},
	{"Udang Rambutan", 12000, 50, "snack"},
	{"Lumpia Udang", 11000, 50, "snack"},
	{"Dimsum Ayam", 15000, 30, "snack"},
	{"Pangsit Goreng", 13000, 40, "snack"},
	{"Es Teh Manis", 5000, 100, "minuman"},
	{"Es Jeruk", 6000, 100, "minuman"},
	{"Kopi Hitam", 8000, 80, "minuman"},
	{"Jus Alpukat", 12000, 50, "minuman"},
}

// Seed fills empty users and products tables with the default accounts and menu.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	return InTx(ctx, db, func(tx pgx.Tx) error {
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			for _, u := range defaultUsers {
				hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, `INSERT INTO users(username, password_hash, role) VALUES ($1,$2,$3)`,
					u.username, string(hash), u.role); err != nil {
					return fmt.Errorf("seed user %s: %w", u.username, err)
				}
			}
			log.Printf("seed: %d default users created", len(defaultUsers))
		}

		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			for _, p := range defaultProducts {
				if _, err := tx.Exec(ctx, `INSERT INTO products(name, price, stock, category) VALUES ($1,$2,$3,$4)`,
					p.name, p.price, p.stock, p.category); err != nil {
					return fmt.Errorf("seed product %s: %w", p.name, err)
				}
			}
			log.Printf("seed: %d default products created", len(defaultProducts))
		}
		return nil
	})
}
