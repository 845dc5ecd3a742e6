package catalog

import (
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMakanan Category = "makanan"
	CategorySnack   Category = "snack"
	CategoryMinuman Category = "minuman"
)

// Categories is the fixed set a product may belong to.
var Categories = []Category{CategoryMakanan, CategorySnack, CategoryMinuman}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Category  Category        `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Input is the editable part of a product, used by add and edit.
type Input struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category Category        `json:"category"`
}

// Normalize trims the name and lowercases the category.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = Category(strings.ToLower(strings.TrimSpace(string(in.Category))))
	return in
}

func (in Input) Validate() error {
	if in.Name == "" {
		return apperr.Validation("Nama produk tidak boleh kosong")
	}
	if !in.Price.IsPositive() {
		return apperr.Validation("Harga harus lebih dari 0")
	}
	if in.Stock < 0 {
		return apperr.Validation("Stok tidak boleh negatif")
	}
	if !in.Category.Valid() {
		return apperr.Validation("Kategori tidak valid")
	}
	return nil
}
