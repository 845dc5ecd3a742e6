package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	next     int64
	products map[int64]Product
	failWith error
}

func newMemRepo(ps ...Product) *memRepo {
	r := &memRepo{products: map[int64]Product{}}
	for _, p := range ps {
		r.next++
		p.ID = r.next
		r.products[p.ID] = p
	}
	return r
}

func (r *memRepo) List(_ context.Context, c Category) ([]Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []Product{}
	for _, p := range r.products {
		if c == "" || p.Category == c {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Get(_ context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	return p, nil
}

func (r *memRepo) NameTaken(_ context.Context, name string, exceptID int64) (bool, error) {
	for _, p := range r.products {
		if p.Name == name && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Create(_ context.Context, in Input) (Product, error) {
	r.next++
	p := Product{ID: r.next, Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category, CreatedAt: time.Now()}
	r.products[p.ID] = p
	return p, nil
}

func (r *memRepo) Update(_ context.Context, id int64, in Input) (Product, error) {
	p := r.products[id]
	p.Name, p.Price, p.Stock, p.Category = in.Name, in.Price, in.Stock, in.Category
	r.products[id] = p
	return p, nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func (r *memRepo) RemoveStock(_ context.Context, id int64, qty int) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, apperr.NotFound("Produk %d tidak ditemukan", id)
	}
	if qty > p.Stock {
		return Product{}, apperr.Validation("Jumlah yang dihapus tidak boleh lebih dari stok tersedia")
	}
	p.Stock -= qty
	r.products[id] = p
	return p, nil
}

func (r *memRepo) LowStock(_ context.Context, threshold int) ([]Product, error) {
	out := []Product{}
	for _, p := range r.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

type refs map[int64]bool

func (r refs) ProductReferenced(_ context.Context, id int64) (bool, error) { return r[id], nil }

type recorder struct{ actions []string }

func (r *recorder) ProductChanged(_ context.Context, action string, _ Product, _ auth.Identity) {
	r.actions = append(r.actions, action)
}

var admin = auth.Identity{UserID: 5, Username: "Adinda", Role: auth.RoleAdmin}

func rp(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seeded() (*Service, *memRepo, *recorder) {
	repo := newMemRepo(
		Product{Name: "Es Jeruk", Price: rp(6000), Stock: 100, Category: CategoryMinuman},
		Product{Name: "Dimsum Ayam", Price: rp(15000), Stock: 8, Category: CategorySnack},
	)
	rec := &recorder{}
	return &Service{Repo: repo, Refs: refs{1: true}, Publisher: rec, LowStockThreshold: 10}, repo, rec
}

func TestAddValidation(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	cases := []struct {
		name string
		in   Input
	}{
		{"empty name", Input{Name: "  ", Price: rp(1000), Stock: 1, Category: CategorySnack}},
		{"zero price", Input{Name: "Kerupuk", Price: rp(0), Stock: 1, Category: CategorySnack}},
		{"negative price", Input{Name: "Kerupuk", Price: rp(-5), Stock: 1, Category: CategorySnack}},
		{"negative stock", Input{Name: "Kerupuk", Price: rp(1000), Stock: -1, Category: CategorySnack}},
		{"unknown category", Input{Name: "Kerupuk", Price: rp(1000), Stock: 1, Category: "appetizer"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, admin, tc.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAddNormalizesAndPublishes(t *testing.T) {
	svc, repo, rec := seeded()
	p, err := svc.Add(context.Background(), admin, Input{Name: " Kopi Susu ", Price: rp(9000), Stock: 20, Category: "MINUMAN"})
	require.NoError(t, err)

	assert.Equal(t, "Kopi Susu", p.Name)
	assert.Equal(t, CategoryMinuman, p.Category)
	assert.Len(t, repo.products, 3)
	assert.Equal(t, []string{ActionCreated}, rec.actions)
}

func TestDuplicateNameIsCaseSensitive(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	_, err := svc.Add(ctx, admin, Input{Name: "Es Jeruk", Price: rp(6000), Stock: 1, Category: CategoryMinuman})
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)

	_, err = svc.Add(ctx, admin, Input{Name: "es jeruk", Price: rp(6000), Stock: 1, Category: CategoryMinuman})
	assert.NoError(t, err)
}

func TestEditKeepsOwnName(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	p, err := svc.Edit(ctx, admin, 1, Input{Name: "Es Jeruk", Price: rp(7000), Stock: 90, Category: CategoryMinuman})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(rp(7000)))

	_, err = svc.Edit(ctx, admin, 1, Input{Name: "Dimsum Ayam", Price: rp(7000), Stock: 90, Category: CategoryMinuman})
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)

	_, err = svc.Edit(ctx, admin, 42, Input{Name: "X", Price: rp(1), Stock: 0, Category: CategorySnack})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteReferentialIntegrity(t *testing.T) {
	svc, repo, rec := seeded()
	ctx := context.Background()

	err := svc.Delete(ctx, admin, 1)
	assert.ErrorIs(t, err, apperr.ErrProductInUse)
	assert.Contains(t, repo.products, int64(1))

	require.NoError(t, svc.Delete(ctx, admin, 2))
	assert.NotContains(t, repo.products, int64(2))
	assert.Equal(t, []string{ActionDeleted}, rec.actions)
}

func TestRemoveStock(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	_, err := svc.RemoveStock(ctx, admin, 2, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RemoveStock(ctx, admin, 2, 9)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	p, err := svc.RemoveStock(ctx, admin, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestListFilter(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	all, err := svc.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	snacks, err := svc.List(ctx, "snack")
	require.NoError(t, err)
	require.Len(t, snacks, 1)
	assert.Equal(t, "Dimsum Ayam", snacks[0].Name)

	_, err = svc.List(ctx, "main")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLowStock(t *testing.T) {
	svc, _, _ := seeded()
	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Dimsum Ayam", low[0].Name)
}

func TestSystemErrorHidden(t *testing.T) {
	svc, repo, _ := seeded()
	repo.failWith = errors.New("conn reset")

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrSystem)
	assert.Equal(t, "terjadi kesalahan sistem", err.Error())
}
