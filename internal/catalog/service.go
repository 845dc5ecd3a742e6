package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
)

// Repository is the persistence behind the Catalog Store.
type Repository interface {
	List(ctx context.Context, category Category) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	Create(ctx context.Context, in Input) (Product, error)
	Update(ctx context.Context, id int64, in Input) (Product, error)
	Delete(ctx context.Context, id int64) error
	RemoveStock(ctx context.Context, id int64, qty int) (Product, error)
	LowStock(ctx context.Context, threshold int) ([]Product, error)
}

// References answers whether any ledger line item points at a product.
type References interface {
	ProductReferenced(ctx context.Context, productID int64) (bool, error)
}

// Publisher receives inventory changes after they are stored.
type Publisher interface {
	ProductChanged(ctx context.Context, action string, p Product, actor auth.Identity)
}

const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionStockRemoved = "stock_removed"
)

type Service struct {
	Repo              Repository
	Refs              References
	Publisher         Publisher
	LowStockThreshold int
}

// List returns every product, or only those of category when it is set and not "all".
func (s *Service) List(ctx context.Context, category string) ([]Product, error) {
	c := Category(category)
	if category == "all" {
		c = ""
	}
	if c != "" && !c.Valid() {
		return nil, apperr.Validation("Kategori tidak valid")
	}
	ps, err := s.Repo.List(ctx, c)
	if err != nil {
		return nil, system("list products", err)
	}
	return ps, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Product{}, system("get product", err)
	}
	return p, nil
}

func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	ps, err := s.Repo.LowStock(ctx, s.LowStockThreshold)
	if err != nil {
		return nil, system("low stock", err)
	}
	return ps, nil
}

func (s *Service) Add(ctx context.Context, actor auth.Identity, in Input) (Product, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	if err := s.ensureUniqueName(ctx, in.Name, 0); err != nil {
		return Product{}, err
	}
	p, err := s.Repo.Create(ctx, in)
	if err != nil {
		return Product{}, system("create product", err)
	}
	log.Printf("catalog: %s added product id=%d name=%q", actor.Username, p.ID, p.Name)
	s.publish(ctx, ActionCreated, p, actor)
	return p, nil
}

func (s *Service) Edit(ctx context.Context, actor auth.Identity, id int64, in Input) (Product, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return Product{}, system("get product", err)
	}
	if err := s.ensureUniqueName(ctx, in.Name, id); err != nil {
		return Product{}, err
	}
	p, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		return Product{}, system("update product", err)
	}
	log.Printf("catalog: %s updated product id=%d", actor.Username, p.ID)
	s.publish(ctx, ActionUpdated, p, actor)
	return p, nil
}

// Delete removes a product that no transaction item has ever referenced.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return system("get product", err)
	}
	used, err := s.Refs.ProductReferenced(ctx, id)
	if err != nil {
		return system("product references", err)
	}
	if used {
		return apperr.New(apperr.ErrProductInUse, "Tidak dapat menghapus produk yang sudah pernah dijual")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return system("delete product", err)
	}
	log.Printf("catalog: %s deleted product id=%d name=%q", actor.Username, p.ID, p.Name)
	s.publish(ctx, ActionDeleted, p, actor)
	return nil
}

// RemoveStock takes qty units out of stock, never more than are present.
func (s *Service) RemoveStock(ctx context.Context, actor auth.Identity, id int64, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, apperr.Validation("Jumlah yang dihapus harus lebih dari 0")
	}
	p, err := s.Repo.RemoveStock(ctx, id, qty)
	if err != nil {
		return Product{}, system("remove stock", err)
	}
	log.Printf("catalog: %s removed %d stock from product id=%d", actor.Username, qty, p.ID)
	s.publish(ctx, ActionStockRemoved, p, actor)
	return p, nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, exceptID int64) error {
	taken, err := s.Repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return system("name check", err)
	}
	if taken {
		return apperr.New(apperr.ErrDuplicateName, "Produk dengan nama tersebut sudah ada")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, action string, p Product, actor auth.Identity) {
	if s.Publisher != nil {
		s.Publisher.ProductChanged(ctx, action, p, actor)
	}
}

// system passes classified errors through and wraps everything else.
func system(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	log.Printf("catalog: %s: %v", op, err)
	return apperr.System(op, err)
}
