package ledger

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
)

// Repository is the persistence behind the Ledger Store.
type Repository interface {
	Get(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, limit int) ([]Transaction, error)
	Between(ctx context.Context, from, to time.Time) ([]Transaction, error)
	Delete(ctx context.Context, id string) error
}

// RecentLimit is how many transactions the history page shows.
const RecentLimit = 50

type Service struct {
	Repo Repository
}

func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, system("get transaction", err)
	}
	return t, nil
}

// Recent returns at most limit transactions, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	ts, err := s.Repo.List(ctx, limit)
	if err != nil {
		return nil, system("list transactions", err)
	}
	return ts, nil
}

func (s *Service) Between(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	ts, err := s.Repo.Between(ctx, from, to)
	if err != nil {
		return nil, system("transactions between", err)
	}
	return ts, nil
}

// Delete removes a transaction and the items it owns. Stock is not restored.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return system("delete transaction", err)
	}
	log.Printf("ledger: %s deleted transaction %s", actor.Username, id)
	return nil
}

func system(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	log.Printf("ledger: %s: %v", op, err)
	return apperr.System(op, err)
}
