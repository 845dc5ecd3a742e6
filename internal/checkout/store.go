package checkout

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
)

// ErrDuplicateID is returned by Tx.AppendTransaction when the id is already taken.
var ErrDuplicateID = errors.New("transaction id already exists")

// Store runs fn as one all-or-nothing unit: either every mutation made through
// tx lands or none does.
type Store interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	// LockProduct reads the current product row and holds it until the unit ends.
	LockProduct(ctx context.Context, id int64) (catalog.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
	AppendTransaction(ctx context.Context, t ledger.Transaction) error
}
