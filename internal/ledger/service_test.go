package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	txs  map[string]Transaction
	fail error
}

func (m *memRepo) Get(_ context.Context, id string) (Transaction, error) {
	if m.fail != nil {
		return Transaction{}, m.fail
	}
	t, ok := m.txs[id]
	if !ok {
		return Transaction{}, apperr.NotFound("Transaksi tidak ditemukan")
	}
	return t, nil
}

func (m *memRepo) List(context.Context, int) ([]Transaction, error) { return nil, m.fail }

func (m *memRepo) Between(context.Context, time.Time, time.Time) ([]Transaction, error) {
	return nil, m.fail
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.txs[id]; !ok {
		return apperr.NotFound("Transaksi tidak ditemukan")
	}
	delete(m.txs, id)
	return nil
}

func TestServiceGetAndDelete(t *testing.T) {
	repo := &memRepo{txs: map[string]Transaction{"TRX-1700000000": sample()}}
	svc := &Service{Repo: repo}
	ctx := context.Background()
	admin := auth.Identity{UserID: 5, Username: "Adinda", Role: auth.RoleAdmin}

	got, err := svc.Get(ctx, "TRX-1700000000")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	require.NoError(t, svc.Delete(ctx, admin, "TRX-1700000000"))
	_, err = svc.Get(ctx, "TRX-1700000000")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, "TRX-1700000000"), apperr.ErrNotFound)
}

func TestServiceHidesStoreErrors(t *testing.T) {
	svc := &Service{Repo: &memRepo{fail: errors.New("pq: connection reset")}}

	_, err := svc.Recent(context.Background(), RecentLimit)
	assert.ErrorIs(t, err, apperr.ErrSystem)
	assert.NotContains(t, err.Error(), "connection reset")
}
