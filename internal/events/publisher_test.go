package events

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	key, value []byte
	headers    []kafkago.Header
}

type fakeSink struct {
	msgs []sent
	full bool
}

func (s *fakeSink) Publish(key, value []byte, headers ...kafkago.Header) bool {
	if s.full {
		return false
	}
	s.msgs = append(s.msgs, sent{key, value, headers})
	return true
}

func TestTransactionCommittedEvent(t *testing.T) {
	sink := &fakeSink{}
	p := &Publisher{Producer: "kasir-api", Transactions: sink}

	tx := ledger.Transaction{
		ID:       "TRX-1792240200",
		Date:     time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC),
		Cashier:  "Haris",
		Subtotal: decimal.NewFromInt(120000),
		Discount: decimal.NewFromInt(12000),
		Total:    decimal.NewFromInt(108000),
		Payment:  decimal.NewFromInt(110000),
		Change:   decimal.NewFromInt(2000),
		Items: []ledger.Item{
			{ProductID: 6, ProductName: "Gacoan Level 6", Price: decimal.NewFromInt(16000), Quantity: 5, Subtotal: decimal.NewFromInt(80000)},
			{ProductID: 3, ProductName: "Gacoan Level 3", Price: decimal.NewFromInt(10000), Quantity: 4, Subtotal: decimal.NewFromInt(40000)},
		},
	}
	p.TransactionCommitted(context.Background(), tx)

	require.Len(t, sink.msgs, 1)
	assert.Equal(t, "TRX-1792240200", string(sink.msgs[0].key))
	assert.Equal(t, "x-event-type", sink.msgs[0].headers[0].Key)
	assert.Equal(t, EventTransactionCommitted, string(sink.msgs[0].headers[0].Value))

	env, payload, err := Decode[TransactionCommittedPayload](sink.msgs[0].value)
	require.NoError(t, err)
	assert.Equal(t, EventTransactionCommitted, env.EventType)
	assert.Equal(t, "Haris", env.Actor)
	assert.Equal(t, "kasir-api", env.Producer)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, tx.ID, payload.Transaction.ID)
	assert.True(t, payload.Transaction.Total.Equal(tx.Total))
	assert.Len(t, payload.Transaction.Items, 2)
	assert.NoError(t, payload.Transaction.Check())
}

func TestProductChangedEvent(t *testing.T) {
	sink := &fakeSink{}
	p := &Publisher{Producer: "kasir-api", Inventory: sink, LowStockThreshold: 10}
	admin := auth.Identity{UserID: 5, Username: "Adinda", Role: auth.RoleAdmin}

	p.ProductChanged(context.Background(), catalog.ActionStockRemoved,
		catalog.Product{ID: 12, Name: "Dimsum Ayam", Price: decimal.NewFromInt(15000), Stock: 4, Category: catalog.CategorySnack}, admin)

	require.Len(t, sink.msgs, 1)
	assert.Equal(t, "12", string(sink.msgs[0].key))
	env, payload, err := Decode[ProductChangedPayload](sink.msgs[0].value)
	require.NoError(t, err)
	assert.Equal(t, "Adinda", env.Actor)
	assert.Equal(t, catalog.ActionStockRemoved, payload.Action)
	assert.Equal(t, "snack", payload.Category)
	assert.True(t, payload.LowStock)
}

func TestPublishIsBestEffort(t *testing.T) {
	p := &Publisher{Producer: "kasir-api", Transactions: &fakeSink{full: true}}
	assert.NotPanics(t, func() {
		p.TransactionCommitted(context.Background(), ledger.Transaction{ID: "TRX-1"})
		p.ProductChanged(context.Background(), catalog.ActionCreated, catalog.Product{ID: 1}, auth.Identity{})
	})
}
