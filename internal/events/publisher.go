package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	kafkago "github.com/segmentio/kafka-go"
)

// Sink accepts an encoded message for asynchronous delivery.
type Sink interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

// Publisher turns committed transactions and inventory changes into events.
// Delivery is best effort: a failure is logged and never reaches the caller,
// whose change is already stored.
type Publisher struct {
	Producer          string
	Transactions      Sink
	Inventory         Sink
	LowStockThreshold int
}

func (p *Publisher) TransactionCommitted(_ context.Context, t ledger.Transaction) {
	p.send(p.Transactions, EventTransactionCommitted, t.Cashier, t.ID, TransactionCommittedPayload{Transaction: t})
}

func (p *Publisher) ProductChanged(_ context.Context, action string, pr catalog.Product, actor auth.Identity) {
	id := strconv.FormatInt(pr.ID, 10)
	p.send(p.Inventory, EventProductChanged, actor.Username, id, ProductChangedPayload{
		Action:    action,
		ProductID: pr.ID,
		Name:      pr.Name,
		Price:     pr.Price,
		Stock:     pr.Stock,
		Category:  string(pr.Category),
		LowStock:  action != catalog.ActionDeleted && pr.Stock <= p.LowStockThreshold,
	})
}

func (p *Publisher) send(sink Sink, eventType, actor, key string, payload any) {
	if sink == nil {
		return
	}
	env, err := NewEnvelope(eventType, p.Producer, actor, key, payload)
	if err != nil {
		log.Printf("events: encode %s %s: %v", eventType, key, err)
		return
	}
	b, err := json.Marshal(env)
	if err != nil {
		log.Printf("events: encode %s %s: %v", eventType, key, err)
		return
	}
	if !sink.Publish(PartitionKey(key), b,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(Version))},
	) {
		log.Printf("events: %s %s dropped", eventType, key)
	}
}

// Decode reads an envelope and its payload of type T.
func Decode[T any](b []byte) (Envelope, T, error) {
	var env Envelope
	var t T
	if err := json.Unmarshal(b, &env); err != nil {
		return env, t, err
	}
	if err := json.Unmarshal(env.Payload, &t); err != nil {
		return env, t, err
	}
	return env, t, nil
}
