package events

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTransactionCommitted = "TransactionCommitted"
	EventProductChanged       = "ProductChanged"

	Version = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g., "kasir-api"
	Actor         string          `json:"actor,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // transaction id atau product id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload in a fresh envelope stamped with a new event id.
func NewEnvelope(eventType, producer, actor, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  Version,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		Actor:         actor,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// ---- Payload tipe per event ----

type TransactionCommittedPayload struct {
	Transaction ledger.Transaction `json:"transaction"`
}

type ProductChangedPayload struct {
	Action    string          `json:"action"` // created | updated | deleted | stock_removed
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	LowStock  bool            `json:"low_stock"`
}
