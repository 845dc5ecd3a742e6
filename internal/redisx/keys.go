package redisx

import "time"

const (
	// Session login: session:{sid} -> hash {user_id, username, role}
	KeySession = "session:%s"

	// Idempotency checkout: idem:checkout:{user_id}:{idempotency_key} -> transaction_id
	KeyIdemCheckout = "idem:checkout:%d:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
