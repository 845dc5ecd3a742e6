package receipt

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/events"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/ariefcatur/go-kasir-pos.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer renders a PDF into Dir for every committed transaction event.
type Writer struct {
	Redis       redis.Cmdable
	Dir         string
	Location    *time.Location
	ServiceName string
}

// HandleTransactionCommitted: dipasang sebagai handler consumer.
func (w *Writer) HandleTransactionCommitted(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope + payload
	env, p, err := events.Decode[events.TransactionCommittedPayload](m.Value)
	if err != nil {
		// pesan rusak tidak akan pernah sukses, commit saja
		log.Printf("receipts: skip offset %d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != events.EventTransactionCommitted {
		return nil
	}

	// 2) dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, w.ServiceName, env.EventID)
	claimed, err := redisx.Claim(ctx, w.Redis, dkey, "1", redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	// 3) render; lepas klaim dedup kalau gagal supaya bisa diulang
	path, err := w.Write(p.Transaction)
	if err != nil {
		_ = w.Redis.Del(ctx, dkey).Err()
		return err
	}
	log.Printf("receipts: %s -> %s", p.Transaction.ID, path)
	return nil
}

// Write renders t to Dir and returns the file path.
func (w *Writer) Write(t ledger.Transaction) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, filepath.Base(FileName(t.ID)))
	tmp, err := os.CreateTemp(w.Dir, ".receipt-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := RenderPDF(tmp, Build(t, w.Location)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("render %s: %w", t.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return path, os.Rename(tmp.Name(), path)
}
