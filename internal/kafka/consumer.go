package kafka

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler return nil jika sukses; error akan di-retry, lalu di-skip & di-commit setelah maxAttempts.
type Handler func(ctx context.Context, m kafka.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r           messageReader
	topic       string
	workers     int
	backoff     time.Duration
	maxAttempts int
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, topic, workers)
}

func newConsumer(r messageReader, topic string, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, topic: topic, workers: workers, backoff: 200 * time.Millisecond, maxAttempts: 5}
}

// Start fetches messages and hands them to a pool of workers until ctx ends.
// Every partition is pinned to one worker, so its messages are handled and
// committed in offset order. A failing message is retried with a growing
// backoff; once maxAttempts is used up it is logged and committed so the
// partition moves on. Start returns after every worker has finished.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 4)
		wg.Add(1)
		go func(id int, jobs <-chan kafka.Message) {
			defer wg.Done()
			for m := range jobs {
				if !c.handle(ctx, id, h, m) {
					continue // shutdown: biarkan offset ini dibaca ulang
				}
				if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
					log.Printf("consumer %s worker %d: commit p%d offset %d: %v", c.topic, id, m.Partition, m.Offset, err)
				}
			}
		}(i, lanes[i])
	}

	err := c.dispatch(ctx, lanes)
	for _, l := range lanes {
		close(l)
	}
	wg.Wait()
	return err
}

// handle runs h until it succeeds or the attempts run out. It reports false
// when ctx ended first; such a message must not be committed.
func (c *Consumer) handle(ctx context.Context, worker int, h Handler, m kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if attempt >= c.maxAttempts {
			log.Printf("consumer %s worker %d: p%d offset %d: skipped after %d attempts: %v",
				c.topic, worker, m.Partition, m.Offset, attempt, err)
			return true
		}
		log.Printf("consumer %s worker %d: p%d offset %d: attempt %d: %v", c.topic, worker, m.Partition, m.Offset, attempt, err)
		select {
		case <-time.After(c.backoff * time.Duration(attempt)):
		case <-ctx.Done():
			return false
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, lanes []chan kafka.Message) error {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			// kecilkan noise saat shutdown
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		select {
		case lanes[m.Partition%len(lanes)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}
