package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	got    []kafka.Message
	closed bool
	gate   chan struct{}
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.got = append(w.got, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.got)
}

func TestProducerFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "transaction.committed", 16)
	p.Start(context.Background())

	for _, k := range []string{"TRX-1", "TRX-2", "TRX-3"} {
		assert.True(t, p.Publish([]byte(k), []byte("{}")))
	}
	p.Close()
	p.Close()
	p.WaitClosed()

	assert.Equal(t, 3, w.count())
	assert.True(t, w.closed)
	assert.Equal(t, "TRX-1", string(w.got[0].Key))
	assert.False(t, p.Publish([]byte("TRX-4"), []byte("{}")), "publish after close is refused")
}

func TestProducerDropsWhenFull(t *testing.T) {
	w := &fakeWriter{gate: make(chan struct{})}
	p := newProducer(w, "inventory.product", 1)
	p.Start(context.Background())

	// first message is taken by the writer goroutine and blocks on the gate
	require.True(t, p.Publish([]byte("1"), nil))
	require.Eventually(t, func() bool { return len(p.inbox) == 0 }, time.Second, time.Millisecond)
	require.True(t, p.Publish([]byte("2"), nil))
	assert.False(t, p.Publish([]byte("3"), nil))

	close(w.gate)
	p.Close()
	p.WaitClosed()
	assert.Equal(t, 2, w.count())
}

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *fakeReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func feed(r *fakeReader, partition int, offsets ...int64) {
	for _, off := range offsets {
		r.msgs <- kafka.Message{Partition: partition, Offset: off}
	}
}

// run starts c in the background and returns a stop func that cancels it and
// waits for Start to return.
func run(t *testing.T, c *Consumer, h Handler) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func TestConsumerRetriesBeforeCommit(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 8)}
	feed(r, 0, 0, 1, 2, 3)
	c := newConsumer(r, "transaction.committed", 2)
	c.backoff = 0

	var mu sync.Mutex
	tries := map[int64]int{}
	stop := run(t, c, func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		tries[m.Offset]++
		if m.Offset == 2 && tries[m.Offset] < 3 {
			return errors.New("render failed")
		}
		return nil
	})

	require.Eventually(t, func() bool { return r.commits() == 4 }, time.Second, time.Millisecond)
	stop()

	assert.Equal(t, []int64{0, 1, 2, 3}, r.offsets(), "one partition commits in offset order")
	assert.Equal(t, 3, tries[2])
	assert.Equal(t, 1, tries[3])
	assert.True(t, r.closed)
}

func TestConsumerSkipsAfterMaxAttempts(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 8)}
	feed(r, 0, 0, 1, 2)
	c := newConsumer(r, "transaction.committed", 1)
	c.backoff = 0
	c.maxAttempts = 3

	var mu sync.Mutex
	tries := 0
	stop := run(t, c, func(_ context.Context, m kafka.Message) error {
		if m.Offset != 1 {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		tries++
		return errors.New("bad payload")
	})

	require.Eventually(t, func() bool { return r.commits() == 3 }, time.Second, time.Millisecond)
	stop()

	assert.Equal(t, []int64{0, 1, 2}, r.offsets())
	assert.Equal(t, 3, tries)
}

func TestConsumerPartitionsDoNotBlockEachOther(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 8)}
	feed(r, 0, 10)
	feed(r, 1, 20)
	c := newConsumer(r, "transaction.committed", 2)

	other := make(chan struct{})
	stop := run(t, c, func(_ context.Context, m kafka.Message) error {
		if m.Partition == 0 {
			<-other
			return nil
		}
		close(other)
		return nil
	})

	require.Eventually(t, func() bool { return r.commits() == 2 }, time.Second, time.Millisecond)
	stop()
	assert.ElementsMatch(t, []int64{10, 20}, r.offsets())
}

func TestConsumerShutdownLeavesFailedMessageUncommitted(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 8)}
	feed(r, 0, 0)
	c := newConsumer(r, "transaction.committed", 1)
	c.backoff = time.Hour

	attempted := make(chan struct{}, 1)
	stop := run(t, c, func(context.Context, kafka.Message) error {
		select {
		case attempted <- struct{}{}:
		default:
		}
		return errors.New("disk full")
	})

	<-attempted
	stop()
	assert.Empty(t, r.offsets())
	assert.True(t, r.closed)
}
