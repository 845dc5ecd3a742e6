package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in memory and writes them from one goroutine.
type Producer struct {
	w       messageWriter
	topic   string
	inbox   chan kafka.Message
	stop    chan struct{}
	closeCh chan struct{}
	once    sync.Once
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true, // fire-and-forget untuk throughput; error dilog di Completion
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Printf("kafka producer %s: %d message(s) failed: %v", topic, len(msgs), err)
			}
		},
	}, topic, buf)
}

func newProducer(w messageWriter, topic string, buf int) *Producer {
	if buf <= 0 {
		buf = 1
	}
	return &Producer{
		w:       w,
		topic:   topic,
		inbox:   make(chan kafka.Message, buf),
		stop:    make(chan struct{}),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case <-p.stop:
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// drain flush sisa pesan di buffer lalu tutup writer.
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				log.Printf("kafka producer %s: close: %v", p.topic, err)
			}
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("kafka producer %s: write: %v", p.topic, err)
	}
}

// Publish enqueues a message without blocking. It reports false when the
// producer is closed or its buffer is full.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) bool {
	select {
	case <-p.stop:
		return false
	default:
	}
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return true
	default:
		log.Printf("kafka producer %s: buffer penuh, pesan dibuang", p.topic)
		return false
	}
}

// Close asks the writer goroutine to flush and exit. Safe to call twice.
func (p *Producer) Close() { p.once.Do(func() { close(p.stop) }) }

// Tunggu sampai goroutine selesai.
func (p *Producer) WaitClosed() { <-p.closeCh }
