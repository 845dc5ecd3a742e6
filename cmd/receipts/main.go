package main

import (
	"context"
	"github.com/ariefcatur/go-kasir-pos.git/internal/config"
	"github.com/ariefcatur/go-kasir-pos.git/internal/events"
	kafkax "github.com/ariefcatur/go-kasir-pos.git/internal/kafka"
	"github.com/ariefcatur/go-kasir-pos.git/internal/receipt"
	"github.com/ariefcatur/go-kasir-pos.git/internal/redisx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis (dedup event)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	w := &receipt.Writer{
		Redis:       rdb,
		Dir:         cfg.ReceiptDir,
		Location:    cfg.Location(),
		ServiceName: cfg.ReceiptsGroup,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ReceiptsGroup, events.TopicTransactionCommitted, cfg.ReceiptsWorkers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("receipts consumer started: group=%s topic=%s workers=%d dir=%s",
			cfg.ReceiptsGroup, events.TopicTransactionCommitted, cfg.ReceiptsWorkers, cfg.ReceiptDir)
		return cons.Start(gctx, w.HandleTransactionCommitted)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("consumer exit: %v", err)
	}
	log.Println("receipts consumer stopped")
}
