package main

import (
	"context"
	"github.com/ariefcatur/go-kasir-pos.git/internal/analytics"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
	"github.com/ariefcatur/go-kasir-pos.git/internal/checkout"
	"github.com/ariefcatur/go-kasir-pos.git/internal/config"
	"github.com/ariefcatur/go-kasir-pos.git/internal/events"
	"github.com/ariefcatur/go-kasir-pos.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-kasir-pos.git/internal/kafka"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/ariefcatur/go-kasir-pos.git/internal/postgres"
	"github.com/ariefcatur/go-kasir-pos.git/internal/redisx"
	"github.com/ariefcatur/go-kasir-pos.git/internal/report"
	"github.com/joho/godotenv"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if cfg.Seed {
		if err := postgres.Seed(ctx, db); err != nil {
			log.Fatalf("db seed: %v", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: transaksi & inventory (dua topic berbeda)
	pTrx := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicTransactionCommitted, 1024)
	pTrx.Start(ctx)
	pInv := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicInventoryProduct, 1024)
	pInv.Start(ctx)
	pub := &events.Publisher{
		Producer:          cfg.ServiceName,
		Transactions:      pTrx,
		Inventory:         pInv,
		LowStockThreshold: cfg.LowStockThreshold,
	}

	// Services
	loc := cfg.Location()
	ledgerRepo := &ledger.Repo{DB: db}
	ledgerSvc := &ledger.Service{Repo: ledgerRepo}
	userRepo := &auth.Repo{DB: db}
	agg := &analytics.Aggregator{Source: &analytics.Repo{DB: db}, Location: loc}
	api := &httpx.API{
		Catalog: &catalog.Service{
			Repo:              &catalog.Repo{DB: db},
			Refs:              ledgerRepo,
			Publisher:         pub,
			LowStockThreshold: cfg.LowStockThreshold,
		},
		Checkout: &checkout.Engine{
			Store:       &checkout.PgStore{DB: db},
			Pricing:     checkout.Pricing{Threshold: cfg.DiscountThreshold, Rate: cfg.DiscountRate},
			PriceSource: cfg.PriceSource,
			Publisher:   pub,
		},
		Pricing:   checkout.Pricing{Threshold: cfg.DiscountThreshold, Rate: cfg.DiscountRate},
		Ledger:    ledgerSvc,
		Analytics: agg,
		Reports:   &report.Exporter{Transactions: ledgerSvc, Categories: agg, Location: loc},
		Users:     &auth.Service{Repo: userRepo},
		Sessions: &auth.SessionStore{
			Redis:  rdb,
			Secret: []byte(cfg.SessionSecret),
			TTL:    cfg.SessionTTL,
			Users:  userRepo,
		},
		Redis:      rdb,
		Location:   loc,
		SessionTTL: cfg.SessionTTL,
	}
	router := httpx.NewRouter()
	api.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s (price source: %s, tz: %s)", cfg.HTTPAddr, cfg.PriceSource, loc)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pTrx.Close() // flush & close writer
	pInv.Close()
	pTrx.WaitClosed()
	pInv.WaitClosed()
}
