package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "PRICE_SOURCE", "LOW_STOCK_THRESHOLD", "DISCOUNT_RATE", "SESSION_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, PriceSourceCatalog, cfg.PriceSource)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.True(t, cfg.DiscountThreshold.Equal(decimal.NewFromInt(100000)))
	assert.True(t, cfg.DiscountRate.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("PRICE_SOURCE", "CART")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SEED", "false")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, PriceSourceCart, cfg.PriceSource)
	assert.Equal(t, 3, cfg.LowStockThreshold)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.Seed)
}

func TestLocationFallback(t *testing.T) {
	cfg := Config{Timezone: "Nowhere/Atlantis"}
	assert.Equal(t, time.Local, cfg.Location())
}
