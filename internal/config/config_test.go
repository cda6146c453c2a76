package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MYSQL_HOST", "REDIS_HOST", "RABBITMQ_URL", "ORDER_NUMBER_MAX_ATTEMPTS"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.MySQL.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, 10, cfg.Orders.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Orders.RetryBackoff)
	assert.Equal(t, time.UTC, cfg.Orders.Location())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("PRODUCT_CACHE_TTL", "30s")
	t.Setenv("ORDER_NUMBER_MAX_ATTEMPTS", "5")
	t.Setenv("ORDER_NUMBER_RETRY_BACKOFF", "10ms")
	t.Setenv("ORDER_NUMBER_TIMEZONE", "Asia/Seoul")
	t.Setenv("ORDER_TX_MAX_CONCURRENT", "8")
	t.Setenv("PRODUCT_SEED_FILE", "/etc/cake/products.json")

	cfg := FromEnv()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.MySQL.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 30*time.Second, cfg.Redis.ProductCacheTTL)
	assert.Equal(t, 5, cfg.Orders.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Orders.RetryBackoff)
	assert.Equal(t, "Asia/Seoul", cfg.Orders.Location().String())
	assert.Equal(t, int64(8), cfg.Orders.MaxConcurrentTx)
	assert.Equal(t, "/etc/cake/products.json", cfg.Catalog.SeedFile)
}

func TestFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("ORDER_NUMBER_MAX_ATTEMPTS", "many")
	t.Setenv("ORDER_TX_TIMEOUT", "soon")
	t.Setenv("ORDER_TX_MAX_CONCURRENT", "-1")
	t.Setenv("ORDER_NUMBER_TIMEZONE", "Nowhere/Special")

	cfg := FromEnv()

	assert.Equal(t, 10, cfg.Orders.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Orders.TxTimeout)
	assert.Equal(t, int64(32), cfg.Orders.MaxConcurrentTx)
	assert.Equal(t, time.UTC, cfg.Orders.Location())
}
