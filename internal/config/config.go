package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	Port     string
	LogLevel string
	MySQL    MySQLConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Catalog  CatalogConfig
	Orders   OrderConfig
}

type MySQLConfig struct {
	User            string
	Password        string
	Host            string
	Port            string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Enabled reports whether a MySQL host was configured.
func (c MySQLConfig) Enabled() bool { return c.Host != "" }

type RedisConfig struct {
	Host            string
	Port            string
	DB              int
	PoolSize        int
	ProductCacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

type CatalogConfig struct {
	ProductServiceURL string
	Timeout           time.Duration
	// SeedFile is a JSON array of products loaded into the in-memory
	// product table when MySQL is not configured.
	SeedFile string
}

type OrderConfig struct {
	MaxAttempts     int
	RetryBackoff    time.Duration
	NumberTimezone  string
	TxMaxWait       time.Duration
	TxTimeout       time.Duration
	MaxConcurrentTx int64
}

// Location resolves NumberTimezone, falling back to UTC.
func (c OrderConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.NumberTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		MySQL: MySQLConfig{
			Port:            "3306",
			Database:        "cake",
			MaxOpenConns:    100,
			MaxIdleConns:    20,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		Redis: RedisConfig{
			Port:            "6379",
			PoolSize:        50,
			ProductCacheTTL: 5 * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "order.exchange",
		},
		Catalog: CatalogConfig{
			Timeout: 2 * time.Second,
		},
		Orders: OrderConfig{
			MaxAttempts:     10,
			RetryBackoff:    50 * time.Millisecond,
			NumberTimezone:  "UTC",
			TxMaxWait:       2 * time.Second,
			TxTimeout:       5 * time.Second,
			MaxConcurrentTx: 32,
		},
	}
}

// FromEnv overlays environment variables on the defaults.
func FromEnv() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.MySQL.User, "MYSQL_USER")
	setString(&c.MySQL.Password, "MYSQL_PASSWORD")
	setString(&c.MySQL.Host, "MYSQL_HOST")
	setString(&c.MySQL.Port, "MYSQL_PORT")
	setString(&c.MySQL.Database, "MYSQL_DATABASE")
	setInt(&c.MySQL.MaxOpenConns, "MYSQL_MAX_OPEN_CONNS")
	setInt(&c.MySQL.MaxIdleConns, "MYSQL_MAX_IDLE_CONNS")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setInt(&c.Redis.DB, "REDIS_DB")
	setDuration(&c.Redis.ProductCacheTTL, "PRODUCT_CACHE_TTL")

	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")

	setString(&c.Catalog.ProductServiceURL, "PRODUCT_SERVICE_URL")
	setDuration(&c.Catalog.Timeout, "PRODUCT_SERVICE_TIMEOUT")
	setString(&c.Catalog.SeedFile, "PRODUCT_SEED_FILE")

	setInt(&c.Orders.MaxAttempts, "ORDER_NUMBER_MAX_ATTEMPTS")
	setDuration(&c.Orders.RetryBackoff, "ORDER_NUMBER_RETRY_BACKOFF")
	setString(&c.Orders.NumberTimezone, "ORDER_NUMBER_TIMEZONE")
	setDuration(&c.Orders.TxMaxWait, "ORDER_TX_MAX_WAIT")
	setDuration(&c.Orders.TxTimeout, "ORDER_TX_TIMEOUT")
	if v := lookup("ORDER_TX_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Orders.MaxConcurrentTx = n
		}
	}
	return c
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := lookup(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := lookup(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := lookup(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			*dst = d
		}
	}
}
