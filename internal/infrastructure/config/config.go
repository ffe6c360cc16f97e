package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string `env:"JWT_SECRET"`

	// DefaultCommissionRate is the process-wide commission rate applied when
	// a caller does not supply one, as a decimal string in [0,1].
	DefaultCommissionRate string `env:"DEFAULT_COMMISSION_RATE, default=0.10"`

	// ReceiptDir is where generated receipt documents are written.
	ReceiptDir string `env:"RECEIPT_DIR, default=receipts"`

	// ReceiptWorkers is the size of the receipt generation worker pool.
	ReceiptWorkers int `env:"RECEIPT_WORKERS, default=4"`

	// Bootstrap admin seeded at startup when the user store is empty.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=land_registry"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// CommissionRate parses DefaultCommissionRate; malformed or out-of-range
// values fall back to 0.10.
func (c *Config) CommissionRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.DefaultCommissionRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromFloat(0.10)
	}
	return rate
}
