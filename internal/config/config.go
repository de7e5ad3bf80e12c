package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the environment surface the ledger consumes. A .env file is
// honored when present; real environment variables win either way.
type Config struct {
	// MaxAmount caps a single deposit or transfer, in minor units.
	MaxAmount int64
	// IDRetries bounds account-number generation collision retries.
	IDRetries int
	// DataFile is the JSON store path, used when DatabaseURL is empty.
	DataFile string
	// DatabaseURL selects the Postgres store when set.
	DatabaseURL string
	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string
}

func Load() *Config {
	// .env is optional; production deployments set real env vars
	_ = godotenv.Load()

	return &Config{
		MaxAmount:    envInt64("MAX_AMOUNT", 7_000_000),
		IDRetries:    int(envInt64("ID_MAX_RETRIES", 10)),
		DataFile:     Env("DATA_FILE", "accounts.json"),
		DatabaseURL:  Env("DATABASE_URL", ""),
		KafkaBrokers: envList("KAFKA_BROKERS"),
	}
}

// Env returns the variable's value, or fallback when unset.
func Env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := strings.TrimSpace(Env(key, ""))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
