package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	EncryptionKey string
	StoreBackend  string
	RedisURL      string
	CatalogURL    string
	CatalogSeed   string
	CatalogTTL    time.Duration
	SessionIdle   time.Duration
	TemplatesDir  string
}

// Load reads configuration from the environment, falling back to an
// optional .env file in the working directory and then to defaults.
func Load() Config {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] could not read .env: %v", err)
		}
	}

	cfg := Config{
		Port:          get(v, "PORT", "8080"),
		DBDSN:         get(v, "DB_DSN", "sixshop.db"), // sqlite file in project root
		LogFile:       get(v, "LOG_FILE", "./sixshop.log"),
		EncryptionKey: get(v, "ENCRYPTION_KEY", ""),
		StoreBackend:  get(v, "STORE_BACKEND", BackendSQLite),
		RedisURL:      get(v, "REDIS_URL", "redis://localhost:6379/0"),
		CatalogURL:    get(v, "CATALOG_URL", "https://fakestoreapi.com/products"),
		CatalogSeed:   get(v, "CATALOG_SEED", ""),
		CatalogTTL:    duration(v, "CATALOG_TIMEOUT", 10*time.Second),
		SessionIdle:   duration(v, "SESSION_IDLE", 2*time.Hour),
		TemplatesDir:  get(v, "TEMPLATES_DIR", "./web/templates"),
	}
	switch cfg.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		log.Printf("[config] unknown STORE_BACKEND=%q, using %s", cfg.StoreBackend, BackendSQLite)
		cfg.StoreBackend = BackendSQLite
	}

	log.Printf("[config] PORT=%s DB_DSN=%s STORE_BACKEND=%s CATALOG_URL=%s CATALOG_SEED=%s LOG_FILE=%s ENCRYPTION_KEY=%s",
		cfg.Port, cfg.DBDSN, cfg.StoreBackend, cfg.CatalogURL, cfg.CatalogSeed, cfg.LogFile, redact(cfg.EncryptionKey))
	return cfg
}

func get(v *viper.Viper, key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			return s
		}
	}
	return def
}

func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := get(v, key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[config] bad %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func redact(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "<set>"
}
