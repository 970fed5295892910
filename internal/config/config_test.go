package config_test

import (
	"testing"
	"time"

	"sixshop/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CATALOG_TIMEOUT", "")
	cfg := config.Load()
	if cfg.Port != "8080" {
		t.Fatalf("want default port 8080, got %q", cfg.Port)
	}
	if cfg.StoreBackend != config.BackendSQLite {
		t.Fatalf("want sqlite backend, got %q", cfg.StoreBackend)
	}
	if cfg.CatalogTTL != 10*time.Second {
		t.Fatalf("want 10s catalog timeout, got %s", cfg.CatalogTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9099")
	t.Setenv("ENCRYPTION_KEY", "s3cret")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("SESSION_IDLE", "15m")
	cfg := config.Load()
	if cfg.Port != "9099" || cfg.EncryptionKey != "s3cret" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.StoreBackend != config.BackendRedis {
		t.Fatalf("want redis backend, got %q", cfg.StoreBackend)
	}
	if cfg.SessionIdle != 15*time.Minute {
		t.Fatalf("want 15m idle, got %s", cfg.SessionIdle)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "floppy")
	t.Setenv("CATALOG_TIMEOUT", "soon")
	cfg := config.Load()
	if cfg.StoreBackend != config.BackendSQLite {
		t.Fatalf("unknown backend should fall back to sqlite, got %q", cfg.StoreBackend)
	}
	if cfg.CatalogTTL != 10*time.Second {
		t.Fatalf("bad duration should fall back, got %s", cfg.CatalogTTL)
	}
}
