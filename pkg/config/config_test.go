package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SRISAWAT_APP_ENV", "dev")
	t.Setenv("SRISAWAT_APP_PORT", "8080")
	t.Setenv("SRISAWAT_JWT_SECRET", "secret")
	t.Setenv("SRISAWAT_JWT_ISSUER", "srisawat-pos")
}

func TestLoadBuildsDSNFromParts(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SRISAWAT_DB_HOST", "localhost")
	t.Setenv("SRISAWAT_DB_USER", "pos")
	t.Setenv("SRISAWAT_DB_PASSWORD", "p@ss word")
	t.Setenv("SRISAWAT_DB_NAME", "srisawat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.DB.DSN, "postgres://pos:") {
		t.Fatalf("unexpected dsn: %s", cfg.DB.DSN)
	}
	if !strings.Contains(cfg.DB.DSN, "sslmode=disable") {
		t.Fatalf("expected sslmode in dsn: %s", cfg.DB.DSN)
	}
	if !strings.Contains(cfg.DB.DSN, "localhost:5432") {
		t.Fatalf("expected default port in dsn: %s", cfg.DB.DSN)
	}
}

func TestLoadMissingDBConfigFails(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SRISAWAT_DB_DSN", "")
	t.Setenv("SRISAWAT_DB_HOST", "")
	t.Setenv("SRISAWAT_DB_USER", "")
	t.Setenv("SRISAWAT_DB_NAME", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when neither DSN nor parts are set")
	}
}

func TestLoadExplicitDSNWins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SRISAWAT_DB_DSN", "postgres://pos@db/srisawat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://pos@db/srisawat" {
		t.Fatalf("dsn overwritten: %s", cfg.DB.DSN)
	}
}

func TestPOSDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SRISAWAT_DB_DSN", "postgres://pos@db/srisawat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.POS.DefaultMarkupPercent != 20 {
		t.Fatalf("expected default markup 20, got %d", cfg.POS.DefaultMarkupPercent)
	}
	if cfg.POS.LowStockThreshold != 5 {
		t.Fatalf("expected low stock threshold 5, got %d", cfg.POS.LowStockThreshold)
	}
}
