package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.CartKey != "tecnoCart" || cfg.CatalogKey != "tecnoProducts" {
		t.Fatalf("unexpected storage keys: %q %q", cfg.CartKey, cfg.CatalogKey)
	}
	if cfg.HandoffPhone != "+256776766643" {
		t.Fatalf("unexpected hand-off phone %q", cfg.HandoffPhone)
	}
	if cfg.PromoDuration != 72*time.Hour {
		t.Fatalf("expected 72h promo, got %s", cfg.PromoDuration)
	}
	if cfg.CartIdleTimeout != 30*time.Minute || cfg.CartSweepSchedule != "@every 5m" {
		t.Fatalf("unexpected cart sweep settings: %s %q", cfg.CartIdleTimeout, cfg.CartSweepSchedule)
	}
	if cfg.StoreDriver != "bolt" {
		t.Fatalf("expected bolt driver, got %q", cfg.StoreDriver)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("HANDOFF_BASE_URL", "https://example.test/")

	cfg := FromEnv()

	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.StoreDriver != "redis" {
		t.Fatalf("expected lower-cased driver, got %q", cfg.StoreDriver)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.HandoffBaseURL != "https://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.HandoffBaseURL)
	}
}
