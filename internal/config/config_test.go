package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.ProductsFile != "data/products.json" {
		t.Fatalf("expected default products file, got %q", cfg.ProductsFile)
	}
	if cfg.MirrorFile != "data/products-data.js" {
		t.Fatalf("expected default mirror file, got %q", cfg.MirrorFile)
	}
	if cfg.UploadDir != "images/uploaded" {
		t.Fatalf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PRODUCTS_FILE", "/tmp/p.json")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "30")

	cfg := FromEnv()

	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.ProductsFile != "/tmp/p.json" {
		t.Fatalf("expected /tmp/p.json, got %q", cfg.ProductsFile)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected 30s, got %s", cfg.ShutdownTimeout)
	}
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	if got := FromEnv().ShutdownTimeout; got != 10*time.Second {
		t.Fatalf("expected default on bad value, got %s", got)
	}
}
