package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != ":8081" {
		t.Errorf("ListenAddr = %q, want :8081", cfg.ListenAddr)
	}
	if cfg.FeedVideoEvery != 4 {
		t.Errorf("FeedVideoEvery = %d, want 4", cfg.FeedVideoEvery)
	}
	if cfg.FeedCacheTTL != 30*time.Second {
		t.Errorf("FeedCacheTTL = %v, want 30s", cfg.FeedCacheTTL)
	}
	if cfg.FeedLookaheadHrs != 168 {
		t.Errorf("FeedLookaheadHrs = %d, want 168", cfg.FeedLookaheadHrs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("LISTEN_ADDR", ":9090")
	os.Setenv("FEED_VIDEO_EVERY", "6")
	os.Setenv("JWT_EXPIRY", "2h")
	os.Setenv("REDIS_DB", "3")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.FeedVideoEvery != 6 {
		t.Errorf("FeedVideoEvery = %d, want 6", cfg.FeedVideoEvery)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("FEED_PAGE_SIZE", "not-a-number")
	os.Setenv("SHUTDOWN_TIMEOUT", "soon")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.FeedPageSize != 20 {
		t.Errorf("FeedPageSize = %d, want fallback 20", cfg.FeedPageSize)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want fallback 10s", cfg.ShutdownTimeout)
	}
}
