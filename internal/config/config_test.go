package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Server.Port)
	}
	if cfg.Gateway.AnonymousTTL != 10*time.Minute {
		t.Errorf("expected 10m anonymous TTL, got %v", cfg.Gateway.AnonymousTTL)
	}
	if cfg.Gateway.AuthenticatedTTL != 120*time.Minute {
		t.Errorf("expected 120m authenticated TTL, got %v", cfg.Gateway.AuthenticatedTTL)
	}
	if cfg.Kafka.Topic != "notifications" {
		t.Errorf("expected default topic notifications, got %q", cfg.Kafka.Topic)
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		t.Error("expected default allowed origins")
	}
}

func TestLoadConfigIsSingleton(t *testing.T) {
	first, _ := LoadConfig()
	second, _ := LoadConfig()
	if first != second {
		t.Error("LoadConfig should return the same instance")
	}
}
