package driveway

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "csecret")
	t.Setenv("REDIRECT_URI", "http://localhost:8000/auth/callback")
	t.Setenv("SCOPE", "https://www.googleapis.com/auth/drive.file")
	t.Setenv("AUTH_URL", "https://accounts.google.com/o/oauth2/auth")
	t.Setenv("TOKEN_FILE", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("RATE_PERIOD", "")
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.ClientID != "cid" || cfg.ClientSecret != "csecret" {
		t.Errorf("client settings = %q/%q", cfg.ClientID, cfg.ClientSecret)
	}
	if cfg.TokenFile != DefaultTokenFile {
		t.Errorf("TokenFile = %q, want %q", cfg.TokenFile, DefaultTokenFile)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.RateLimit != DefaultRateLimit || cfg.RatePeriod != DefaultRatePeriod {
		t.Errorf("rate settings = %d/%v", cfg.RateLimit, cfg.RatePeriod)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_FILE", "/var/lib/driveway/tokens.json")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_PERIOD", "30")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.TokenFile != "/var/lib/driveway/tokens.json" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RateLimit != 10 || cfg.RatePeriod != 30*time.Second {
		t.Errorf("rate settings = %d/%v", cfg.RateLimit, cfg.RatePeriod)
	}
}

func TestConfigFromEnv_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("SCOPE", "")

	_, err := ConfigFromEnv()
	if err == nil {
		t.Fatal("ConfigFromEnv succeeded with missing settings")
	}
	for _, name := range []string{"GOOGLE_CLIENT_SECRET", "SCOPE"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
}

func TestConfigFromEnv_InvalidRateLimit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT", "zero")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("ConfigFromEnv accepted a non-numeric RATE_LIMIT")
	}
}
