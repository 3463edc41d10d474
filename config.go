package driveway

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the optional configuration surface.
const (
	DefaultTokenFile  = "tokens.json"
	DefaultListenAddr = ":8000"
	DefaultRateLimit  = 2
	DefaultRatePeriod = 60 * time.Second
)

// Config is the environment-supplied configuration. The OAuth client
// settings are required; everything else has defaults.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	AuthURL      string

	TokenFile  string
	ListenAddr string
	RateLimit  int
	RatePeriod time.Duration
}

// ConfigFromEnv reads configuration from the environment. A missing required
// variable is a startup-fatal condition: the returned error names every
// absent variable so the operator fixes them in one pass.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("REDIRECT_URI"),
		Scope:        os.Getenv("SCOPE"),
		AuthURL:      os.Getenv("AUTH_URL"),
		TokenFile:    os.Getenv("TOKEN_FILE"),
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		RateLimit:    DefaultRateLimit,
		RatePeriod:   DefaultRatePeriod,
	}

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"GOOGLE_CLIENT_ID", cfg.ClientID},
		{"GOOGLE_CLIENT_SECRET", cfg.ClientSecret},
		{"REDIRECT_URI", cfg.RedirectURI},
		{"SCOPE", cfg.Scope},
		{"AUTH_URL", cfg.AuthURL},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: must be a positive integer", v)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("RATE_PERIOD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_PERIOD %q: must be a positive number of seconds", v)
		}
		cfg.RatePeriod = time.Duration(n) * time.Second
	}

	return cfg, nil
}
