package driveway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/driveway/driveway/credentials"
	"github.com/driveway/driveway/google"
)

// TokenManager is the credential lifecycle surface the handlers consume.
// Satisfied by *credentials.Manager.
type TokenManager interface {
	AccessToken(ctx context.Context) (string, error)
	CompleteAuthorization(ctx context.Context, code string) (*credentials.Record, error)
}

// AuthProvider builds consent URLs and fetches the optional profile.
// Satisfied by *google.Provider.
type AuthProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, accessToken string) (*google.Profile, error)
}

// Uploader performs the downstream Drive upload. Satisfied by
// *google.DriveClient.
type Uploader interface {
	Upload(ctx context.Context, accessToken, filename, content string) (*google.File, error)
}

// Service wires the credential core to the HTTP surface.
type Service struct {
	manager  TokenManager
	provider AuthProvider
	uploader Uploader
	limiter  *RateLimiter
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets a custom logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService assembles the gateway. The rate limiter is owned by the service
// and scoped to its lifetime.
func NewService(cfg *Config, manager TokenManager, provider AuthProvider, uploader Uploader, opts ...ServiceOption) *Service {
	s := &Service{
		manager:  manager,
		provider: provider,
		uploader: uploader,
		limiter:  NewRateLimiter(cfg.RateLimit, cfg.RatePeriod),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler with logging and rate limiting in
// front of every endpoint. The handlers themselves do not depend on the
// middleware being present.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(RequestLogger(s.logger))
	r.Use(s.limiter.Middleware())
	r.HandleFunc("/auth/google", s.handleBeginAuth).Methods(http.MethodGet)
	r.HandleFunc("/auth/callback", s.handleAuthCallback).Methods(http.MethodGet)
	r.HandleFunc("/drive/upload", s.handleDriveUpload).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}
