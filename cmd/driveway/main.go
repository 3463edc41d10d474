// Command driveway runs the OAuth2 gateway: Google login, credential
// persistence with on-demand refresh, and Drive uploads.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/driveway/driveway"
	"github.com/driveway/driveway/credentials"
	"github.com/driveway/driveway/credentials/stores/fs"
	"github.com/driveway/driveway/google"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := driveway.ConfigFromEnv()
	if err != nil {
		logger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: google.DefaultTimeout}
	provider := google.NewProvider(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI, cfg.Scope,
		google.WithAuthURL(cfg.AuthURL),
		google.WithHTTPClient(httpClient),
		google.WithLogger(logger),
	)

	store := fs.New(cfg.TokenFile)
	manager := credentials.NewManager(store, provider, credentials.WithLogger(logger))
	uploader := google.NewDriveClient(google.WithDriveLogger(logger))

	svc := driveway.NewService(cfg, manager, provider, uploader, driveway.WithServiceLogger(logger))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("driveway listening", "addr", cfg.ListenAddr, "token_file", store.Path())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
