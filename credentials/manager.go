package credentials

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Provider performs the token-endpoint calls against the identity provider.
// Both calls are single round-trips with a bounded timeout and no internal
// retry.
type Provider interface {
	// ExchangeCode trades an authorization code for a full token pair. The
	// returned record carries no SavedTime; the Manager anchors it.
	ExchangeCode(ctx context.Context, code string) (*Record, error)

	// Refresh obtains a new access token and its declared lifetime. The
	// provider does not reissue the refresh token in this flow, so callers
	// keep the one they have.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, expiresIn int64, err error)
}

// refreshKey is the singleflight key. Single tenant, one record, one key.
const refreshKey = "credential"

// Manager owns the expiry formula and refresh orchestration for the one
// stored credential record.
//
// Any number of requests may observe an expired record at once; Manager
// guarantees at most one provider refresh is in flight, with concurrent
// callers waiting on and sharing its result.
type Manager struct {
	store    Store
	provider Provider
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock sets the time source used for the expiry comparison and the
// saved-time anchor. Tests use this to pin the clock.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a lifecycle manager over the given store and provider.
func NewManager(store Store, provider Provider, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessToken returns a currently valid access token, refreshing first if the
// stored one has expired.
//
// The steady-state fast path (record present and valid) performs zero network
// calls and takes no exclusive lock. Returns ErrNoCredential when nothing is
// stored, a *RejectionError when the provider refuses the refresh (the stored
// record is left untouched), a *TransportError on network failure, and a
// *StorageError when the refreshed record cannot be persisted.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	rec := m.read()
	if rec == nil {
		return "", ErrNoCredential
	}

	if rec.Valid(m.now()) {
		return rec.AccessToken, nil
	}

	token, err, _ := m.group.Do(refreshKey, func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// refresh runs inside the singleflight. It re-reads and re-checks the record
// so a caller that just missed a completed flight reuses its result instead
// of triggering a second provider call.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	rec := m.read()
	if rec == nil {
		return "", ErrNoCredential
	}
	if rec.Valid(m.now()) {
		return rec.AccessToken, nil
	}

	accessToken, expiresIn, err := m.provider.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		// Stored record stays as-is: an expired record on disk just means
		// the next request attempts another refresh.
		m.logger.Warn("token refresh failed", "err", err)
		return "", err
	}

	next := &Record{
		AccessToken:  accessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresIn:    expiresIn,
		SavedTime:    m.now().Unix(),
	}
	if err := m.store.Write(next); err != nil {
		// Persist-before-return: an unwritten refresh result is discarded so
		// the old record on disk triggers another attempt.
		return "", &StorageError{Op: "refresh", Err: err}
	}

	m.logger.Info("access token refreshed", "expires_in", expiresIn)
	return next.AccessToken, nil
}

// CompleteAuthorization finishes the authorization-code flow: exchanges the
// code, anchors the token lifetime to the local clock, and persists the
// resulting record. Provider errors pass through unmodified so the caller can
// report the payload.
func (m *Manager) CompleteAuthorization(ctx context.Context, code string) (*Record, error) {
	rec, err := m.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	rec.SavedTime = m.now().Unix()
	if err := m.store.Write(rec); err != nil {
		return nil, &StorageError{Op: "complete authorization", Err: err}
	}
	m.logger.Info("authorization completed", "expires_in", rec.ExpiresIn)
	return rec, nil
}

// read fails open: a store read error degrades to "no credential" rather than
// surfacing, since the only recovery either way is re-authorization.
func (m *Manager) read() *Record {
	rec, err := m.store.Read()
	if err != nil {
		m.logger.Warn("credential read failed, treating as absent", "err", err)
		return nil
	}
	return rec
}
