package driveway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driveway/driveway/credentials"
	"github.com/driveway/driveway/google"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *Config {
	return &Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURI:  "http://localhost:8000/auth/callback",
		Scope:        "https://www.googleapis.com/auth/drive.file",
		AuthURL:      "https://accounts.google.com/o/oauth2/auth",
		RateLimit:    100,
		RatePeriod:   time.Minute,
	}
}

type fakeManager struct {
	token       string
	tokenErr    error
	completeRec *credentials.Record
	completeErr error
	gotCode     string
}

func (m *fakeManager) AccessToken(context.Context) (string, error) {
	return m.token, m.tokenErr
}

func (m *fakeManager) CompleteAuthorization(_ context.Context, code string) (*credentials.Record, error) {
	m.gotCode = code
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return m.completeRec, nil
}

type fakeAuthProvider struct {
	profile    *google.Profile
	profileErr error
}

func (p *fakeAuthProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (p *fakeAuthProvider) FetchProfile(context.Context, string) (*google.Profile, error) {
	return p.profile, p.profileErr
}

type fakeUploader struct {
	file        *google.File
	err         error
	gotToken    string
	gotFilename string
	gotContent  string
}

func (u *fakeUploader) Upload(_ context.Context, accessToken, filename, content string) (*google.File, error) {
	u.gotToken = accessToken
	u.gotFilename = filename
	u.gotContent = content
	if u.err != nil {
		return nil, u.err
	}
	return u.file, nil
}

func newTestService(m TokenManager, p AuthProvider, u Uploader) *Service {
	return NewService(testConfig(), m, p, u, WithServiceLogger(testLogger()))
}

func TestService_Routing(t *testing.T) {
	svc := newTestService(
		&fakeManager{tokenErr: credentials.ErrNoCredential},
		&fakeAuthProvider{},
		&fakeUploader{},
	)
	handler := svc.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"begin auth", http.MethodGet, "/auth/google", http.StatusFound},
		{"callback without code", http.MethodGet, "/auth/callback", http.StatusBadRequest},
		{"upload unauthenticated", http.MethodPost, "/drive/upload", http.StatusUnauthorized},
		{"upload wrong method", http.MethodGet, "/drive/upload", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/todos", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rr.Code, tt.want)
			}
		})
	}
}
