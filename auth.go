package driveway

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/driveway/driveway/credentials"
)

const stateCookieName = "oauthstate"

// generateStateCookie creates a random nonce, sets it as a short-lived
// cookie, and returns it for inclusion in the consent URL.
func generateStateCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // keep this short, it only spans one consent round-trip
		HttpOnly: true,
	})
	return state, nil
}

// handleBeginAuth redirects the browser to Google's consent screen.
func (s *Service) handleBeginAuth(w http.ResponseWriter, r *http.Request) {
	state, err := generateStateCookie(w)
	if err != nil {
		s.logger.Error("begin auth failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not start authorization"})
		return
	}
	http.Redirect(w, r, s.provider.AuthCodeURL(state), http.StatusFound)
}

// handleAuthCallback completes the authorization-code flow: validates the
// callback, exchanges the code, persists the credential, and greets the user
// with their (best-effort) profile name.
func (s *Service) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing authorization code"})
		return
	}

	if cookie, err := r.Cookie(stateCookieName); err == nil {
		if got := r.URL.Query().Get("state"); got != cookie.Value {
			http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid oauth state"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})
	}

	rec, err := s.manager.CompleteAuthorization(r.Context(), code)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}

	// Profile fetch is informational; a failure never fails the login.
	name := "User"
	if prof, err := s.provider.FetchProfile(r.Context(), rec.AccessToken); err != nil {
		s.logger.Warn("profile fetch failed", "err", err)
	} else if prof.Name != "" {
		name = prof.Name
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Login Successful!\nWelcome %s!\nTokens saved.\n", name)
}

// writeAuthError maps credential-layer failures from the code exchange onto
// bounded HTTP responses. Provider rejections carry the provider's payload
// through unmodified.
func (s *Service) writeAuthError(w http.ResponseWriter, err error) {
	var rej *credentials.RejectionError
	if errors.As(err, &rej) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": rej.Payload()})
		return
	}
	var se *credentials.StorageError
	if errors.As(err, &se) {
		s.logger.Error("failed to persist credential", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save credentials"})
		return
	}
	s.logger.Error("code exchange failed", "err", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "could not reach the identity provider"})
}
