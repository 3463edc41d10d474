// Package google talks to Google's OAuth2 and resource endpoints: the token
// exchanges behind the credential lifecycle, the optional userinfo lookup,
// and the Drive upload the gateway performs on the user's behalf.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/driveway/driveway/credentials"
)

// DefaultTimeout bounds every provider round-trip. A hung token endpoint
// surfaces as a transport failure instead of a stuck request.
const DefaultTimeout = 30 * time.Second

// Profile is the subset of the userinfo response the gateway cares about.
// Informational only; nothing downstream depends on it.
type Profile struct {
	Name    string
	Email   string
	Picture string
}

// Provider performs stateless HTTP calls against Google's authorization,
// token, and userinfo endpoints. It keeps no credential state of its own.
type Provider struct {
	conf         *oauth2.Config
	client       *http.Client
	logger       *slog.Logger
	userinfoOpts []option.ClientOption
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithHTTPClient sets the HTTP client used for token and userinfo calls.
// The client's timeout bounds each round-trip.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithAuthURL overrides the authorization endpoint.
func WithAuthURL(authURL string) ProviderOption {
	return func(p *Provider) {
		p.conf.Endpoint.AuthURL = authURL
	}
}

// WithTokenURL overrides the token endpoint.
func WithTokenURL(tokenURL string) ProviderOption {
	return func(p *Provider) {
		p.conf.Endpoint.TokenURL = tokenURL
	}
}

// WithUserinfoOptions appends extra client options for the userinfo service.
func WithUserinfoOptions(opts ...option.ClientOption) ProviderOption {
	return func(p *Provider) {
		p.userinfoOpts = append(p.userinfoOpts, opts...)
	}
}

// NewProvider creates a provider for the given OAuth2 client. Scope is the
// space-delimited scope string from configuration.
func NewProvider(clientID, clientSecret, redirectURL, scope string, opts ...ProviderOption) *Provider {
	p := &Provider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     googleoauth.Endpoint,
		},
		client: &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthCodeURL builds the consent URL. access_type=offline and prompt=consent
// force Google to issue a refresh token on every login.
func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode trades an authorization code for the initial token pair.
// Expected provider rejections (expired code, redirect mismatch) come back as
// a *credentials.RejectionError carrying the provider's payload.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (*credentials.Record, error) {
	tok, err := p.conf.Exchange(p.httpContext(ctx), code)
	if err != nil {
		return nil, classify("code exchange", err)
	}
	return &credentials.Record{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    lifetime(tok),
	}, nil
}

// Refresh obtains a new access token for the given refresh token. Google does
// not reissue the refresh token in this flow; anything it might send in the
// response is ignored and the caller keeps the original.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	src := p.conf.TokenSource(p.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return "", 0, classify("refresh", err)
	}
	return tok.AccessToken, lifetime(tok), nil
}

// FetchProfile fetches the user's profile with the given access token. Best
// effort: callers log a failure and move on, it never fails an authorization.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}, p.userinfoOpts...)

	svc, err := oauth2v2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	return &Profile{Name: info.Name, Email: info.Email, Picture: info.Picture}, nil
}

// httpContext injects the provider's HTTP client so x/oauth2 uses our
// timeout instead of http.DefaultClient.
func (p *Provider) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.client)
}

// lifetime extracts the declared token lifetime in seconds, falling back to
// the computed expiry when the response omitted expires_in.
func lifetime(tok *oauth2.Token) int64 {
	if tok.ExpiresIn > 0 {
		return tok.ExpiresIn
	}
	if !tok.Expiry.IsZero() {
		if secs := int64(time.Until(tok.Expiry).Seconds()); secs > 0 {
			return secs
		}
	}
	return 0
}

// classify maps x/oauth2 failures onto the credential error taxonomy: a
// structured token-endpoint rejection becomes a RejectionError with the
// payload preserved verbatim, anything else is a transport failure.
func classify(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return &credentials.RejectionError{
			Op:          op,
			Code:        rerr.ErrorCode,
			Description: rerr.ErrorDescription,
			Body:        rerr.Body,
		}
	}
	return &credentials.TransportError{Op: op, Err: err}
}
