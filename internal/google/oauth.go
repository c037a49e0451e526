package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/teemow/rofi-calendar/internal/instrumentation"
	"github.com/teemow/rofi-calendar/internal/logging"
)

// Authorizer obtains a new token interactively
type Authorizer interface {
	ObtainToken(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// ProviderConfig configures a CredentialProvider
type ProviderConfig struct {
	// ClientSecretsPath is the OAuth client secrets file. It is only read when
	// a token has to be refreshed or obtained.
	ClientSecretsPath string

	// OAuthConfig, when set, is used instead of reading ClientSecretsPath
	OAuthConfig *oauth2.Config

	// Store persists tokens between runs
	Store TokenStore

	// Authorizer runs the interactive flow (default: a LocalServerFlow)
	Authorizer Authorizer

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// CredentialProvider returns OAuth tokens for the Calendar API
type CredentialProvider struct {
	secretsPath string
	conf        *oauth2.Config
	store       TokenStore
	authorizer  Authorizer
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// NewCredentialProvider creates a CredentialProvider
func NewCredentialProvider(cfg ProviderConfig) *CredentialProvider {
	p := &CredentialProvider{
		secretsPath: cfg.ClientSecretsPath,
		conf:        cfg.OAuthConfig,
		store:       cfg.Store,
		authorizer:  cfg.Authorizer,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if p.authorizer == nil {
		p.authorizer = NewLocalServerFlow()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = logging.WithOperation(p.logger, "google.credentials")
	return p
}

// Token returns a valid token.
//
// A valid stored token is returned as is. An expired stored token with a
// refresh token is refreshed; if the authorization server rejects the
// refresh, or no usable token is stored, the interactive flow runs once.
// Refreshed and new tokens are saved to the store.
func (p *CredentialProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	if p.store == nil {
		return nil, &AuthError{Op: "load token", Err: errors.New("no token store configured")}
	}

	cached, err := p.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoToken):
		p.logger.Debug("no stored token")
	default:
		p.logger.Warn("ignoring unreadable token file", logging.Err(err))
		cached = nil
	}

	if cached != nil && cached.Valid() {
		p.logger.Debug("using stored token", logging.Token(cached.AccessToken))
		return cached, nil
	}

	conf, err := p.oauthConfig()
	if err != nil {
		return nil, err
	}

	if cached != nil && cached.RefreshToken != "" {
		token, err := p.refresh(ctx, conf, cached)
		if err == nil {
			if err := p.save(token); err != nil {
				return nil, err
			}
			return token, nil
		}

		var retrieveErr *oauth2.RetrieveError
		if !errors.As(err, &retrieveErr) {
			return nil, &AuthError{Op: "refresh token", Err: err}
		}
		p.logger.Warn("refresh token rejected, authorizing again", logging.Err(err))
	}

	token, err := p.authorizer.ObtainToken(ctx, conf)
	if err != nil {
		p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, &AuthError{Op: "authorize", Err: err}
	}
	p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	if token.RefreshToken == "" {
		p.logger.Warn("authorization returned no refresh token; the next expiry will require authorizing again")
	}

	if err := p.save(token); err != nil {
		return nil, err
	}
	return token, nil
}

// HTTPClient returns an HTTP client authorized with a valid token
func (p *CredentialProvider) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(ctx, token), nil
}

func (p *CredentialProvider) refresh(ctx context.Context, conf *oauth2.Config, cached *oauth2.Token) (*oauth2.Token, error) {
	p.logger.Debug("refreshing expired token", logging.Token(cached.AccessToken))

	token, err := conf.TokenSource(ctx, cached).Token()
	if err != nil {
		p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	if token.RefreshToken == "" {
		token.RefreshToken = cached.RefreshToken
	}
	return token, nil
}

func (p *CredentialProvider) save(token *oauth2.Token) error {
	if err := p.store.Save(token); err != nil {
		return &AuthError{Op: "save token", Err: err}
	}
	return nil
}

func (p *CredentialProvider) oauthConfig() (*oauth2.Config, error) {
	if p.conf != nil {
		return p.conf, nil
	}
	if p.secretsPath == "" {
		return nil, &AuthError{Op: "read client secrets", Err: fmt.Errorf("client secrets path is empty")}
	}

	conf, err := LoadOAuthConfig(p.secretsPath)
	if err != nil {
		return nil, err
	}
	p.conf = conf
	return conf, nil
}

// NewHTTPClient returns an HTTP client that sends token.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func NewHTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}

	return client
}
