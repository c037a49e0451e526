package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
)

const callbackPath = "/oauth2/callback"

// LocalServerFlow runs the OAuth authorization-code flow for installed
// applications: it listens on an ephemeral loopback port, opens the consent
// page in a browser and exchanges the code delivered to the redirect.
type LocalServerFlow struct {
	// Timeout bounds the whole flow (default: 2 minutes)
	Timeout time.Duration

	// OpenBrowser opens the consent URL (default: the platform opener)
	OpenBrowser func(url string) error

	// Out receives the instructions shown to the user (default: os.Stderr)
	Out io.Writer
}

// NewLocalServerFlow returns a LocalServerFlow with default settings
func NewLocalServerFlow() *LocalServerFlow {
	return &LocalServerFlow{
		Timeout:     2 * time.Minute,
		OpenBrowser: openBrowser,
		Out:         os.Stderr,
	}
}

// ObtainToken runs the flow once and returns the exchanged token
func (f *LocalServerFlow) ObtainToken(ctx context.Context, base *oauth2.Config) (*oauth2.Token, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	out := f.Out
	if out == nil {
		out = os.Stderr
	}
	open := f.OpenBrowser
	if open == nil {
		open = openBrowser
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for callback: %w", err)
	}
	defer func() { _ = ln.Close() }()

	conf := *base
	conf.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d%s", ln.Addr().(*net.TCPAddr).Port, callbackPath)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           callbackHandler(state, codeCh, errCh),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() { _ = srv.Close() }()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintln(out, "Opening browser for authorization…")
	fmt.Fprintln(out, "If the browser doesn't open, visit this URL:")
	fmt.Fprintln(out, authURL)
	_ = open(authURL)

	select {
	case code := <-codeCh:
		token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchange code: %w", err)
		}
		return token, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization canceled: %w", ctx.Err())
	}
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != callbackPath {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if reason := q.Get("error"); reason != "" {
			select {
			case errCh <- fmt.Errorf("%w: %s", errAuthorization, reason):
			default:
			}
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "Authorization cancelled. You can close this window.\n")
			return
		}
		if q.Get("state") != state {
			select {
			case errCh <- errStateMismatch:
			default:
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "State mismatch. Please try again.\n")
			return
		}
		code := q.Get("code")
		if code == "" {
			select {
			case errCh <- errMissingCode:
			default:
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Missing authorization code. Please try again.\n")
			return
		}
		select {
		case codeCh <- code:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "Authorization complete. You can close this window.\n")
	})
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
