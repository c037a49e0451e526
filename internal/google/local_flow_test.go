package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browserFunc simulates the user's browser: it receives the consent URL and
// follows the redirect back to the callback with the returned query.
func browserFunc(t *testing.T, query func(state string) url.Values) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		redirect := u.Query().Get("redirect_uri")
		state := u.Query().Get("state")

		resp, err := http.Get(redirect + "?" + query(state).Encode()) //nolint:noctx // test browser
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	}
}

func TestLocalServerFlow_ObtainToken(t *testing.T) {
	var gotForm url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = r.Form
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "exchanged",
			"refresh_token": "refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	defer tokenSrv.Close()

	var authURL string
	var out strings.Builder
	flow := &LocalServerFlow{
		Timeout: 5 * time.Second,
		Out:     &out,
		OpenBrowser: func(u string) error {
			authURL = u
			return browserFunc(t, func(state string) url.Values {
				return url.Values{"state": {state}, "code": {"auth-code"}}
			})(u)
		},
	}

	token, err := flow.ObtainToken(context.Background(), testOAuthConfig(tokenSrv.URL))
	require.NoError(t, err)
	assert.Equal(t, "exchanged", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.True(t, strings.HasPrefix(q.Get("redirect_uri"), "http://127.0.0.1:"))
	assert.True(t, strings.HasSuffix(q.Get("redirect_uri"), callbackPath))

	assert.Equal(t, "auth-code", gotForm.Get("code"))
	assert.NotEmpty(t, gotForm.Get("code_verifier"))
	assert.Equal(t, q.Get("redirect_uri"), gotForm.Get("redirect_uri"))

	assert.Contains(t, out.String(), authURL)
}

func TestLocalServerFlow_CallbackErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   func(state string) url.Values
		wantErr error
	}{
		{
			name:    "denied",
			query:   func(string) url.Values { return url.Values{"error": {"access_denied"}} },
			wantErr: errAuthorization,
		},
		{
			name:    "state mismatch",
			query:   func(string) url.Values { return url.Values{"state": {"forged"}, "code": {"c"}} },
			wantErr: errStateMismatch,
		},
		{
			name:    "missing code",
			query:   func(state string) url.Values { return url.Values{"state": {state}} },
			wantErr: errMissingCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := &LocalServerFlow{
				Timeout:     5 * time.Second,
				Out:         io.Discard,
				OpenBrowser: browserFunc(t, tt.query),
			}

			_, err := flow.ObtainToken(context.Background(), testOAuthConfig("http://127.0.0.1:0/token"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLocalServerFlow_Timeout(t *testing.T) {
	flow := &LocalServerFlow{
		Timeout:     50 * time.Millisecond,
		Out:         io.Discard,
		OpenBrowser: func(string) error { return nil },
	}

	_, err := flow.ObtainToken(context.Background(), testOAuthConfig("http://127.0.0.1:0/token"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLocalServerFlow_BrowserFailureStillWaits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	flow := &LocalServerFlow{
		Timeout: 5 * time.Second,
		Out:     io.Discard,
		OpenBrowser: func(string) error {
			cancel()
			return errors.New("no browser")
		},
	}

	_, err := flow.ObtainToken(ctx, testOAuthConfig("http://127.0.0.1:0/token"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallbackHandler_NotFound(t *testing.T) {
	h := callbackHandler("state", make(chan string, 1), make(chan error, 1))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackHandler_Success(t *testing.T) {
	codeCh := make(chan string, 1)
	h := callbackHandler("state", codeCh, make(chan error, 1))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callbackPath+"?state=state&code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", <-codeCh)
}

func TestRandomState(t *testing.T) {
	a, err := randomState()
	require.NoError(t, err)
	b, err := randomState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}
