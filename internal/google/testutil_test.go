package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"
)

type memoryStore struct {
	token   *oauth2.Token
	loadErr error
	saves   int
}

func (s *memoryStore) Load() (*oauth2.Token, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.token == nil {
		return nil, ErrNoToken
	}
	copied := *s.token
	return &copied, nil
}

func (s *memoryStore) Save(token *oauth2.Token) error {
	s.saves++
	copied := *token
	s.token = &copied
	return nil
}

type fakeAuthorizer struct {
	token *oauth2.Token
	err   error
	calls int
}

func (a *fakeAuthorizer) ObtainToken(_ context.Context, _ *oauth2.Config) (*oauth2.Token, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.token, nil
}

type tokenServer struct {
	*httptest.Server
	grants atomic.Int32
}

// newTokenServer serves an OAuth token endpoint. When reject is set every
// request fails with invalid_grant.
func newTokenServer(t *testing.T, accessToken string, reject bool) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ts.grants.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Token has been expired or revoked.",
			})
			return
		}
		resp := map[string]any{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
		if r.Form.Get("grant_type") == "authorization_code" {
			resp["refresh_token"] = "fresh-refresh-token"
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/oauth2/auth",
			TokenURL: tokenURL,
		},
		Scopes: Scopes,
	}
}
