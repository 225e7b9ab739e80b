package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type consent struct {
	token *oauth2.Token
	err   error
	calls int
}

func (c *consent) Authorise(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	c.calls++
	return c.token, c.err
}

func tokenServer(t *testing.T, status int, access string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if status == http.StatusOK {
			fmt.Fprintf(w, `{"access_token":"%s","token_type":"Bearer","expires_in":3600}`, access)
		} else {
			fmt.Fprint(w, `{"error":"server_error"}`)
		}
	}))

	t.Cleanup(srv.Close)

	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       []string{SHEETS},
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func writeCredential(t *testing.T, file string, credential Credential) {
	b, err := json.Marshal(credential)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, b, 0600))
}

func readCredential(t *testing.T, file string) Credential {
	b, err := os.ReadFile(file)
	require.NoError(t, err)

	var credential Credential
	require.NoError(t, json.Unmarshal(b, &credential))

	return credential
}

func TestTokenSourceWithoutTokenFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenDir, TokenFile)
	c := consent{
		token: &oauth2.Token{AccessToken: "new", RefreshToken: "refresh", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)},
	}

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	source, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "new", token.AccessToken)

	saved := readCredential(t, file)
	assert.Equal(t, "new", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)
	assert.Equal(t, []string{SHEETS}, saved.Scopes)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenSourceWithValidToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{}

	writeCredential(t, file, Credential{
		AccessToken:  "valid",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
		Scopes:       []string{SHEETS},
	})

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	source, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, 0, c.calls)
	assert.Equal(t, "valid", token.AccessToken)
}

func TestTokenSourceWithExpiredToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	srv := tokenServer(t, http.StatusOK, "refreshed")
	c := consent{}

	writeCredential(t, file, Credential{
		AccessToken:  "expired",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
		Scopes:       []string{SHEETS},
	})

	store := NewStore(testConfig(srv.URL), file, &c)

	source, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, 0, c.calls)
	assert.Equal(t, "refreshed", token.AccessToken)

	saved := readCredential(t, file)
	assert.Equal(t, "refreshed", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)
}

func TestTokenSourceWithRefreshError(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	srv := tokenServer(t, http.StatusInternalServerError, "")
	c := consent{}

	writeCredential(t, file, Credential{
		AccessToken:  "expired",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
		Scopes:       []string{SHEETS},
	})

	store := NewStore(testConfig(srv.URL), file, &c)

	_, err := store.TokenSource(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, c.calls)
}

func TestTokenSourceWithExpiredTokenWithoutRefreshToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{
		token: &oauth2.Token{AccessToken: "new", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)},
	}

	writeCredential(t, file, Credential{
		AccessToken: "expired",
		Expiry:      time.Now().Add(-time.Hour),
		Scopes:      []string{SHEETS},
	})

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	_, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "new", readCredential(t, file).AccessToken)
}

func TestTokenSourceWithCorruptTokenFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{
		token: &oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)},
	}

	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0600))

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	_, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "new", readCredential(t, file).AccessToken)
}

func TestTokenSourceWithMissingScopes(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{
		token: &oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)},
	}

	writeCredential(t, file, Credential{
		AccessToken: "readonly",
		Expiry:      time.Now().Add(time.Hour),
		Scopes:      []string{"https://www.googleapis.com/auth/spreadsheets.readonly"},
	})

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	_, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, []string{SHEETS}, readCredential(t, file).Scopes)
}

func TestTokenSourceWithConsentError(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{
		err: fmt.Errorf("authorisation cancelled"),
	}

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	_, err := store.TokenSource(context.Background())

	assert.ErrorContains(t, err, "authorisation cancelled")
	assert.NoFileExists(t, file)
}

func TestAuthorise(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	c := consent{
		token: &oauth2.Token{AccessToken: "forced", Expiry: time.Now().Add(time.Hour)},
	}

	writeCredential(t, file, Credential{
		AccessToken: "valid",
		Expiry:      time.Now().Add(time.Hour),
		Scopes:      []string{SHEETS},
	})

	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &c)

	require.NoError(t, store.Authorise(context.Background()))
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "forced", readCredential(t, file).AccessToken)
}

func TestCredentialCovers(t *testing.T) {
	credential := Credential{Scopes: []string{SHEETS, "openid"}}

	assert.True(t, credential.Covers([]string{SHEETS}))
	assert.True(t, credential.Covers(nil))
	assert.False(t, credential.Covers([]string{SHEETS, "email"}))
	assert.False(t, Credential{}.Covers([]string{SHEETS}))
}

type rotating struct {
	tokens []*oauth2.Token
}

func (r *rotating) Token() (*oauth2.Token, error) {
	token := r.tokens[0]
	if len(r.tokens) > 1 {
		r.tokens = r.tokens[1:]
	}

	return token, nil
}

func TestTokenSourceSavesRefreshedToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	store := NewStore(testConfig("http://127.0.0.1:0/token"), file, &consent{})

	writeCredential(t, file, Credential{
		AccessToken:  "initial",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
		Scopes:       []string{SHEETS},
	})

	source := persistent{
		store: store,
		source: &rotating{
			tokens: []*oauth2.Token{
				{AccessToken: "initial", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)},
				{AccessToken: "rotated", RefreshToken: "refresh", Expiry: time.Now().Add(2 * time.Hour)},
			},
		},
		access: "initial",
	}

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "initial", token.AccessToken)
	assert.Equal(t, "initial", readCredential(t, file).AccessToken)

	token, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, "rotated", token.AccessToken)

	saved := readCredential(t, file)
	assert.Equal(t, "rotated", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)
	assert.Equal(t, []string{SHEETS}, saved.Scopes)
}

func TestTokenSourceSavesTokenRefreshedByLibrary(t *testing.T) {
	file := filepath.Join(t.TempDir(), TokenFile)
	srv := tokenServer(t, http.StatusOK, "refreshed")
	store := NewStore(testConfig(srv.URL), file, &consent{})

	// valid when loaded, but inside the oauth2 expiry window by the time it is used
	writeCredential(t, file, Credential{
		AccessToken:  "expiring",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(11 * time.Second),
		Scopes:       []string{SHEETS},
	})

	source, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token.AccessToken)
	assert.Equal(t, "refreshed", readCredential(t, file).AccessToken)
}
