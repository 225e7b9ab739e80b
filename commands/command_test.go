package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/awakening-overlay/overlay-uploader/config"
)

type provider struct {
	err error
}

func (p provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.err != nil {
		return nil, p.err
	}

	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access"}), nil
}

func TestSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":                                              "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":      "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1HbF_0IPMC_fZmMwPHXvmyhIlY5JFu1S2lp7Y3AwdDyU/edit": "1HbF_0IPMC_fZmMwPHXvmyhIlY5JFu1S2lp7Y3AwdDyU",
	}

	for s, expected := range tests {
		id, err := spreadsheetID(s)

		require.NoError(t, err, s)
		assert.Equal(t, expected, id)
	}

	for _, s := range []string{"https://example.com/spreadsheets/d/xyz", "not an id", "https://docs.google.com/spreadsheets/d/"} {
		_, err := spreadsheetID(s)
		assert.Error(t, err, s)
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`sheet = "Overlay"`+"\n"+`tokens = "/tmp/tokens.json"`), 0600))

	c := command{
		spreadsheet: "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit",
		credentials: "client_secret.json",
	}

	conf, err := c.resolve(&Options{Config: path})

	require.NoError(t, err)
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", conf.Spreadsheet)
	assert.Equal(t, "Overlay", conf.Sheet)
	assert.Equal(t, "client_secret.json", conf.ClientSecret)
	assert.Equal(t, "/tmp/tokens.json", conf.Tokens)
}

func TestResolveWithMissingConfigFile(t *testing.T) {
	c := command{}

	_, err := c.resolve(&Options{Config: filepath.Join(t.TempDir(), "missing.toml")})

	assert.Error(t, err)
}

func TestArguments(t *testing.T) {
	type key struct{}

	options := Options{Debug: true}
	ctx := context.WithValue(context.Background(), key{}, "x")

	c, o := arguments([]any{ctx, &options})
	assert.Equal(t, ctx, c)
	assert.Same(t, &options, o)

	c, o = arguments(nil)
	assert.NotNil(t, c)
	assert.NotNil(t, o)
}

func TestNewClient(t *testing.T) {
	client, err := newClient(context.Background(), provider{}, config.NewConfig())

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientWithAuthenticationError(t *testing.T) {
	_, err := newClient(context.Background(), provider{err: errors.New("consent cancelled")}, config.NewConfig())

	assert.ErrorContains(t, err, "consent cancelled")
}

func TestNewClientWithInvalidRetryPolicy(t *testing.T) {
	conf := config.NewConfig()
	conf.Retry.Max = conf.Retry.Start

	_, err := newClient(context.Background(), provider{}, conf)

	assert.Error(t, err)
}
