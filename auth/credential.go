package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted form of an OAuth2 token, along with the scopes it
// was granted for.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

func newCredential(token *oauth2.Token, scopes []string) Credential {
	return Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Scopes:       append([]string{}, scopes...),
	}
}

func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// Covers returns true if the credential was granted all the required scopes.
func (c Credential) Covers(scopes []string) bool {
	granted := map[string]bool{}
	for _, s := range c.Scopes {
		granted[s] = true
	}

	for _, s := range scopes {
		if !granted[s] {
			return false
		}
	}

	return true
}

func loadCredential(file string) (*Credential, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var credential Credential
	if err := json.Unmarshal(b, &credential); err != nil {
		return nil, fmt.Errorf("invalid token file %s (%w)", file, err)
	}

	if credential.AccessToken == "" && credential.RefreshToken == "" {
		return nil, fmt.Errorf("invalid token file %s (missing access and refresh tokens)", file)
	}

	return &credential, nil
}

// saveCredential writes the credential to a temporary file in the same directory
// and renames it over the token file.
func saveCredential(file string, credential Credential) error {
	b, err := json.MarshalIndent(credential, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "token-*.json")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}
