package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

const (
	TokenDir     = ".awakening_overlay_uploader"
	TokenFile    = "token.json"
	ClientSecret = "credentials/client_secret.json"
)

// DefaultTokenFile returns the per-user token file path i.e.
// ~/.awakening_overlay_uploader/token.json
func DefaultTokenFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate home directory (%w)", err)
	}

	return filepath.Join(home, TokenDir, TokenFile), nil
}

// ResolveClientSecret resolves a relative client secret path against the directory
// containing the executable, falling back to the current working directory.
func ResolveClientSecret(path string) string {
	if path == "" {
		path = ClientSecret
	}

	if filepath.IsAbs(path) {
		return path
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

// LoadConfig reads an OAuth2 client secret JSON file (as downloaded from the
// Google Cloud console) and returns the OAuth2 configuration for the scopes.
func LoadConfig(clientSecret string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(clientSecret)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file (%w)", err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid client secret file %s (%w)", clientSecret, err)
	}

	return config, nil
}
