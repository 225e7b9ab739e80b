// Package auth obtains and persists the OAuth2 credentials used to access the
// Google Sheets API on behalf of a desktop user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// Provider supplies the OAuth2 token source for API requests.
type Provider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// Store is a Provider backed by a local token file. Missing or unusable tokens
// are replaced by running the interactive consent flow, expired tokens are
// refreshed.
type Store struct {
	config  *oauth2.Config
	file    string
	consent Consent
}

func NewStore(config *oauth2.Config, file string, consent Consent) *Store {
	return &Store{
		config:  config,
		file:    file,
		consent: consent,
	}
}

func (s *Store) File() string {
	return s.file
}

// TokenSource returns a token source initialised from a valid token. Tokens
// refreshed by the returned source are written back to the token file.
func (s *Store) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	unlock, err := lock(s.file)
	if err != nil {
		return nil, fmt.Errorf("unable to lock token file %s (%w)", s.file, err)
	}

	token, err := s.token(ctx)
	unlock()

	if err != nil {
		return nil, err
	}

	return &persistent{
		store:  s,
		source: s.config.TokenSource(ctx, token),
		access: token.AccessToken,
	}, nil
}

// Authorise discards any existing token and runs the consent flow.
func (s *Store) Authorise(ctx context.Context) error {
	unlock, err := lock(s.file)
	if err != nil {
		return fmt.Errorf("unable to lock token file %s (%w)", s.file, err)
	}

	defer unlock()

	token, err := s.consent.Authorise(ctx, s.config)
	if err != nil {
		return fmt.Errorf("authorisation failed (%w)", err)
	}

	return s.save(token)
}

func (s *Store) token(ctx context.Context) (*oauth2.Token, error) {
	credential, err := loadCredential(s.file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnf("%v - discarding", err)
		s.discard()
		credential = nil
	}

	if credential != nil && !credential.Covers(s.config.Scopes) {
		warnf("Token file %s does not include the required scopes - discarding", s.file)
		s.discard()
		credential = nil
	}

	switch {
	case credential == nil:
		break

	case credential.Token().Valid():
		return credential.Token(), nil

	case credential.RefreshToken != "":
		token, err := s.config.TokenSource(ctx, credential.Token()).Token()
		if err != nil {
			return nil, fmt.Errorf("error refreshing token (%w)", err)
		}

		if err := s.save(token); err != nil {
			return nil, err
		}

		return token, nil
	}

	token, err := s.consent.Authorise(ctx, s.config)
	if err != nil {
		return nil, fmt.Errorf("authorisation failed (%w)", err)
	}

	if err := s.save(token); err != nil {
		return nil, err
	}

	return token, nil
}

func (s *Store) save(token *oauth2.Token) error {
	if err := saveCredential(s.file, newCredential(token, s.config.Scopes)); err != nil {
		return fmt.Errorf("unable to save token file %s (%w)", s.file, err)
	}

	infof("Saved credentials to %s", s.file)

	return nil
}

func (s *Store) discard() {
	if err := os.Remove(s.file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnf("unable to remove token file %s (%v)", s.file, err)
	}
}

type persistent struct {
	sync.Mutex
	store  *Store
	source oauth2.TokenSource
	access string
}

func (p *persistent) Token() (*oauth2.Token, error) {
	token, err := p.source.Token()
	if err != nil {
		return nil, err
	}

	p.Lock()
	defer p.Unlock()

	if token.AccessToken != p.access {
		p.access = token.AccessToken

		if unlock, err := lock(p.store.file); err != nil {
			warnf("unable to lock token file %s (%v)", p.store.file, err)
		} else {
			if err := p.store.save(token); err != nil {
				warnf("%v", err)
			}
			unlock()
		}
	}

	return token, nil
}
