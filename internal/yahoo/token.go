package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// yahooEndpoint is Yahoo's OAuth2 endpoint pair.
var yahooEndpoint = oauth2.Endpoint{
	AuthURL:  "https://api.login.yahoo.com/oauth2/request_auth",
	TokenURL: "https://api.login.yahoo.com/oauth2/get_token",
}

// credentialFile is the on-disk token format, compatible with the JSON file
// the first-run browser flow writes (consumer key/secret plus token state).
type credentialFile struct {
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	TokenType      string    `json:"token_type,omitempty"`
	Expiry         time.Time `json:"expiry,omitempty"`
}

// fileTokenSource refreshes through the wrapped source and persists every
// refreshed token back to the credential file, so the next process start
// picks up where this one left off.
type fileTokenSource struct {
	path  string
	creds credentialFile
	src   oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

// NewFileTokenSource loads the credential file at path and returns a token
// source that refreshes and persists. A missing file or a file without a
// refresh token is an auth failure: there is nothing to refresh and the
// interactive first-run flow has to be redone.
func NewFileTokenSource(ctx context.Context, path string) (oauth2.TokenSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &APIError{
			Kind:        KindAuth,
			Description: fmt.Sprintf("credential file not readable: %v", err),
			Err:         err,
		}
	}
	var creds credentialFile
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, &APIError{
			Kind:        KindAuth,
			Description: fmt.Sprintf("credential file malformed: %v", err),
			Err:         err,
		}
	}
	if creds.RefreshToken == "" {
		return nil, &APIError{
			Kind:        KindAuth,
			Description: "no refresh token on file; rerun the authorization flow",
		}
	}

	conf := &oauth2.Config{
		ClientID:     creds.ConsumerKey,
		ClientSecret: creds.ConsumerSecret,
		Endpoint:     yahooEndpoint,
	}
	tok := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    creds.TokenType,
		Expiry:       creds.Expiry,
	}
	return &fileTokenSource{
		path:  path,
		creds: creds,
		src:   conf.TokenSource(ctx, tok),
		last:  tok,
	}, nil
}

func (f *fileTokenSource) Token() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, err := f.src.Token()
	if err != nil {
		return nil, &APIError{
			Kind:        KindAuth,
			Description: fmt.Sprintf("token refresh failed: %v", err),
			Err:         err,
		}
	}
	if f.last == nil || tok.AccessToken != f.last.AccessToken {
		f.last = tok
		if err := f.persist(tok); err != nil {
			// A persist failure is not fatal for this call; the token is
			// still valid in memory.
			return tok, nil
		}
	}
	return tok, nil
}

func (f *fileTokenSource) persist(tok *oauth2.Token) error {
	out := f.creds
	out.AccessToken = tok.AccessToken
	out.TokenType = tok.TokenType
	out.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		out.RefreshToken = tok.RefreshToken
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, append(b, '\n'), 0o600)
}

// StaticTokenSource wraps a fixed access token; used by tests and offline
// tooling that never refreshes.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
}
