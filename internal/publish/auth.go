// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/blogger/v3"
)

// TokenFile is the name of the cached OAuth token, stored next to the
// client credentials file.
const TokenFile = "token.json"

// Authenticator obtains an OAuth 2.0 HTTP client for the Blogger API
// using the installed-app flow.
type Authenticator struct {
	// CredentialsPath is the OAuth client file downloaded from the Google
	// Cloud console.
	CredentialsPath string

	// Out receives the consent URL and progress.
	Out    io.Writer
	Logger *zap.Logger
}

func (a *Authenticator) tokenPath() string {
	return filepath.Join(filepath.Dir(a.CredentialsPath), TokenFile)
}

func (a *Authenticator) out() io.Writer {
	if a.Out == nil {
		return io.Discard
	}
	return a.Out
}

func (a *Authenticator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Config reads the OAuth client configuration.
func (a *Authenticator) Config() (*oauth2.Config, error) {
	data, err := os.ReadFile(a.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading OAuth credentials %s (create an OAuth client ID in the Google Cloud console): %w", a.CredentialsPath, err)
	}
	cfg, err := google.ConfigFromJSON(data, blogger.BloggerScope)
	if err != nil {
		return nil, fmt.Errorf("parsing OAuth credentials: %w", err)
	}
	return cfg, nil
}

// Client returns an authorized HTTP client. A cached token is refreshed
// when expired; without one the browser consent flow runs. Any new token
// is written back to the cache.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}

	cached, err := LoadToken(a.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger().Warn("ignoring unreadable token cache", zap.Error(err))
	}

	var tok *oauth2.Token
	if cached != nil {
		tok, err = cfg.TokenSource(ctx, cached).Token()
		if err != nil {
			a.logger().Warn("token refresh failed", zap.Error(err))
			tok = nil
		}
	}
	if tok == nil {
		tok, err = a.consent(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	if cached == nil || tok.AccessToken != cached.AccessToken {
		if err := SaveToken(a.tokenPath(), tok); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out(), "auth: token saved to %s\n", a.tokenPath())
	}
	return cfg.Client(ctx, tok), nil
}

// consent runs the loopback installed-app flow with PKCE.
func (a *Authenticator) consent(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting OAuth callback listener: %w", err)
	}
	defer ln.Close()

	flow := *cfg
	flow.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr())
	state, err := randomState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()
	authURL := flow.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintf(a.out(), "auth: open this URL in a browser to authorize Blogger access:\n%s\n", authURL)

	code, err := WaitForCode(ctx, ln, state)
	if err != nil {
		return nil, err
	}
	tok, err := flow.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	fmt.Fprintln(a.out(), "auth: authorized")
	return tok, nil
}

// WaitForCode serves one OAuth redirect on ln and returns its
// authorization code.
func WaitForCode(ctx context.Context, ln net.Listener, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res result
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = errors.New("authorization state mismatch")
		case q.Get("code") == "":
			res.err = errors.New("authorization response has no code")
		default:
			res.code = q.Get("code")
		}
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "인증이 완료되었습니다. 이 창을 닫아도 됩니다.")
		}
		select {
		case done <- res:
		default:
		}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.code, res.err
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LoadToken reads a cached token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}
