package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/fitness/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/digitaldrywood/fitsession/internal/fit"
	"github.com/digitaldrywood/fitsession/internal/session"
)

// Auth owns the OAuth client config and the cached credential. It is the
// platform side of the permission check and the consent request.
type Auth struct {
	config      *oauth2.Config
	tokenPath   string
	extraScopes []string
	timeout     time.Duration
	log         *zap.SugaredLogger

	// openURL is swapped in tests.
	openURL func(string) error

	mu     sync.Mutex
	client *http.Client
}

// credential is what lands in the token file: the token plus the scopes the
// user actually granted.
type credential struct {
	Token  *oauth2.Token `json:"token"`
	Scopes []string      `json:"scopes"`
}

func NewAuth(credentialsPath, tokenPath, redirectURL string, timeout time.Duration, log *zap.SugaredLogger, extraScopes ...string) (*Auth, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read client secret file")
	}

	config, err := google.ConfigFromJSON(b)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse client secret file to config")
	}
	config.RedirectURL = redirectURL

	return &Auth{
		config:      config,
		tokenPath:   tokenPath,
		extraScopes: extraScopes,
		timeout:     timeout,
		log:         log,
		openURL:     openBrowser,
	}, nil
}

// ProjectNumber is the numeric prefix of an installed-app client ID.
func (a *Auth) ProjectNumber() string {
	prefix, _, ok := strings.Cut(a.config.ClientID, "-")
	if !ok {
		return ""
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return prefix
}

// HasPermissions reports whether the cached credential covers every scope the
// capability set needs. It only reads the token file.
func (a *Auth) HasPermissions(_ context.Context, caps fit.Capabilities) (bool, error) {
	cred, err := a.loadCredential()
	if os.IsNotExist(errors.Cause(err)) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if cred.Token == nil || (cred.Token.RefreshToken == "" && !cred.Token.Valid()) {
		return false, nil
	}
	return containsAll(cred.Scopes, ScopesFor(caps, a.extraScopes...)), nil
}

// RequestPermissions runs the browser consent flow and blocks until the
// redirect arrives, the timeout passes or ctx is done. A ResultOK result
// means the code was exchanged and the credential saved.
func (a *Auth) RequestPermissions(ctx context.Context, caps fit.Capabilities) (session.PermissionResult, error) {
	cfg := *a.config
	cfg.Scopes = ScopesFor(caps, a.extraScopes...)

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return session.PermissionResult{Code: session.ResultError}, errors.Wrap(err, "invalid redirect URL")
	}
	addr := redirect.Host
	if redirect.Port() == "" {
		addr = net.JoinHostPort(redirect.Hostname(), "8080")
	}
	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return session.PermissionResult{Code: session.ResultError}, errors.Wrapf(err, "unable to listen on %s", addr)
	}

	state := uuid.NewString()
	results := make(chan session.PermissionResult, 1)
	server := &http.Server{
		Handler:           callbackRouter(callbackPath, state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.log.Errorw("callback server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	a.log.Infow("opening browser for authentication", "url", authURL)
	if err := a.openURL(authURL); err != nil {
		a.log.Warnw("failed to open browser, visit the URL manually", "error", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var res session.PermissionResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return session.PermissionResult{Code: session.ResultCanceled}, errors.Wrap(ctx.Err(), "waiting for authentication")
	}
	if res.Code != session.ResultOK {
		return res, nil
	}

	tok, err := cfg.Exchange(ctx, res.Payload.Get("code"))
	if err != nil {
		return session.PermissionResult{Code: session.ResultError, Payload: res.Payload}, errors.Wrap(err, "unable to retrieve token from web")
	}

	cred := credential{Token: tok, Scopes: grantedScopes(tok, cfg.Scopes)}
	if err := a.saveCredential(cred); err != nil {
		return session.PermissionResult{Code: session.ResultError, Payload: res.Payload}, err
	}

	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
	return res, nil
}

// HTTPClient returns a client authorized with the cached credential. Refreshed
// tokens are written back to the token file.
func (a *Auth) HTTPClient(ctx context.Context) (*http.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	cred, err := a.loadCredential()
	if err != nil {
		return nil, errors.Wrap(err, "no cached credential, run the auth command first")
	}
	if cred.Token == nil {
		return nil, errors.New("cached credential holds no token, run the auth command first")
	}

	src := &persistingSource{
		base: a.config.TokenSource(ctx, cred.Token),
		last: cred.Token.AccessToken,
		save: func(tok *oauth2.Token) error {
			return a.saveCredential(credential{Token: tok, Scopes: cred.Scopes})
		},
		log: a.log,
	}
	a.client = oauth2.NewClient(ctx, oauth2.ReuseTokenSource(cred.Token, src))
	return a.client, nil
}

func (a *Auth) FitnessService(ctx context.Context) (*fitness.Service, error) {
	client, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := fitness.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "unable to retrieve Fitness client")
	}
	return srv, nil
}

func (a *Auth) SheetsService(ctx context.Context) (*sheets.Service, error) {
	client, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "unable to retrieve Sheets client")
	}
	return srv, nil
}

const (
	successPage = `<html>
	<head><title>Authentication Successful</title></head>
	<body>
		<h1>Authentication Successful!</h1>
		<p>You can close this window and return to the terminal.</p>
		<script>window.setTimeout(function(){window.close();}, 2000);</script>
	</body>
</html>`
	deniedPage = `<html>
	<head><title>Authentication Failed</title></head>
	<body>
		<h1>Access was not granted.</h1>
		<p>You can close this window and return to the terminal.</p>
	</body>
</html>`
)

// callbackRouter turns the OAuth redirect into a PermissionResult. Requests
// with a foreign state are rejected and never delivered.
func callbackRouter(path, state string, results chan<- session.PermissionResult) http.Handler {
	r := chi.NewRouter()
	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		res := session.PermissionResult{Payload: q}
		switch {
		case q.Get("error") != "":
			res.Code = session.ResultCanceled
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, deniedPage)
		case q.Get("code") == "":
			res.Code = session.ResultError
			http.Error(w, "Error: No authorization code received", http.StatusBadRequest)
		default:
			res.Code = session.ResultOK
			fmt.Fprint(w, successPage)
		}

		select {
		case results <- res:
		default:
		}
	})
	return r
}

// grantedScopes reads the scope list returned with the token. Servers that
// omit it granted what was asked.
func grantedScopes(tok *oauth2.Token, requested []string) []string {
	raw, _ := tok.Extra("scope").(string)
	if raw == "" {
		return append([]string(nil), requested...)
	}
	return strings.Fields(raw)
}

func (a *Auth) loadCredential() (*credential, error) {
	f, err := os.Open(a.tokenPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var cred credential
	if err := json.NewDecoder(f).Decode(&cred); err != nil {
		return nil, errors.Wrap(err, "unable to decode credential file")
	}
	return &cred, nil
}

func (a *Auth) saveCredential(cred credential) error {
	a.log.Debugw("saving credential file", "path", a.tokenPath)
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0o700); err != nil {
		return errors.Wrap(err, "unable to create credential directory")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return errors.Wrap(err, "unable to encode credential")
	}
	tmp := a.tokenPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "unable to cache oauth token")
	}
	return errors.Wrap(os.Rename(tmp, a.tokenPath), "unable to cache oauth token")
}

type persistingSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	last string
	save func(*oauth2.Token) error
	log  *zap.SugaredLogger
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.save(tok); err != nil {
			s.log.Warnw("failed to persist refreshed token", "error", err)
		}
	}
	return tok, nil
}

// openBrowser tries to open the URL in a browser
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return errors.New("unsupported platform")
	}
}
