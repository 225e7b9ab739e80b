package auth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Consent obtains a new token from the user.
type Consent interface {
	Authorise(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// BrowserConsent runs the OAuth2 installed application flow: it starts an HTTP
// listener on a random loopback port, opens the Google consent page in the
// user's browser and waits for the redirect with the authorisation code.
type BrowserConsent struct {
	Timeout time.Duration
	Open    func(url string) error
}

const DefaultConsentTimeout = 5 * time.Minute

func (b BrowserConsent) Authorise(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("unable to start authorisation callback listener (%w)", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port
	state := uuid.NewString()

	cfg := *config
	cfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/", port)

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/" {
			http.NotFound(w, rq)
			return
		}

		q := rq.URL.Query()

		if e := q.Get("error"); e != "" {
			send(errs, fmt.Errorf("authorisation denied (%s)", e))
			page(w, http.StatusForbidden, "Authorisation failed", html.EscapeString(e))
			return
		}

		if q.Get("state") != state {
			warnf("Ignoring authorisation callback with an unexpected state (stale browser tab?) - waiting for a valid callback")
			page(w, http.StatusBadRequest, "Authorisation failed", "Invalid state parameter")
			return
		}

		code := q.Get("code")
		if code == "" {
			send(errs, fmt.Errorf("authorisation callback did not include a code"))
			page(w, http.StatusBadRequest, "Authorisation failed", "No authorisation code received")
			return
		}

		send(codes, code)
		page(w, http.StatusOK, "Authorisation successful", "You can close this window and return to the application.")
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			send(errs, err)
		}
	}()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			warnf("%v", err)
		}
	}()

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	open := b.Open
	if open == nil {
		open = OpenBrowser
	}

	fmt.Printf("\n  Opening the Google authorisation page in your browser. If it does not open, please visit:\n\n  %v\n\n", url)
	if err := open(url); err != nil {
		warnf("Could not open authorisation page in your browser (%v)", err)
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultConsentTimeout
	}

	// ... CTRL-C handler
	interrupt := make(chan os.Signal, 1)

	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	select {
	case code := <-codes:
		token, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from web (%w)", err)
		}

		return token, nil

	case err := <-errs:
		return nil, err

	case <-interrupt:
		return nil, fmt.Errorf("authorisation cancelled")

	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for authorisation")

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func page(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 10%%">
  <h1>%[1]s</h1>
  <p>%[2]s</p>
</body>
</html>`, title, message)
}
