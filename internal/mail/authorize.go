package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Authorize runs the one-time consent flow: it listens on a loopback port,
// prints the consent URL to out, waits for Google's redirect, exchanges the
// code and saves the token. It is only used by the authorize command.
func Authorize(ctx context.Context, cfg *oauth2.Config, store *TokenStore, out io.Writer) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to open callback listener: %w", err)
	}
	defer ln.Close()

	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case q.Get("error") != "":
			http.Error(w, "authorization denied", http.StatusForbidden)
			notify(errs, fmt.Errorf("authorization denied: %s", q.Get("error")))
			return
		}
		fmt.Fprintln(w, "Authorization complete, you can close this tab.")
		notify(codes, q.Get("code"))
	})}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(errs, err)
		}
	}()
	defer srv.Close()

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this URL in your browser to authorize Gmail sending:\n\n%s\n\n", authURL)

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := flowCfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return err
	}
	log.Printf("✅ Gmail token saved")
	return nil
}

// notify drops the value if one is already pending.
func notify[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
