package supervisor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/wrlog/internal/shared"
)

func TestHealthchecks(t *testing.T) {
	t.Run("empty url disables reporting", func(t *testing.T) {
		hc := NewHealthchecks("", nil)
		if hc != nil {
			t.Fatalf("NewHealthchecks(\"\") = %v, want nil", hc)
		}
		if err := hc.Ping(context.Background()); err != nil {
			t.Errorf("Ping() on nil = %v", err)
		}
		if err := hc.Fail(context.Background(), errors.New("x")); err != nil {
			t.Errorf("Fail() on nil = %v", err)
		}
	})

	t.Run("ping and fail", func(t *testing.T) {
		hc := &healthchecksServer{}
		srv := httptest.NewServer(hc.handler(t))
		defer srv.Close()

		client := NewHealthchecks(srv.URL+"/check", srv.Client())
		if err := client.Ping(context.Background()); err != nil {
			t.Fatalf("Ping() error = %v", err)
		}
		if err := client.Fail(context.Background(), errors.New("disk full")); err != nil {
			t.Fatalf("Fail() error = %v", err)
		}

		if hc.pings != 1 {
			t.Errorf("pings = %d, want 1", hc.pings)
		}
		if len(hc.fails) != 1 || hc.fails[0] != "[manager] error: disk full" {
			t.Errorf("fails = %q, want one \"[manager] error: disk full\"", hc.fails)
		}
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := NewHealthchecks(srv.URL, srv.Client()).Ping(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Ping() error = %v, want ErrAPIRequest", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewHealthchecks(url, nil).Ping(context.Background())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("Ping() error = %v, want ErrServiceUnavailable", err)
		}
	})
}
