package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name   string
		pinger Pinger
		status int
		body   string
	}{
		{"up", stubPinger{}, http.StatusOK, `{"status":"ok","database":"up"}`},
		{"down", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, `{"status":"degraded","database":"down"}`},
		{"no db", nil, http.StatusServiceUnavailable, `{"status":"degraded","database":"down"}`},
	}

	for _, tc := range cases {
		app := fiber.New()
		NewHealthHandler(tc.pinger, nil).RegisterRoutes(app)

		status, body := do(t, app, http.MethodGet, "/health", "")
		if status != tc.status || string(body) != tc.body {
			t.Fatalf("%s: unexpected %d %s", tc.name, status, body)
		}
	}
}
