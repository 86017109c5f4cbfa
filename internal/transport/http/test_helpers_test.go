package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/config"
	"github.com/vovakirdan/wirechat-roster/internal/core"
	"github.com/vovakirdan/wirechat-roster/internal/identity"
	"github.com/vovakirdan/wirechat-roster/internal/store/textfile"
)

type testEnv struct {
	hub    *core.Hub
	ctx    context.Context
	server *httptest.Server
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	disabledLogger := zerolog.New(nil)

	hub := core.NewHub(core.Options{
		Lists:  textfile.New(t.TempDir()),
		Hasher: identity.NewHasher("test-salt"),
		Logger: &disabledLogger,
		Notify: true,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}

	server := NewServer(hub, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{hub: hub, ctx: ctx, server: ts}
}

func (e *testEnv) submit(t *testing.T, cmds ...*core.Command) {
	t.Helper()
	for _, cmd := range cmds {
		if err := e.hub.Submit(e.ctx, cmd); err != nil {
			t.Fatalf("submit %v: %v", cmd.Kind, err)
		}
	}
}
