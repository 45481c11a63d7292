package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/config"
	"github.com/vovakirdan/courtserver/internal/core"
)

const (
	testSecret   = "test-secret"
	testPassword = "modpass"
)

// startTestServer runs a world and an HTTP server around it. Defaults come
// from config.Default with two player slots and one moderator credential.
func startTestServer(t *testing.T, mutate ...func(*config.Config)) (*httptest.Server, *core.World, config.Config) {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.PlayerLimit = 2
	cfg.JWTSecret = testSecret
	cfg.MaxFramesPerSecond = 0
	cfg.Credentials = []config.CredentialConfig{{Role: auth.RoleModerator, PasswordHash: hash}}
	for _, fn := range mutate {
		fn(&cfg)
	}

	table, err := cfg.CredentialTable()
	if err != nil {
		t.Fatalf("CredentialTable failed: %v", err)
	}

	logger := zerolog.Nop()
	world, err := core.NewWorld(core.Options{
		Settings:    cfg.Settings(),
		Areas:       cfg.AreaDefs(),
		Characters:  cfg.Characters,
		Music:       cfg.Music,
		Credentials: table,
		Logger:      &logger,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go world.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(world, auth.NewService(table, cfg.JWT(), nil), cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, world, cfg
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendRaw(t *testing.T, ctx context.Context, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
		t.Fatalf("write %q: %v", raw, err)
	}
}

// readUntil reads frames until one contains sub and returns it.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, sub string) string {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("waiting for %q: %v", sub, err)
		}
		if strings.Contains(string(data), sub) {
			return string(data)
		}
	}
}

// hello registers the connection's hardware id and waits for the reply so
// the client is known to be in the world.
func hello(t *testing.T, ctx context.Context, conn *websocket.Conn, hdid string) string {
	t.Helper()
	sendRaw(t, ctx, conn, "HI#"+hdid+"#%")
	return readUntil(t, ctx, conn, "ID#")
}

// eventually polls cond on the world loop until it holds.
func eventually(t *testing.T, world *core.World, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var ok bool
		if err := world.Do(context.Background(), func() { ok = cond() }); err != nil {
			t.Fatalf("world.Do: %v", err)
		}
		if ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}
