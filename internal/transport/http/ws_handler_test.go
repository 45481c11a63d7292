package http

import (
	"context"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/courtserver/internal/config"
	"github.com/vovakirdan/courtserver/internal/core"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketHelloAndKeepalive(t *testing.T) {
	ts, world, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	if got, want := hello(t, ctx, conn, "hw-1"), "ID#0#courtserver#1.0.0#%"; got != want {
		t.Fatalf("ID reply = %q, want %q", got, want)
	}
	if got, want := readUntil(t, ctx, conn, "PN#"), "PN#1#2#%"; got != want {
		t.Fatalf("PN reply = %q, want %q", got, want)
	}

	sendRaw(t, ctx, conn, "CH#0#%")
	if got := readUntil(t, ctx, conn, "CHECK"); got != "CHECK#%" {
		t.Fatalf("keepalive reply = %q", got)
	}

	eventually(t, world, func() bool {
		c, ok := world.Registry().Get(0)
		return ok && c.HDID == "hw-1"
	})
}

func TestWebSocketCharacterAndAreaChange(t *testing.T) {
	ts, world, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	hello(t, ctx, conn, "hw-1")

	sendRaw(t, ctx, conn, "CC#0#0#hw-1#%")
	if got := readUntil(t, ctx, conn, "PV#"); got != "PV#0#CID#0#%" {
		t.Fatalf("PV reply = %q", got)
	}
	readUntil(t, ctx, conn, "=== MOTD ===")

	sendRaw(t, ctx, conn, "MC#Courtroom#0#%")
	readUntil(t, ctx, conn, "Changed area to Courtroom.")

	eventually(t, world, func() bool {
		c, ok := world.Registry().Get(0)
		return ok && c.Area.Name == "Courtroom" && c.CharName() == "Phoenix"
	})
}

func TestWebSocketMusic(t *testing.T) {
	ts, _, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	hello(t, ctx, conn, "hw-1")

	sendRaw(t, ctx, conn, "MC#Objection.mp3#-1#%")
	if got := readUntil(t, ctx, conn, "MC#"); got != "MC#Objection.mp3#-2##%" {
		t.Fatalf("music broadcast = %q", got)
	}

	sendRaw(t, ctx, conn, "MC#Nope.mp3#-1#%")
	readUntil(t, ctx, conn, "Unknown track Nope.mp3.")
}

func TestWebSocketServerFull(t *testing.T) {
	ts, _, _ := startTestServer(t, func(cfg *config.Config) { cfg.PlayerLimit = 1 })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := dialWS(t, ctx, ts)
	hello(t, ctx, first, "hw-1")

	second := dialWS(t, ctx, ts)
	_, _, err := second.Read(ctx)
	if status := websocket.CloseStatus(err); status != websocket.StatusTryAgainLater {
		t.Fatalf("expected try-again-later close, got %v (%v)", status, err)
	}
}

func TestWebSocketCloseReleasesSlot(t *testing.T) {
	ts, world, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	hello(t, ctx, conn, "hw-1")
	conn.Close(websocket.StatusNormalClosure, "bye")

	eventually(t, world, func() bool { return world.Registry().Len() == 0 })
}

func TestWebSocketBadFramesAreIgnored(t *testing.T) {
	ts, world, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendRaw(t, ctx, conn, "garbage without terminator")
	sendRaw(t, ctx, conn, "ZZ#unknown#%")
	hello(t, ctx, conn, "hw-1")

	eventually(t, world, func() bool {
		c, ok := world.Registry().Get(0)
		return ok && c.CharID == core.CharUnselected
	})
}

func TestFrameLimiter(t *testing.T) {
	var unlimited *frameLimiter
	for range 100 {
		if !unlimited.allow() {
			t.Fatalf("nil limiter must allow everything")
		}
	}
	if newFrameLimiter(0) != nil {
		t.Fatalf("zero rate should disable limiting")
	}

	lim := newFrameLimiter(2)
	if !lim.allow() || !lim.allow() {
		t.Fatalf("expected burst of two")
	}
	if lim.allow() {
		t.Fatalf("expected third frame refused")
	}
}

func TestWSConnSend(t *testing.T) {
	wc := newWSConn("id", "127.0.0.1:1")
	for range sendBufferSize {
		if err := wc.Send("x"); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	if err := wc.Send("x"); err != errSendBufferFull {
		t.Fatalf("expected full buffer, got %v", err)
	}
	_ = wc.Close()
	_ = wc.Close()
	if err := wc.Send("x"); err != errConnClosed {
		t.Fatalf("expected closed, got %v", err)
	}
}
