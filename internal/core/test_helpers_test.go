package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/vovakirdan/courtserver/internal/proto"
)

// recordConn captures everything sent to a client.
type recordConn struct {
	addr   string
	sent   []string
	closed bool
}

func (r *recordConn) Send(raw string) error {
	r.sent = append(r.sent, raw)
	return nil
}

func (r *recordConn) RemoteAddr() string { return r.addr }

func (r *recordConn) Close() error {
	r.closed = true
	return nil
}

func (r *recordConn) reset() { r.sent = nil }

// hostMessages returns the text of every host chat line received.
func (r *recordConn) hostMessages() []string {
	prefix := proto.CmdHostChat + proto.FieldSeparator + "$H" + proto.FieldSeparator
	suffix := proto.FieldSeparator + proto.Terminator
	var out []string
	for _, raw := range r.sent {
		if strings.HasPrefix(raw, prefix) {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(raw, prefix), suffix))
		}
	}
	return out
}

func (r *recordConn) commands(name string) []string {
	var out []string
	for _, raw := range r.sent {
		if strings.HasPrefix(raw, name+proto.FieldSeparator) {
			out = append(out, raw)
		}
	}
	return out
}

func connOf(c *Client) *recordConn {
	return c.conn.(*recordConn)
}

func mustHost(t *testing.T, c *Client, want string) {
	t.Helper()
	for _, msg := range connOf(c).hostMessages() {
		if msg == want {
			return
		}
	}
	t.Fatalf("client %d did not receive %q, got %q", c.ID, want, connOf(c).hostMessages())
}

func mustHostContaining(t *testing.T, c *Client, sub string) string {
	t.Helper()
	for _, msg := range connOf(c).hostMessages() {
		if strings.Contains(msg, sub) {
			return msg
		}
	}
	t.Fatalf("client %d received nothing containing %q, got %q", c.ID, sub, connOf(c).hostMessages())
	return ""
}

func mustNotHostContaining(t *testing.T, c *Client, sub string) {
	t.Helper()
	for _, msg := range connOf(c).hostMessages() {
		if strings.Contains(msg, sub) {
			t.Fatalf("client %d unexpectedly received %q", c.ID, msg)
		}
	}
}

var testChars = []string{"Phoenix", "Edgeworth", "Maya", "Gumshoe"}

// Area ids used throughout the tests.
const (
	areaLobby = iota
	areaCourtroom
	areaHallway
	areaCloset
	areaVault
	areaOffice
	areaCell
)

func testAreas() []AreaDef {
	return []AreaDef{
		{Name: "Lobby", Status: "IDLE", Lobby: true, HPDef: 10, HPPro: 10},
		{Name: "Courtroom", Status: "CASING", Reachable: []string{"Lobby", "Hallway"}, HPDef: 7, HPPro: 9, Background: "gs4"},
		{Name: "Hallway", Reachable: []string{"Courtroom", "Lobby", "Closet"}},
		{Name: "Closet", Reachable: []string{"Hallway"}},
		{Name: "Vault", Lock: "mod", Reachable: []string{"Lobby"}},
		{Name: "Office", Private: true, RestrictedChars: testChars},
		{Name: "Cell", Reachable: []string{"Cell"}},
	}
}

func testSettings() Settings {
	return Settings{
		Hostname:          "$H",
		MOTD:              "Welcome",
		PlayerLimit:       4,
		ShownameMaxLength: 10,
		SpectatorName:     "SPECTATOR",
		SneakHandicap:     20 * time.Second,
		Flood:             FloodSettings{TimesPerInterval: 3, Interval: 10 * time.Second, Mute: 60 * time.Second},
	}
}

func newTestWorld(t *testing.T, mutate ...func(*Options)) (*World, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock()
	opts := Options{
		Settings:   testSettings(),
		Areas:      testAreas(),
		Characters: testChars,
		Music:      []string{"Objection.mp3", "Trial.mp3"},
		Clock:      mock,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	w, err := NewWorld(opts)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w, mock
}

var addrSeq int

// join connects a client, names it and gives it a character without
// going through character selection.
func join(t *testing.T, w *World, name string, charID int) *Client {
	t.Helper()
	addrSeq++
	c, err := w.Connect(context.Background(), &recordConn{addr: fmt.Sprintf("10.1.%d.%d:27016", addrSeq/250, addrSeq%250+1)})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	c.Name = name
	c.CharID = charID
	return c
}

// place puts c straight into an area, bypassing the transition engine.
func place(t *testing.T, w *World, c *Client, areaID int) {
	t.Helper()
	a, err := w.Areas().ByID(areaID)
	if err != nil {
		t.Fatalf("ByID(%d): %v", areaID, err)
	}
	c.Area.RemoveClient(c)
	c.Area = a
	a.AddClient(c)
}

func area(t *testing.T, w *World, id int) *Area {
	t.Helper()
	a, err := w.Areas().ByID(id)
	if err != nil {
		t.Fatalf("ByID(%d): %v", id, err)
	}
	return a
}

// runPosted runs n callbacks posted by timers onto the world loop.
func runPosted(t *testing.T, w *World, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case fn := <-w.inbox:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d posted callbacks, got %d", n, i)
		}
	}
}

func expectNothingPosted(t *testing.T, w *World) {
	t.Helper()
	select {
	case <-w.inbox:
		t.Fatalf("unexpected posted callback")
	case <-time.After(50 * time.Millisecond):
	}
}
