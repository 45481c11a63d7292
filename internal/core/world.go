package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/store"
	"github.com/vovakirdan/courtserver/internal/timers"
)

// ErrStopped is returned when work is posted to a world that no longer runs.
var ErrStopped = errors.New("world stopped")

const inboxSize = 1024

// FloodSettings parameterizes the music change flood guard.
type FloodSettings struct {
	TimesPerInterval int
	Interval         time.Duration
	Mute             time.Duration
}

// Settings is the read-only configuration the core consults.
type Settings struct {
	Hostname          string
	MOTD              string
	PlayerLimit       int
	ShownameMaxLength int
	SpectatorName     string
	SneakHandicap     time.Duration
	Flood             FloodSettings
	// LegacySneakDarkWording reproduces the old arrival line that names the
	// mover when an invisible bleeder enters a dark area.
	LegacySneakDarkWording bool
}

// TimerFacility provides named, cancellable, replaceable per-client timers.
type TimerFacility interface {
	Schedule(owner int, name string, delay time.Duration, args any, fire func())
	Lookup(owner int, name string) (any, bool)
	Pending(owner int, name string) bool
	Cancel(owner int, name string) bool
	CancelAll(owner int)
}

// CredentialChecker verifies staff logins.
type CredentialChecker interface {
	Verify(role, password string, at time.Time) bool
}

// Options configures a World.
type Options struct {
	Settings    Settings
	Areas       []AreaDef
	Characters  []string
	Music       []string
	Identities  store.IdentityStore
	Credentials CredentialChecker
	Clock       clock.Clock
	// Timers defaults to a scheduler that posts callbacks onto the world loop.
	Timers TimerFacility
	Rand   *rand.Rand
	Logger *zerolog.Logger
}

// World owns every area and client. All state is mutated from the single
// goroutine running Run; other goroutines hand work over with Post or Do.
type World struct {
	settings Settings
	graph    *AreaGraph
	registry *Registry
	timers   TimerFacility
	creds    CredentialChecker
	clock    clock.Clock
	rng      *rand.Rand
	log      zerolog.Logger
	chars    []string
	music    []string

	inbox chan func()
	done  chan struct{}
}

// NewWorld validates opts and builds the world.
func NewWorld(opts Options) (*World, error) {
	s := opts.Settings
	if s.PlayerLimit <= 0 {
		return nil, fmt.Errorf("player limit must be positive, got %d", s.PlayerLimit)
	}
	if s.Flood.TimesPerInterval <= 0 {
		return nil, fmt.Errorf("flood guard times per interval must be positive, got %d", s.Flood.TimesPerInterval)
	}
	if s.Hostname == "" {
		s.Hostname = "$H"
	}
	if s.SpectatorName == "" {
		s.SpectatorName = "SPECTATOR"
	}

	graph, err := NewAreaGraph(opts.Areas)
	if err != nil {
		return nil, fmt.Errorf("build areas: %w", err)
	}

	w := &World{
		settings: s,
		graph:    graph,
		registry: NewRegistry(s.PlayerLimit, opts.Identities),
		creds:    opts.Credentials,
		clock:    opts.Clock,
		rng:      opts.Rand,
		chars:    append([]string(nil), opts.Characters...),
		music:    append([]string(nil), opts.Music...),
		inbox:    make(chan func(), inboxSize),
		done:     make(chan struct{}),
	}
	if w.clock == nil {
		w.clock = clock.New()
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.Logger != nil {
		w.log = *opts.Logger
	} else {
		w.log = zerolog.Nop()
	}
	w.timers = opts.Timers
	if w.timers == nil {
		w.timers = timers.New(w.clock, func(fn func()) { w.Post(fn) })
	}
	return w, nil
}

// Run processes posted work until ctx is cancelled.
func (w *World) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-w.inbox:
			w.exec(fn)
		}
	}
}

func (w *World) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("world handler panicked")
		}
	}()
	fn()
}

// Post queues fn to run on the world loop. It reports false once the loop
// has stopped.
func (w *World) Post(fn func()) bool {
	select {
	case w.inbox <- fn:
		return true
	case <-w.done:
		return false
	}
}

// Do runs fn on the world loop and waits for it to finish.
func (w *World) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}
	select {
	case w.inbox <- job:
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settings returns the world configuration.
func (w *World) Settings() Settings { return w.settings }

// Areas returns the area graph.
func (w *World) Areas() *AreaGraph { return w.graph }

// Registry returns the client registry.
func (w *World) Registry() *Registry { return w.registry }

// Clock returns the world clock.
func (w *World) Clock() clock.Clock { return w.clock }

// Characters returns the configured character names.
func (w *World) Characters() []string { return w.chars }

// Connect registers a new connection and places the client in the default area.
func (w *World) Connect(ctx context.Context, conn Conn) (*Client, error) {
	c, err := w.registry.Allocate(ctx, conn)
	if err != nil {
		return nil, err
	}
	c.world = w
	c.flood = NewFloodGuard(w.settings.Flood)
	c.Area = w.graph.Default()
	c.Area.AddClient(c)

	w.clientEvent(w.log.Info(), c).Str("addr", c.RealAddr()).Msg("client connected")
	return c, nil
}

// Disconnect severs the client's follow links, frees its slot, cancels its
// timers and removes it from its area.
func (w *World) Disconnect(c *Client) {
	if f := c.FollowedBy; f != nil {
		w.stopFollowing(f)
	}
	if c.Following != nil {
		c.Following.FollowedBy = nil
		c.Following = nil
	}

	w.registry.Release(c)
	w.timers.CancelAll(c.ID)
	if c.Area != nil {
		c.Area.RemoveClient(c)
	}
	w.clientEvent(w.log.Info(), c).Msg("client disconnected")
}

// CharName returns the display name for a character id.
func (w *World) CharName(id int) string {
	switch {
	case id == CharSpectator:
		return w.settings.SpectatorName
	case id == CharUnselected:
		return "SERVER_SELECT"
	case id >= 0 && id < len(w.chars):
		return w.chars[id]
	default:
		return ""
	}
}

func (w *World) clientEvent(e *zerolog.Event, c *Client) *zerolog.Event {
	e = e.Int("client_id", c.ID).Str("ipid", c.IPID)
	if c.Area != nil {
		e = e.Int("area", c.Area.ID)
	}
	return e
}
