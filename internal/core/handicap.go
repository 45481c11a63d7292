package core

import (
	"fmt"
	"time"
)

// Timer names.
const (
	taskHandicap = "as_handicap"
	taskAFKKick  = "as_afk_kick"
)

// SneakHandicapName names the handicap imposed automatically on sneaking clients.
const SneakHandicapName = "Sneaking"

// Handicap is a movement delay snapshot.
type Handicap struct {
	Start    time.Time
	Length   time.Duration
	Name     string
	Announce bool
}

// Remaining returns how much of the delay is left at now.
func (h Handicap) Remaining(now time.Time) time.Duration {
	left := h.Length - now.Sub(h.Start)
	if left < 0 {
		return 0
	}
	return left
}

// ImposeHandicap replaces the client's movement handicap. The delay applies
// again after every area change until it is cleared.
func (w *World) ImposeHandicap(c *Client, length time.Duration, name string, announce bool) {
	if name != SneakHandicapName {
		c.handicapBackup = nil
	}
	w.armHandicap(c, Handicap{Start: w.clock.Now(), Length: length, Name: name, Announce: announce})
}

// CurrentHandicap returns the client's handicap snapshot, if any.
func (w *World) CurrentHandicap(c *Client) (Handicap, bool) {
	args, ok := w.timers.Lookup(c.ID, taskHandicap)
	if !ok {
		return Handicap{}, false
	}
	h, ok := args.(Handicap)
	return h, ok
}

// ClearHandicap removes the client's handicap and any backup.
func (w *World) ClearHandicap(c *Client) bool {
	c.handicapBackup = nil
	return w.timers.Cancel(c.ID, taskHandicap)
}

// MovementBlocked returns the handicap that currently prevents the client
// from changing areas.
func (w *World) MovementBlocked(c *Client) (Handicap, bool) {
	h, ok := w.CurrentHandicap(c)
	if !ok || !w.timers.Pending(c.ID, taskHandicap) {
		return Handicap{}, false
	}
	if h.Remaining(w.clock.Now()) <= 0 {
		return Handicap{}, false
	}
	return h, true
}

// HandicapBackup returns the custom handicap masked by the sneak handicap.
func (w *World) HandicapBackup(c *Client) (Handicap, bool) {
	if c.handicapBackup == nil {
		return Handicap{}, false
	}
	return *c.handicapBackup, true
}

func (w *World) armHandicap(c *Client, h Handicap) {
	w.timers.Schedule(c.ID, taskHandicap, h.Length, h, func() {
		w.handicapExpired(c, h)
	})
}

// rearmHandicap restarts an existing handicap so it applies to the next move.
func (w *World) rearmHandicap(c *Client) {
	h, ok := w.CurrentHandicap(c)
	if !ok {
		return
	}
	h.Start = w.clock.Now()
	w.armHandicap(c, h)
}

func (w *World) handicapExpired(c *Client, h Handicap) {
	if h.Announce && !c.IsStaff() {
		c.SendHostMessage(fmt.Sprintf("Your movement handicap '%s' when changing areas has expired.", h.Name))
	}
}

// formatRemaining renders a duration rounded up to whole seconds.
func formatRemaining(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%d seconds", secs)
	}
	return fmt.Sprintf("%d minutes and %d seconds", secs/60, secs%60)
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
