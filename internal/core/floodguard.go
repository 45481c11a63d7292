package core

import "time"

// FloodGuard is a sliding-window limiter allowing at most TimesPerInterval
// actions within Interval, muting for Mute when exceeded.
type FloodGuard struct {
	settings FloodSettings
	stamps   []time.Time
	filled   []bool
	cursor   int
	mutedAt  time.Time
	muted    bool
}

// NewFloodGuard creates a guard with an empty history.
func NewFloodGuard(s FloodSettings) *FloodGuard {
	n := max(s.TimesPerInterval, 1)
	return &FloodGuard{
		settings: s,
		stamps:   make([]time.Time, n),
		filled:   make([]bool, n),
	}
}

// Check records an action at now. It returns false and the remaining mute
// time when the action must be refused.
func (g *FloodGuard) Check(now time.Time) (time.Duration, bool) {
	if g.muted {
		if elapsed := now.Sub(g.mutedAt); elapsed < g.settings.Mute {
			return g.settings.Mute - elapsed, false
		}
		g.muted = false
	}

	oldest := (g.cursor + 1) % len(g.stamps)
	if g.filled[oldest] && now.Sub(g.stamps[oldest]) < g.settings.Interval {
		g.muted = true
		g.mutedAt = now
		return g.settings.Mute, false
	}

	g.cursor = oldest
	g.stamps[oldest] = now
	g.filled[oldest] = true
	return 0, true
}

// Muted reports whether a mute is active at now.
func (g *FloodGuard) Muted(now time.Time) bool {
	return g.muted && now.Sub(g.mutedAt) < g.settings.Mute
}
