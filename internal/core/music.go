package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/courtserver/internal/proto"
)

// afkKick is the argument stored with the AFK timer.
type afkKick struct {
	Delay  time.Duration
	SendTo int
}

// ReloadMusicList sends c the names of areas reachable from its current area
// followed by the music list.
func (w *World) ReloadMusicList(c *Client) {
	items := make([]any, 0, w.graph.Len()+len(w.music))
	all := c.Area.ReachesAll() || c.IsStaff() || c.Transient
	for _, a := range w.graph.Areas() {
		if all || c.Area.CanReach(a.Name) {
			items = append(items, a.Name)
		}
	}
	for _, m := range w.music {
		items = append(items, m)
	}
	c.SendCommand(proto.CmdMusicList, items...)
}

// PlayMusic changes the track in c's area. Non-staff clients are rate
// limited by their flood guard. A sneaking client is revealed first.
func (w *World) PlayMusic(c *Client, track string) error {
	if len(w.music) > 0 && !slices.Contains(w.music, track) {
		return userError(ErrCodeUnknownTrack, fmt.Sprintf("Unknown track %s.", track))
	}
	if !c.IsStaff() {
		if left, ok := c.flood.Check(w.clock.Now()); !ok {
			w.clientEvent(w.log.Info(), c).Dur("mute", left).Msg("music flood guard tripped")
			return userError(ErrCodeFlooding, fmt.Sprintf(
				"You changed the music too many times. Please try again after %s.", formatRemaining(left)))
		}
	}
	if !c.Visible {
		w.ChangeVisibility(c, true)
	}
	w.Broadcast(Filter{Area: c.Area}, proto.CmdMusicChange, track, c.CharID, c.Showname)
	w.RefreshAFKTimer(c)
	return nil
}

// RefreshAFKTimer restarts the AFK kick timer for c's current area.
func (w *World) RefreshAFKTimer(c *Client) {
	if c.Area.AFKDelay <= 0 {
		w.timers.Cancel(c.ID, taskAFKKick)
		return
	}
	args := afkKick{Delay: c.Area.AFKDelay, SendTo: c.Area.AFKSendTo}
	w.timers.Schedule(c.ID, taskAFKKick, args.Delay, args, func() {
		w.kickAFK(c, args)
	})
}

func (w *World) kickAFK(c *Client, args afkKick) {
	if c.IsSpectator() {
		return
	}
	dest, err := w.graph.ByID(args.SendTo)
	if err != nil {
		w.clientEvent(w.log.Error(), c).Err(err).Msg("afk destination missing")
		return
	}
	from := c.Area
	if from != dest {
		flags := MoveFlags{OverridePassages: true, OverrideEffects: true, IgnoreBleeding: true}
		if err := w.ChangeArea(c, dest, flags); err != nil {
			w.clientEvent(w.log.Warn(), c).Err(err).Msg("afk kick move failed")
			return
		}
	}
	c.SendHostMessage(fmt.Sprintf(
		"You were kicked from area %d to area %d to the character selection screen for being AFK for %s.",
		from.ID, dest.ID, formatRemaining(args.Delay)))
	w.CharSelect(c)
	w.clientEvent(w.log.Info(), c).Int("from", from.ID).Msg("afk kicked")
}
