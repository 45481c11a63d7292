package core

import "fmt"

// ChangeVisibility toggles sneaking. Going invisible may impose the sneak
// handicap over a weaker custom one; going visible restores it.
func (w *World) ChangeVisibility(c *Client, visible bool) {
	if visible {
		w.reveal(c)
	} else {
		w.sneak(c)
	}
}

func (w *World) sneak(c *Client) {
	c.SendHostMessage("You are now sneaking.")
	c.Visible = false

	sneak := w.settings.SneakHandicap
	if sneak > 0 {
		h, ok := w.CurrentHandicap(c)
		switch {
		case !ok:
			w.imposeSneakHandicap(c)
		case h.Name == SneakHandicapName:
			// already imposed
		default:
			left := h.Remaining(w.clock.Now())
			if !w.timers.Pending(c.ID, taskHandicap) {
				left = 0
			}
			if left < sneak {
				backup := h
				c.handicapBackup = &backup
				w.BroadcastHost(Filter{Except: c, Audience: StaffOnly}, fmt.Sprintf(
					"%s was automatically imposed the longer movement handicap \"%s\" of length %d seconds in area %s (%d).",
					c.CharName(), SneakHandicapName, seconds(sneak), c.Area.Name, c.Area.ID))
				w.imposeSneakHandicap(c)
			}
		}
	}
	w.clientEvent(w.log.Info(), c).Msg("client is now sneaking")
}

func (w *World) imposeSneakHandicap(c *Client) {
	sneak := w.settings.SneakHandicap
	c.SendHostMessage(fmt.Sprintf(
		"You were automatically imposed a movement handicap \"%s\" of length %d seconds when changing areas.",
		SneakHandicapName, seconds(sneak)))
	w.ImposeHandicap(c, sneak, SneakHandicapName, true)
}

func (w *World) reveal(c *Client) {
	c.SendHostMessage("You are no longer sneaking.")
	c.Visible = true

	if h, ok := w.CurrentHandicap(c); ok && h.Name == SneakHandicapName {
		if backup := c.handicapBackup; w.settings.SneakHandicap > 0 && backup != nil {
			w.BroadcastHost(Filter{Except: c, Audience: StaffOnly}, fmt.Sprintf(
				"%s was automatically imposed their former movement handicap \"%s\" of length %d seconds after being revealed in area %s (%d).",
				c.CharName(), backup.Name, seconds(backup.Length), c.Area.Name, c.Area.ID))
			c.SendHostMessage(fmt.Sprintf(
				"You were automatically imposed your former movement handicap \"%s\" of length %d seconds when changing areas.",
				backup.Name, seconds(backup.Length)))
			restored := *backup
			restored.Start = w.clock.Now()
			w.armHandicap(c, restored)
		} else {
			w.timers.Cancel(c.ID, taskHandicap)
		}
	}
	c.handicapBackup = nil
	w.clientEvent(w.log.Info(), c).Msg("client is no longer sneaking")
}
