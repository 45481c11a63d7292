package core

import (
	"fmt"
	"time"
)

// Follow makes c trail target. A target has at most one follower, so an
// existing follower is evicted.
func (w *World) Follow(c, target *Client) error {
	if target == c {
		return userError(ErrCodeSelfFollow, "You cannot follow yourself.")
	}
	if target == c.Following {
		return userError(ErrCodeAlreadyFollowing, "You are already following that player.")
	}

	if prev := target.FollowedBy; prev != nil {
		prev.SendHostMessage(fmt.Sprintf("%s started following your target, so you are no longer following them.", c.Name))
		w.stopFollowing(prev)
	}
	if c.Following != nil {
		w.stopFollowing(c)
	}

	c.SendHostMessage(fmt.Sprintf("Began following client %d at %s", target.ID, w.clock.Now().Format(time.ANSIC)))
	c.Following = target
	target.FollowedBy = c

	if c.Area != target.Area {
		w.followArea(c, target.Area, false)
	}
	return nil
}

// Unfollow stops c from following anyone.
func (w *World) Unfollow(c *Client) error {
	if c.Following == nil {
		return userError(ErrCodeNotFollowing, "You are not following anyone.")
	}
	w.stopFollowing(c)
	return nil
}

func (w *World) stopFollowing(c *Client) {
	c.SendHostMessage(fmt.Sprintf("Stopped following client %d at %s.", c.Following.ID, w.clock.Now().Format(time.ANSIC)))
	c.Following.FollowedBy = nil
	c.Following = nil
}

// followArea moves a follower after its target. Failures are reported to the
// follower only.
func (w *World) followArea(c *Client, area *Area, justMoved bool) {
	if justMoved {
		c.SendHostMessage(fmt.Sprintf("Followed user moved to %s at %s", area.Name, w.clock.Now().Format(time.ANSIC)))
	} else {
		c.SendHostMessage(fmt.Sprintf("Followed user was at %s", area.Name))
	}

	if err := w.ChangeArea(c, area, MoveFlags{IgnoreFollowers: true}); err != nil {
		if msg, ok := UserMessage(err); ok {
			c.SendHostMessage(fmt.Sprintf("Unable to follow to %s: %s", area.Name, msg))
			return
		}
		w.clientEvent(w.log.Warn(), c).Err(err).Str("to", area.Name).Msg("follow move failed")
	}
}
