package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/courtserver/internal/proto"
)

// MoveFlags relax the checks and effects of an area change.
type MoveFlags struct {
	// OverrideAll skips every check. Reserved for area reloads.
	OverrideAll bool
	// OverridePassages ignores reachability from the source area.
	OverridePassages bool
	// OverrideEffects ignores movement handicaps.
	OverrideEffects bool
	// IgnoreBleeding leaves no blood trail and sends no blood notices.
	IgnoreBleeding bool
	// IgnoreFollowers does not drag the client's follower along.
	IgnoreFollowers bool
}

// ChangeArea moves c into target. Checks run in a fixed order and the first
// failure aborts with nothing changed.
func (w *World) ChangeArea(c *Client, target *Area, flags MoveFlags) error {
	if target == nil || c.Area == nil {
		return &WorldError{Kind: "area", Ref: "<nil>"}
	}
	source := c.Area
	oldChar := c.CharName()

	if !flags.OverrideAll {
		if err := w.checkMove(c, source, target, flags); err != nil {
			return err
		}
		if err := w.ensureCharacter(c, target, oldChar); err != nil {
			return err
		}
	}

	w.announceMove(c, source, target, oldChar, flags)
	w.commitMove(c, source, target, flags)
	return nil
}

// ChangeAreaByID resolves the area id and moves c there.
func (w *World) ChangeAreaByID(c *Client, id int, flags MoveFlags) error {
	target, err := w.graph.ByID(id)
	if err != nil {
		return err
	}
	return w.ChangeArea(c, target, flags)
}

func (w *World) checkMove(c *Client, source, target *Area, flags MoveFlags) error {
	if !c.IsStaff() && !flags.OverrideEffects {
		if h, ok := w.MovementBlocked(c); ok {
			return moveError(ReasonHandicapped, fmt.Sprintf(
				"You are still under the effects of movement handicap '%s'. Please wait %s before changing areas.",
				h.Name, formatRemaining(h.Remaining(w.clock.Now()))))
		}
	}

	if target.Lobby && !c.Visible && !c.HasRole(RoleModerator) && !c.HasRole(RoleCaseManager) {
		return moveError(ReasonLobbySneaking,
			"Lobby areas do not let non-authorized users remain sneaking. Please change the music, speak IC or ask a staff member to reveal you.")
	}
	if target.Private && !c.Visible {
		return moveError(ReasonPrivateSneaking,
			"Private areas do not let sneaked users in. Please change the music, speak IC or ask a staff member to reveal you.")
	}

	if source == target {
		return moveError(ReasonAlreadyThere, "User is already in target area.")
	}

	invited := target.Invited(c.IPID)
	switch target.Lock {
	case LockLocked:
		if !c.HasRole(RoleModerator) && !c.HasRole(RoleGameMaster) && !invited {
			return moveError(ReasonLocked, "That area is locked.")
		}
	case LockGM:
		if !c.HasRole(RoleModerator) && !c.HasRole(RoleGameMaster) && !invited {
			return moveError(ReasonGMLocked, "That area is gm-locked.")
		}
	case LockMod:
		if !c.HasRole(RoleModerator) && !invited {
			return moveError(ReasonModLocked, "That area is mod-locked.")
		}
	}

	if !source.CanReach(target.Name) && !c.Transient && !c.IsStaff() && !flags.OverridePassages {
		return moveError(ReasonUnreachable, w.unreachableMessage(source))
	}
	return nil
}

func (w *World) unreachableMessage(source *Area) string {
	var b strings.Builder
	b.WriteString("Selected area cannot be reached from the current one without authorization. Try one of the following instead: ")

	var options []*Area
	for name := range source.Reachable {
		if name == source.Name {
			continue
		}
		if a, err := w.graph.ByName(name); err == nil {
			options = append(options, a)
		}
	}
	if len(options) == 0 {
		b.WriteString("\r\n*No areas available.")
		return b.String()
	}
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	for _, a := range options {
		fmt.Fprintf(&b, "\r\n*(%d) %s", a.ID, a.Name)
	}
	return b.String()
}

// ensureCharacter swaps c to a random free character when its current one
// cannot be used in target.
func (w *World) ensureCharacter(c *Client, target *Area, oldChar string) error {
	if w.charAvailable(target, c.CharID, c.IsStaff()) {
		return nil
	}
	id, ok := w.randomAvailableChar(target, c.IsStaff())
	if !ok {
		return moveError(ReasonNoCharacters, "No available characters in that area.")
	}
	if err := w.ChangeCharacter(c, id, false, target); err != nil {
		return err
	}
	if target.Restricted(oldChar) {
		c.SendHostMessage(fmt.Sprintf("Your character was restricted in your new area, switched to %s.", c.CharName()))
	} else {
		c.SendHostMessage(fmt.Sprintf("Your character was taken in your new area, switched to %s.", c.CharName()))
	}
	return nil
}

// announceMove sends every notice tied to a move that is about to happen.
func (w *World) announceMove(c *Client, source, target *Area, oldChar string, flags MoveFlags) {
	c.SendHostMessage(fmt.Sprintf("Changed area to %s.[%s]", target.Name, target.Status))

	if c.Showname != "" && w.shownameTaken(c, c.Showname, target) {
		c.SendHostMessage(fmt.Sprintf("Your showname %s was already used in this area. Resetting it to none.", c.Showname))
		w.recordShowname(c, "", true)
		w.clientEvent(w.log.Info(), c).Str("area_name", target.Name).Msg("showname removed, already used in new area")
	}

	if !target.Lights {
		c.SendHostMessage("You enter a pitch dark room.")
	}

	if source != target {
		w.announcePresence(c, source, target, oldChar)
		if c.Bleeding {
			source.BleedsTo[source.Name] = struct{}{}
			target.BleedsTo[target.Name] = struct{}{}
		}
		if c.Bleeding && !flags.IgnoreBleeding {
			source.BleedsTo[target.Name] = struct{}{}
			target.BleedsTo[source.Name] = struct{}{}
			c.SendHostMessage("You are bleeding.")
			w.announceBleedingArrival(c, target)
			w.announceBleedingDeparture(c, source)
		}
	}

	if info := w.bleedersSummary(c, target); info != "" {
		c.SendHostMessage(info)
	}
	if info := w.bloodTrailReport(target); info != "" {
		c.SendHostMessage(info)
	}

	w.clientEvent(w.log.Info(), c).
		Str("char", c.CharName()).
		Str("from", source.Name).
		Str("to", target.Name).
		Msg("changed area")
}

func (w *World) announcePresence(c *Client, source, target *Area, oldChar string) {
	if c.IsSpectator() {
		return
	}
	if c.Autopass {
		w.BroadcastHost(Filter{Except: c, Area: source, Audience: lightsAudience(source, c)},
			fmt.Sprintf("%s has left to the %s.", oldChar, target.Name))
		w.BroadcastHost(Filter{Except: c, Area: target, Audience: lightsAudience(target, c)},
			fmt.Sprintf("%s has entered from the %s.", c.CharName(), source.Name))
	}
	if !c.Visible {
		return
	}
	if !source.Lights {
		w.BroadcastHost(Filter{Except: c, Area: source, Audience: NonStaffOnly}, "You hear footsteps going out of the room.")
	}
	if !target.Lights {
		w.BroadcastHost(Filter{Except: c, Area: target, Audience: NonStaffOnly}, "You hear footsteps coming into the room.")
	}
}

// lightsAudience lets everyone see the mover when the area is lit and the
// mover is visible. Otherwise only staff do.
func lightsAudience(a *Area, c *Client) Audience {
	if a.Lights && c.Visible {
		return Everyone
	}
	return StaffOnly
}

// commitMove updates membership and refreshes the mover's view of the new area.
func (w *World) commitMove(c *Client, source, target *Area, flags MoveFlags) {
	source.RemoveClient(c)
	c.Area = target
	target.AddClient(c)

	c.SendCommand(proto.CmdHealth, 1, target.HPDef)
	c.SendCommand(proto.CmdHealth, 2, target.HPPro)
	c.SendCommand(proto.CmdBackground, target.Background)
	c.SendCommand(proto.CmdEvidenceList, target.EvidenceFor(c)...)

	if c.FollowedBy != nil && !flags.IgnoreFollowers {
		w.followArea(c.FollowedBy, target, true)
	}

	w.ReloadMusicList(c)
	w.RefreshAFKTimer(c)
	w.rearmHandicap(c)
}
