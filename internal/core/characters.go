package core

import (
	"fmt"

	"github.com/vovakirdan/courtserver/internal/proto"
)

// IsValidCharID reports whether id names a character or the spectator.
func (w *World) IsValidCharID(id int) bool {
	return id >= CharSpectator && id < len(w.chars)
}

// charsUnusable returns the characters that cannot be picked in a.
func (w *World) charsUnusable(a *Area, allowRestricted bool) map[int]bool {
	out := make(map[int]bool)
	for _, c := range a.Clients() {
		if c.CharID >= 0 {
			out[c.CharID] = true
		}
	}
	if !allowRestricted {
		for id, name := range w.chars {
			if a.Restricted(name) {
				out[id] = true
			}
		}
	}
	return out
}

func (w *World) charAvailable(a *Area, id int, allowRestricted bool) bool {
	if id < 0 {
		return true
	}
	return !w.charsUnusable(a, allowRestricted)[id]
}

func (w *World) randomAvailableChar(a *Area, allowRestricted bool) (int, bool) {
	unusable := w.charsUnusable(a, allowRestricted)
	free := make([]int, 0, len(w.chars))
	for id := range w.chars {
		if !unusable[id] {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return 0, false
	}
	return free[w.rng.IntN(len(free))], true
}

// ChangeCharacter switches c to the character id as seen from target, or
// from c's own area when target is nil. With force the current holder of
// the character is sent back to character select.
func (w *World) ChangeCharacter(c *Client, id int, force bool, target *Area) error {
	if target == nil {
		target = c.Area
	}
	if !w.IsValidCharID(id) {
		return userError(ErrCodeInvalidCharacter, "Invalid Character ID.")
	}
	if !w.charAvailable(target, id, c.IsStaff()) {
		if !force {
			return userError(ErrCodeCharacterTaken, fmt.Sprintf("Character %s not available.", w.CharName(id)))
		}
		for _, o := range target.Clients() {
			if o != c && o.CharID == id {
				w.CharSelect(o)
			}
		}
	}

	leavingSpectator := c.CharID < 0 && id >= 0
	old := c.CharName()
	c.CharID = id
	c.Position = ""
	if leavingSpectator {
		w.RefreshAFKTimer(c)
	}
	c.SendCommand(proto.CmdCharPick, c.ID, "CID", c.CharID)

	w.clientEvent(w.log.Info(), c).Str("from", old).Str("to", c.CharName()).Msg("changed character")
	return nil
}

// ReloadCharacter forces c back onto its current character.
func (w *World) ReloadCharacter(c *Client) error {
	return w.ChangeCharacter(c, c.CharID, true, nil)
}

// CharSelect sends c back to the character selection screen.
func (w *World) CharSelect(c *Client) {
	c.CharID = CharSpectator
	w.SendDone(c)
}

// SendDone sends the area snapshot that completes a client's join.
func (w *World) SendDone(c *Client) {
	unusable := w.charsUnusable(c.Area, c.IsStaff())
	if !c.IsStaff() {
		for _, o := range c.Area.Clients() {
			if !o.Visible && o.CharID >= 0 {
				delete(unusable, o.CharID)
			}
		}
	}
	bitmap := make([]any, len(w.chars))
	for id := range w.chars {
		if unusable[id] {
			bitmap[id] = -1
		} else {
			bitmap[id] = 0
		}
	}

	c.SendCommand(proto.CmdCharsCheck, bitmap...)
	c.SendCommand(proto.CmdHealth, 1, c.Area.HPDef)
	c.SendCommand(proto.CmdHealth, 2, c.Area.HPPro)
	c.SendCommand(proto.CmdBackground, c.Area.Background)
	c.SendCommand(proto.CmdEvidenceList, c.Area.EvidenceFor(c)...)
	c.SendCommand(proto.CmdMusicMode, 1)
	if c.CharID == CharUnselected {
		c.CharID = CharSpectator
	}
	c.SendCommand(proto.CmdDone)
}
