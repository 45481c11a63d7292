package core

import (
	"fmt"
	"sort"
	"strings"
)

// SendAreaList sends c an overview of every area with user counts. Sneaking
// clients are only counted for staff.
func (w *World) SendAreaList(c *Client) {
	var b strings.Builder
	b.WriteString("=== Areas ===")
	for _, a := range w.graph.Areas() {
		owner := "FREE"
		if a.Owned {
			for _, o := range a.Clients() {
				if o.HasRole(RoleCaseManager) {
					owner = "MASTER: " + o.CharName()
					break
				}
			}
		}

		users := 0
		for _, o := range a.Clients() {
			if o.CharID == CharUnselected {
				continue
			}
			if c.IsStaff() || o.Visible {
				users++
			}
		}

		lock := ""
		if a.Locked() {
			lock = "[LOCKED]"
		}
		fmt.Fprintf(&b, "\r\nArea %d: %s (users: %d) %s", a.ID, a.Name, users, lock)
		if a.Owned {
			fmt.Fprintf(&b, " [%s]", owner)
		}
		if c.Area == a {
			b.WriteString(" [*]")
		}
	}
	c.SendHostMessage(b.String())
}

// SendLimitedAreaList sends c the area names only.
func (w *World) SendLimitedAreaList(c *Client) {
	var b strings.Builder
	b.WriteString("=== Areas ===")
	for _, a := range w.graph.Areas() {
		fmt.Fprintf(&b, "\r\nArea %d: %s", a.ID, a.Name)
		if c.Area == a {
			b.WriteString(" [*]")
		}
	}
	c.SendHostMessage(b.String())
}

// AreaInfo describes the occupants of one area as seen by c. With modsOnly
// sneaking moderators are listed as well.
func (w *World) AreaInfo(c *Client, areaID int, modsOnly, shownames bool) (string, error) {
	a, err := w.graph.ByID(areaID)
	if err != nil {
		return "", err
	}

	var listed []*Client
	for _, o := range a.Clients() {
		if o.CharID == CharUnselected {
			continue
		}
		if o == c || c.IsStaff() || o.Visible || (modsOnly && o.HasRole(RoleModerator)) {
			listed = append(listed, o)
		}
	}
	sort.SliceStable(listed, func(i, j int) bool { return listed[i].CharName() < listed[j].CharName() })

	var b strings.Builder
	fmt.Fprintf(&b, "= Area %d: %s ==", a.ID, a.Name)
	for _, o := range listed {
		fmt.Fprintf(&b, "\r\n[%d] %s", o.ID, o.CharName())
		if shownames && o.Showname != "" {
			fmt.Fprintf(&b, " (%s)", o.Showname)
		}
		if !o.Visible {
			b.WriteString(" (S)")
		}
		if c.HasRole(RoleModerator) {
			fmt.Fprintf(&b, " (%s)", o.IPID)
		}
	}
	return b.String(), nil
}

// SendAreaInfo sends c the occupants of one area, or of every area when
// areaID is -1. Non-staff are subject to the area's RP restrictions and
// cannot look around in the dark.
func (w *World) SendAreaInfo(c *Client, areaID int, modsOnly, shownames bool) error {
	if !c.IsStaff() {
		if (areaID == -1 && !c.Area.RPGetAreasAllowed) || (areaID != -1 && !c.Area.RPGetAreaAllowed) {
			return userError(ErrCodeRestricted, "This command has been restricted to authorized users only in this area while in RP mode.")
		}
		if !c.Area.Lights {
			return userError(ErrCodeLightsOff, "The lights are off. You cannot see anything.")
		}
	}

	if areaID != -1 {
		info, err := w.AreaInfo(c, areaID, modsOnly, shownames)
		if err != nil {
			return err
		}
		c.SendHostMessage(info)
		return nil
	}

	var b strings.Builder
	b.WriteString("== Area List ==")
	for _, a := range w.graph.Areas() {
		if !w.listable(c, a) {
			continue
		}
		info, err := w.AreaInfo(c, a.ID, modsOnly, shownames)
		if err != nil {
			return err
		}
		b.WriteString("\r\n")
		b.WriteString(info)
	}
	c.SendHostMessage(b.String())
	return nil
}

// listable reports whether a shows up in c's full area listing.
func (w *World) listable(c *Client, a *Area) bool {
	if c.IsStaff() {
		return !a.Empty()
	}
	seen := false
	for _, o := range a.Clients() {
		if o.Visible || o == c {
			seen = true
			break
		}
	}
	return seen && (c.Area.CanReach(a.Name) || c.Transient)
}
