package core

import (
	"fmt"
	"strings"
)

// announceBleedingArrival tells the target area's occupants that a bleeding
// client is arriving. Non-staff and staff get different lines.
func (w *World) announceBleedingArrival(c *Client, target *Area) {
	hadBleeding := false
	for _, o := range target.Clients() {
		if o != c && o.Bleeding {
			hadBleeding = true
			break
		}
	}
	name := c.CharName()

	var normal, staff string
	switch {
	case c.Visible && target.Lights:
		normal = fmt.Sprintf("You see %s arrive and bleeding.", name)
		staff = normal
	case !c.Visible && target.Lights:
		normal = fmt.Sprintf("You start hearing %s drops of blood.", pick(hadBleeding, "more", "faint"))
		staff = fmt.Sprintf("%s arrived to the area while bleeding and sneaking.", name)
	case c.Visible && !target.Lights:
		normal = fmt.Sprintf("You start hearing and smelling %sdrips of blood.", pick(hadBleeding, "more ", ""))
		staff = fmt.Sprintf("%s arrived to the darkened area while bleeding.", name)
	default:
		word := pick(hadBleeding, "more ", "")
		if w.settings.LegacySneakDarkWording {
			word = name
		}
		normal = fmt.Sprintf("You start hearing and smelling %sdrips of blood.", word)
		staff = fmt.Sprintf("%s arrived to the darkened area while bleeding and sneaking.", name)
	}

	w.BroadcastHost(Filter{Except: c, Area: target, Audience: NonStaffOnly}, normal)
	w.BroadcastHost(Filter{Except: c, Area: target, Audience: StaffOnly}, staff)
}

// announceBleedingDeparture tells the source area's occupants that a
// bleeding client left. A visible bleeder leaving a lit area needs no notice.
func (w *World) announceBleedingDeparture(c *Client, source *Area) {
	bleeders := 0
	for _, o := range source.Clients() {
		if o.Bleeding {
			bleeders++
		}
	}
	sole := bleeders == 1
	name := c.CharName()

	var normal, staff string
	switch {
	case c.Visible && source.Lights:
		return
	case !c.Visible && source.Lights:
		normal = fmt.Sprintf("You %s drops of blood.", pick(sole, "stop hearing", "start hearing less"))
		staff = fmt.Sprintf("%s left the area while bleeding and sneaking.", name)
	case c.Visible && !source.Lights:
		normal = fmt.Sprintf("You %s drops of blood.", pick(sole, "stop hearing and smelling", "start hearing and smelling less"))
		staff = fmt.Sprintf("%s left the darkened area while bleeding.", name)
	default:
		normal = fmt.Sprintf("You %s drops of blood.", pick(sole, "stop hearing and smelling", "start hearing and smelling less"))
		staff = fmt.Sprintf("%s left the darkened area while bleeding and sneaking.", name)
	}

	w.BroadcastHost(Filter{Except: c, Area: source, Audience: NonStaffOnly}, normal)
	w.BroadcastHost(Filter{Except: c, Area: source, Audience: StaffOnly}, staff)
}

// bleedersSummary describes to c who else is bleeding in target.
func (w *World) bleedersSummary(c *Client, target *Area) string {
	var visible, sneaking []string
	for _, o := range target.Clients() {
		if o == c || !o.Bleeding {
			continue
		}
		if o.Visible {
			visible = append(visible, o.CharName())
		} else {
			sneaking = append(sneaking, o.CharName())
		}
	}
	if len(visible)+len(sneaking) == 0 {
		return ""
	}
	if !target.Lights && !c.IsStaff() {
		return "You hear faint drops of blood."
	}

	var info, sneakInfo string
	switch len(visible) {
	case 0:
	case 1:
		info = fmt.Sprintf("You see %s is bleeding", visible[0])
	default:
		info = fmt.Sprintf("You see %s are bleeding", joinNames(visible))
	}
	switch {
	case len(sneaking) == 0:
	case !c.IsStaff():
		sneakInfo = "You hear faint drops of blood"
	case len(sneaking) == 1:
		sneakInfo = fmt.Sprintf("You see %s is bleeding while sneaking", sneaking[0])
	default:
		sneakInfo = fmt.Sprintf("You see %s are bleeding while sneaking", joinNames(sneaking))
	}

	if info == "" {
		return sneakInfo + "."
	}
	if sneakInfo != "" {
		info = info + ", and " + strings.ToLower(sneakInfo[:1]) + sneakInfo[1:]
	}
	return info + "."
}

// bloodTrailReport describes the blood markers in target. Trail order is
// shuffled on every call.
func (w *World) bloodTrailReport(target *Area) string {
	if !target.HasBlood() {
		return ""
	}
	trails := target.BloodTrails()
	if len(trails) == 0 {
		return "You spot some blood in the area."
	}
	w.rng.Shuffle(len(trails), func(i, j int) { trails[i], trails[j] = trails[j], trails[i] })

	for i := range trails {
		trails[i] = "the " + trails[i]
	}
	return fmt.Sprintf("You spot a blood trail leading to %s.", joinNames(trails))
}

// joinNames renders "a", "a and b" or "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
