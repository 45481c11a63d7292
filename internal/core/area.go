package core

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// AllReachable in a reachable set makes every area reachable.
const AllReachable = "<ALL>"

// LockState is the lock tier of an area.
type LockState int

const (
	LockNone LockState = iota
	LockLocked
	LockGM
	LockMod
)

func (s LockState) String() string {
	switch s {
	case LockLocked:
		return "locked"
	case LockGM:
		return "gm-locked"
	case LockMod:
		return "mod-locked"
	default:
		return "none"
	}
}

// ParseLockState maps a config value to a lock tier.
func ParseLockState(s string) (LockState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LockNone, nil
	case "locked":
		return LockLocked, nil
	case "gm", "gm-locked", "gmlocked":
		return LockGM, nil
	case "mod", "mod-locked", "modlocked":
		return LockMod, nil
	default:
		return LockNone, fmt.Errorf("unknown lock state %q", s)
	}
}

// Evidence is an item presented in an area.
type Evidence struct {
	ID          int
	Name        string
	Description string
	Image       string
	// Positions limits who sees the item. Empty means everyone.
	Positions []string
}

func (e Evidence) visibleTo(c *Client) bool {
	if c.IsStaff() || len(e.Positions) == 0 {
		return true
	}
	return slices.Contains(e.Positions, "all") || slices.Contains(e.Positions, c.Position)
}

// Area is a room clients occupy.
type Area struct {
	ID         int
	Name       string
	Background string
	Status     string
	HPDef      int
	HPPro      int

	Lights  bool
	Lobby   bool
	Private bool
	Owned   bool
	Lock    LockState

	AFKDelay  time.Duration
	AFKSendTo int

	RPGetAreaAllowed  bool
	RPGetAreasAllowed bool

	RestrictedChars map[string]struct{}
	InviteList      map[string]struct{}
	Reachable       map[string]struct{}
	// BleedsTo holds area names this area shows a blood trail towards.
	// It contains the area's own name when blood was spilled here.
	BleedsTo map[string]struct{}

	Evidence []Evidence

	clients map[*Client]struct{}
}

func newArea(id int, name string) *Area {
	return &Area{
		ID:              id,
		Name:            name,
		Lights:          true,
		RestrictedChars: make(map[string]struct{}),
		InviteList:      make(map[string]struct{}),
		Reachable:       make(map[string]struct{}),
		BleedsTo:        make(map[string]struct{}),
		clients:         make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the area. Returns true if newly added.
func (a *Area) AddClient(c *Client) bool {
	if _, exists := a.clients[c]; exists {
		return false
	}
	a.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the area. Returns true if removed.
func (a *Area) RemoveClient(c *Client) bool {
	if _, exists := a.clients[c]; !exists {
		return false
	}
	delete(a.clients, c)
	return true
}

// Has reports whether c is in the area.
func (a *Area) Has(c *Client) bool {
	_, ok := a.clients[c]
	return ok
}

// Clients returns the area's occupants ordered by client id.
func (a *Area) Clients() []*Client {
	out := make([]*Client, 0, len(a.clients))
	for c := range a.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of occupants.
func (a *Area) Len() int {
	return len(a.clients)
}

// Empty returns true if no clients are in the area.
func (a *Area) Empty() bool {
	return len(a.clients) == 0
}

// Locked reports whether any lock tier is active.
func (a *Area) Locked() bool {
	return a.Lock != LockNone
}

// Invited reports whether the identity token is on the invite list.
func (a *Area) Invited(ipid string) bool {
	_, ok := a.InviteList[ipid]
	return ok
}

// Invite adds an identity token to the invite list.
func (a *Area) Invite(ipid string) {
	a.InviteList[ipid] = struct{}{}
}

// Uninvite removes an identity token from the invite list.
func (a *Area) Uninvite(ipid string) {
	delete(a.InviteList, ipid)
}

// CanReach reports whether name is in this area's reachable set.
func (a *Area) CanReach(name string) bool {
	if _, ok := a.Reachable[AllReachable]; ok {
		return true
	}
	_, ok := a.Reachable[name]
	return ok
}

// ReachesAll reports whether the reachable set holds the all-areas marker.
func (a *Area) ReachesAll() bool {
	_, ok := a.Reachable[AllReachable]
	return ok
}

// Restricted reports whether the character name is restricted here.
func (a *Area) Restricted(charName string) bool {
	_, ok := a.RestrictedChars[charName]
	return ok
}

// HasBlood reports whether the area carries any trail marker.
func (a *Area) HasBlood() bool {
	return len(a.BleedsTo) > 0
}

// BloodTrails returns the trail markers leading out of the area, excluding
// the area's own marker.
func (a *Area) BloodTrails() []string {
	out := make([]string, 0, len(a.BleedsTo))
	for name := range a.BleedsTo {
		if name != a.Name {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ClearBlood removes every trail marker.
func (a *Area) ClearBlood() {
	clear(a.BleedsTo)
}

// EvidenceFor renders the evidence list as seen by c and records the
// client's local ordering in c.EvidenceList.
func (a *Area) EvidenceFor(c *Client) []any {
	ids := make([]int, 0, len(a.Evidence))
	out := make([]any, 0, len(a.Evidence))
	for _, e := range a.Evidence {
		if !e.visibleTo(c) {
			continue
		}
		ids = append(ids, e.ID)
		out = append(out, e.Name+"&"+e.Description+"&"+e.Image)
	}
	c.EvidenceList = ids
	return out
}
