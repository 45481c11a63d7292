package core

import "github.com/vovakirdan/courtserver/internal/proto"

// Audience selects recipients by staff status.
type Audience int

const (
	Everyone Audience = iota
	StaffOnly
	NonStaffOnly
)

// Filter describes the recipients of a broadcast. Zero fields match everyone.
type Filter struct {
	// Except is never a recipient.
	Except *Client
	// Area restricts recipients to one area's occupants.
	Area     *Area
	Audience Audience
}

// Match reports whether c is a recipient.
func (f Filter) Match(c *Client) bool {
	if c == f.Except {
		return false
	}
	if f.Area != nil && c.Area != f.Area {
		return false
	}
	switch f.Audience {
	case StaffOnly:
		return c.IsStaff()
	case NonStaffOnly:
		return !c.IsStaff()
	default:
		return true
	}
}

// Broadcast sends a command to every client matching f.
func (w *World) Broadcast(f Filter, name string, args ...any) int {
	sent := 0
	for _, c := range w.recipients(f) {
		c.SendCommand(name, args...)
		sent++
	}
	return sent
}

// BroadcastHost sends a host chat line to every client matching f.
func (w *World) BroadcastHost(f Filter, msg string) int {
	return w.Broadcast(f, proto.CmdHostChat, w.settings.Hostname, msg)
}

func (w *World) recipients(f Filter) []*Client {
	var src []*Client
	if f.Area != nil {
		src = f.Area.Clients()
	} else {
		src = w.registry.Clients()
	}
	out := src[:0:0]
	for _, c := range src {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
