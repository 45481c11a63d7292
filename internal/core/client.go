package core

import (
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/proto"
)

// Role is a staff privilege. Roles combine freely.
type Role uint8

const (
	RoleModerator Role = 1 << iota
	RoleCaseManager
	RoleGameMaster
)

func (r Role) String() string {
	switch r {
	case RoleModerator:
		return auth.RoleModerator
	case RoleCaseManager:
		return auth.RoleCaseManager
	case RoleGameMaster:
		return auth.RoleGameMaster
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Character sentinels.
const (
	CharSpectator  = -1
	CharUnselected = -2
)

// Conn is the transport boundary a client writes to.
type Conn interface {
	Send(raw string) error
	RemoteAddr() string
	Close() error
}

// ShownameEntry is one line of the append-only showname log.
type ShownameEntry struct {
	At     time.Time
	Forced bool
	Value  string
}

// Client is a connected participant as seen by the core layer.
type Client struct {
	ID       int
	IPID     string
	HDID     string
	Name     string
	CharID   int
	Area     *Area
	Position string
	Showname string

	Visible   bool
	Bleeding  bool
	Autopass  bool
	Transient bool
	Muted     bool
	OOCMuted  bool
	InRP      bool

	Following  *Client
	FollowedBy *Client

	// EvidenceList maps this client's local evidence positions to evidence ids.
	EvidenceList []int

	roles          Role
	conn           Conn
	world          *World
	flood          *FloodGuard
	handicapBackup *Handicap
	shownames      []ShownameEntry
	modCallAt      time.Time
}

func newClient(id int, ipid string, conn Conn) *Client {
	return &Client{
		ID:      id,
		IPID:    ipid,
		CharID:  CharUnselected,
		Visible: true,
		conn:    conn,
	}
}

// HasRole reports whether the client holds role.
func (c *Client) HasRole(role Role) bool {
	return c.roles&role != 0
}

// GrantRole adds role to the client.
func (c *Client) GrantRole(role Role) {
	c.roles |= role
}

// RevokeRole removes role from the client.
func (c *Client) RevokeRole(role Role) {
	c.roles &^= role
}

// IsStaff reports whether the client holds any staff role.
func (c *Client) IsStaff() bool {
	return c.roles != 0
}

// IsSpectator reports whether the client has no character in play.
func (c *Client) IsSpectator() bool {
	return c.CharID < 0
}

// RealAddr returns the host part of the connection's remote address.
func (c *Client) RealAddr() string {
	if c.conn == nil {
		return ""
	}
	addr := c.conn.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// CharName returns the display name of the client's character.
func (c *Client) CharName() string {
	if c.world == nil {
		return ""
	}
	return c.world.CharName(c.CharID)
}

// ShownameHistory returns a copy of the client's showname log.
func (c *Client) ShownameHistory() []ShownameEntry {
	return slices.Clone(c.shownames)
}

// SendCommand writes a wire command to the client. Evidence references in
// IC messages are rewritten to the client's own evidence list position.
func (c *Client) SendCommand(name string, args ...any) {
	if c.conn == nil {
		return
	}
	if name == proto.CmdICMessage && len(args) > proto.EvidenceArg {
		args = c.localizeEvidence(args)
	}
	if err := c.conn.Send(proto.Encode(name, args...)); err != nil && c.world != nil {
		c.world.log.Debug().Err(err).Int("client_id", c.ID).Str("command", name).Msg("send failed")
	}
}

func (c *Client) localizeEvidence(args []any) []any {
	ref := fmt.Sprint(args[proto.EvidenceArg])
	for pos, id := range c.EvidenceList {
		if fmt.Sprint(id) == ref {
			out := slices.Clone(args)
			out[proto.EvidenceArg] = pos
			return out
		}
	}
	return args
}

// SendHostMessage sends a system chat line to the client.
func (c *Client) SendHostMessage(msg string) {
	host := "$H"
	if c.world != nil {
		host = c.world.settings.Hostname
	}
	c.SendCommand(proto.CmdHostChat, host, msg)
}

// Disconnect closes the underlying connection.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
