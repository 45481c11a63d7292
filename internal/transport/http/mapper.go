package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vovakirdan/courtserver/internal/core"
	"github.com/vovakirdan/courtserver/internal/proto"
)

// ServerSoftware is reported to clients in the ID reply.
const (
	ServerSoftware = "courtserver"
	ServerVersion  = "1.0.0"
)

var errMissingArgs = errors.New("missing arguments")

// dispatch runs one inbound command on the world loop. User-facing failures
// go back to the client as a host message; anything else is logged.
func (h *WSHandler) dispatch(c *core.Client, cmd proto.Command) {
	var err error
	switch cmd.Name {
	case proto.InHello:
		err = h.hello(c, cmd.Args)
	case proto.InKeepalive:
		c.SendCommand(proto.CmdKeepaliveAck)
	case proto.InCharPick:
		err = h.pickCharacter(c, cmd.Args)
	case proto.InMusic:
		err = h.musicOrArea(c, cmd.Args)
	default:
		h.log.Debug().Int("client_id", c.ID).Str("command", cmd.Name).Msg("unhandled command")
	}
	if err == nil {
		return
	}
	if msg, ok := core.UserMessage(err); ok {
		c.SendHostMessage(msg)
		return
	}
	h.log.Warn().Err(err).Int("client_id", c.ID).Str("command", cmd.Name).Msg("command failed")
}

// hello records the hardware id and answers with the server identity and
// player count.
func (h *WSHandler) hello(c *core.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s: %w", proto.InHello, errMissingArgs)
	}
	c.HDID = args[0]
	reg := h.world.Registry()
	c.SendCommand(proto.CmdServerID, c.ID, ServerSoftware, ServerVersion)
	c.SendCommand(proto.CmdPlayerCount, reg.Len(), reg.Limit())
	return nil
}

// pickCharacter handles CC#slot#char_id#hdid.
func (h *WSHandler) pickCharacter(c *core.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%s: %w", proto.InCharPick, errMissingArgs)
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%s: character id: %w", proto.InCharPick, err)
	}
	if err := h.world.ChangeCharacter(c, id, false, nil); err != nil {
		return err
	}
	h.world.SendMOTD(c)
	return nil
}

// musicOrArea handles MC#name#char_id. Area names take precedence over
// track names, the way the music list mixes both.
func (h *WSHandler) musicOrArea(c *core.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s: %w", proto.InMusic, errMissingArgs)
	}
	if area, err := h.world.Areas().ByName(args[0]); err == nil {
		return h.world.ChangeArea(c, area, core.MoveFlags{})
	}
	return h.world.PlayMusic(c, args[0])
}
