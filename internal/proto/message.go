package proto

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FieldSeparator joins a command name and its arguments.
	FieldSeparator = "#"
	// Terminator closes every command on the wire.
	Terminator = "%"
)

// Outbound command names produced by the server.
const (
	CmdHostChat     = "CT"
	CmdHealth       = "HP"
	CmdBackground   = "BN"
	CmdEvidenceList = "LE"
	CmdMusicList    = "FM"
	CmdCharsCheck   = "CharsCheck"
	CmdCharPick     = "PV"
	CmdMusicMode    = "MM"
	CmdDone         = "DONE"
	CmdICMessage    = "MS"
	CmdMusicChange  = "MC"
	CmdServerID     = "ID"
	CmdPlayerCount  = "PN"
	CmdKeepaliveAck = "CHECK"
)

// Inbound command names the transport understands.
const (
	InHello     = "HI"
	InKeepalive = "CH"
	InCharPick  = "CC"
	InMusic     = "MC"
)

// EvidenceArg is the position of the evidence reference inside an MS command.
const EvidenceArg = 11

// ErrMalformed is returned for frames that are not terminated commands.
var ErrMalformed = errors.New("malformed command")

// Command is a single decoded wire command.
type Command struct {
	Name string
	Args []string
}

// Encode renders a command in the delimited wire format.
func Encode(name string, args ...any) string {
	if len(args) == 0 {
		return name + FieldSeparator + Terminator
	}
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	parts = append(parts, Terminator)
	return strings.Join(parts, FieldSeparator)
}

// Decode splits a raw frame into the commands it carries. A frame may hold
// several terminated commands back to back.
func Decode(raw string) ([]Command, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasSuffix(raw, Terminator) {
		return nil, fmt.Errorf("%w: missing terminator", ErrMalformed)
	}

	var cmds []Command
	for _, chunk := range strings.Split(raw, FieldSeparator+Terminator) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		fields := strings.Split(chunk, FieldSeparator)
		if fields[0] == "" {
			return nil, fmt.Errorf("%w: empty command name", ErrMalformed)
		}
		cmds = append(cmds, Command{Name: fields[0], Args: fields[1:]})
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%w: no commands", ErrMalformed)
	}
	return cmds, nil
}
