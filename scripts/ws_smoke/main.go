package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/courtserver/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	hdid := flag.String("hdid", "smoke-test", "hardware id to announce with HI")
	char := flag.Int("char", 0, "character id to pick")
	area := flag.String("area", "", "area to move into after picking a character")
	track := flag.String("music", "", "track to play after moving")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(name string, args ...any) error {
		raw := proto.Encode(name, args...)
		fmt.Printf("-> %s\n", raw)
		if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
			return fmt.Errorf("send %s: %w", name, err)
		}
		return nil
	}

	// expect prints frames until one carries the wanted command.
	expect := func(name string) error {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return fmt.Errorf("waiting for %s: %w", name, err)
			}
			cmds, err := proto.Decode(string(data))
			if err != nil {
				fmt.Printf("<- (malformed) %q\n", data)
				continue
			}
			for _, cmd := range cmds {
				fmt.Printf("<- %s %s\n", cmd.Name, strings.Join(cmd.Args, " | "))
				if cmd.Name == name {
					return nil
				}
			}
		}
	}

	if err := send(proto.InHello, *hdid); err != nil {
		return err
	}
	if err := expect(proto.CmdPlayerCount); err != nil {
		return err
	}

	if err := send(proto.InKeepalive); err != nil {
		return err
	}
	if err := expect(proto.CmdKeepaliveAck); err != nil {
		return err
	}

	if err := send(proto.InCharPick, 0, *char, *hdid); err != nil {
		return err
	}
	if err := expect(proto.CmdCharPick); err != nil {
		return err
	}

	if *area != "" {
		if err := send(proto.InMusic, *area, *char); err != nil {
			return err
		}
		if err := expect(proto.CmdBackground); err != nil {
			return err
		}
	}

	if *track != "" {
		if err := send(proto.InMusic, *track, *char); err != nil {
			return err
		}
		if err := expect(proto.CmdMusicChange); err != nil {
			return err
		}
	}

	fmt.Println("smoke test passed")
	return nil
}
