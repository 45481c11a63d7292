package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/core"
	"github.com/vovakirdan/courtserver/internal/proto"
	"github.com/vovakirdan/courtserver/internal/utils"
)

const releaseTimeout = 5 * time.Second

// WSHandler upgrades HTTP connections and bridges them to the world.
type WSHandler struct {
	world           *core.World
	log             *zerolog.Logger
	framesPerSecond float64
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(world *core.World, framesPerSecond float64, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{world: world, log: logger, framesPerSecond: framesPerSecond}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	wc := newWSConn(utils.NewID(), r.RemoteAddr)
	client, err := h.connect(ctx, wc)
	if err != nil {
		if errors.Is(err, core.ErrCapacity) {
			conn.Close(websocket.StatusTryAgainLater, "server is full")
			return
		}
		h.log.Error().Err(err).Str("conn_id", wc.id).Msg("register client")
		conn.Close(websocket.StatusInternalError, "internal error")
		return
	}
	defer h.release(client, wc)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, wc)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", wc.id).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) connect(ctx context.Context, wc *wsConn) (*core.Client, error) {
	var (
		client  *core.Client
		joinErr error
	)
	if err := h.world.Do(ctx, func() {
		client, joinErr = h.world.Connect(ctx, wc)
	}); err != nil {
		return nil, err
	}
	if joinErr != nil {
		return nil, joinErr
	}
	h.log.Debug().Str("conn_id", wc.id).Int("client_id", client.ID).Msg("ws client registered")
	return client, nil
}

// release removes the client from the world. The request context is gone by
// now, so it gets its own deadline.
func (h *WSHandler) release(client *core.Client, wc *wsConn) {
	_ = wc.Close()
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := h.world.Do(ctx, func() { h.world.Disconnect(client) }); err != nil {
		h.log.Warn().Err(err).Str("conn_id", wc.id).Msg("release client")
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newFrameLimiter(h.framesPerSecond)
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		if !limiter.allow() {
			h.log.Debug().Int("client_id", client.ID).Msg("inbound frame dropped by rate limit")
			continue
		}

		cmds, err := proto.Decode(string(data))
		if err != nil {
			h.log.Debug().Err(err).Int("client_id", client.ID).Msg("malformed inbound frame")
			continue
		}
		for _, cmd := range cmds {
			if err := h.world.Do(ctx, func() { h.dispatch(client, cmd) }); err != nil {
				return err
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, wc *wsConn) error {
	for {
		select {
		case raw := <-wc.out:
			if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
				h.log.Error().Err(err).Str("conn_id", wc.id).Msg("write ws frame")
				return err
			}
		case <-wc.done:
			return h.flush(ctx, conn, wc)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// flush writes whatever was queued before the world closed the connection.
func (h *WSHandler) flush(ctx context.Context, conn *websocket.Conn, wc *wsConn) error {
	for {
		select {
		case raw := <-wc.out:
			if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
