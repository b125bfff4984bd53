package oraclehttp

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/websocket"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1 << 10,
		WriteBufferSize: 1 << 10,
	}

	// writeDeadline should be smaller than the shutdown timeout of the server
	writeDeadline = 4 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// eventBufferSize bounds the events queued for a slow stream. Update blocks
// while the buffer of any stream is full.
const eventBufferSize = 64

// EventsHandler returns the handler of GET /oracle/events. It upgrades the
// connection to a websocket and writes every TimeUpdated as a JSON text
// frame.
func (h *OracleHandler) EventsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client.
			log.Infof(ctx, "Events stream upgrade failed: %v", err)
			return
		}
		eventC := make(chan oracle.TimeUpdated, eventBufferSize)
		sub := h.sm.SubscribeTimeUpdated(eventC)
		if !h.trackStream() {
			sub.Unsubscribe()
			_ = conn.Close()
			return
		}
		streamCtx := log.WithLogTag(context.Background(), "event-stream", conn.RemoteAddr())
		go h.pumpEvents(streamCtx, conn, eventC, sub)
	})
}

// pumpEvents writes events to conn until the client goes away, the
// subscription ends or the handler is closed.
func (h *OracleHandler) pumpEvents(
	ctx context.Context, conn *websocket.Conn, eventC <-chan oracle.TimeUpdated, sub event.Subscription,
) {
	defer h.untrackStream()

	var (
		gone   = make(chan struct{})
		ticker = time.NewTicker(pingPeriod)
	)
	defer func() {
		sub.Unsubscribe()
		ticker.Stop()
		_ = conn.Close()
	}()
	remote := conn.RemoteAddr().String()
	log.Infof(ctx, "Events stream opened, remote: %s", remote)

	// The read loop handles control frames and notices the client leaving.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	writeEvent := func(e oracle.TimeUpdated) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
			return err
		}
		return conn.WriteJSON(e)
	}
	writeControl := func(messageType int, data []byte) error {
		return conn.WriteControl(messageType, data, time.Now().Add(writeDeadline))
	}
	goingAway := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")

	for {
		select {
		case e := <-eventC:
			if err := writeEvent(e); err != nil {
				log.Infof(ctx, "Events stream to %s failed: %v", remote, err)
				return
			}
		case err := <-sub.Err():
			if err != nil {
				log.Warningf(ctx, "Events subscription of %s failed: %v", remote, err)
			}
			_ = writeControl(websocket.CloseMessage, goingAway)
			return
		case <-h.quit:
			_ = writeControl(websocket.CloseMessage, goingAway)
			return
		case <-gone:
			log.Infof(ctx, "Events stream closed by %s", remote)
			return
		case <-ticker.C:
			if err := writeControl(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
