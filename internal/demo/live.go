package demo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/demokit/internal/errs"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveReadTimeout  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveUpdate is one counter state message pushed to the client.
type liveUpdate struct {
	Count int `json:"count"`
}

// liveCommand is one action request read from the client.
type liveCommand struct {
	Action string `json:"action"`
}

// handleLive streams counter updates over a WebSocket and accepts dispatch
// commands, the live-updates demo: every connected client sees every
// dispatch, whoever issued it.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed",
			"error", errs.Wrap(err, "D300", errs.CategoryTransport, "upgrade live socket"))
		return
	}
	defer conn.Close()

	// Push every counter change. The subscription fires immediately with
	// the current value, so clients render without waiting for a dispatch.
	updates := make(chan int, 16)
	cancel := s.counter.Subscribe(func(n int) {
		select {
		case updates <- n:
		default:
			// Slow client; it will catch up on the next change.
		}
	})
	defer cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			conn.SetReadDeadline(time.Now().Add(liveReadTimeout))

			var cmd liveCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure) {
					s.log.Error("websocket read error",
						"error", errs.Wrap(err, "D301", errs.CategoryTransport, "live socket read"))
				}
				return
			}

			switch CounterAction(cmd.Action) {
			case Increment, Decrement, Reset:
				s.counter.Dispatch(CounterAction(cmd.Action))
			default:
				s.log.Warn("unknown live action", slog.String("action", cmd.Action))
			}
		}
	}()

	for {
		select {
		case n := <-updates:
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(liveUpdate{Count: n}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
