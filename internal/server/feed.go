package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/table"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	feedBuffer = 64
)

// EventState is sent once when a feed connects and a hand is in progress.
const EventState = "state"

// handleFeed streams a table's events over a websocket. The feed is
// read-only: anything the client sends is discarded.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Subscribe before the handshake completes so no event committed after
	// the client connects is missed.
	sub := t.Events().Subscribe(t.ID(), feedBuffer)
	current, _ := t.State() // nil before the first hand
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	s.logger.Debug("Feed connected", "table", t.ID(), "remote", r.RemoteAddr)

	done := make(chan struct{})
	go s.readFeed(conn, done)
	s.writeFeed(conn, t.ID(), current, sub, done)
	s.logger.Debug("Feed disconnected", "table", t.ID(), "remote", r.RemoteAddr)
}

// readFeed drains the connection so pongs and close frames are processed.
func (s *Server) readFeed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("Feed read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeFeed(conn *websocket.Conn, tableID string, current *game.GameState, sub *table.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close() // Ignore close errors during cleanup
	}()

	if current != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(table.Event{Type: EventState, TableID: tableID, Version: current.Version, State: current}); err != nil {
			return
		}
	}

	for {
		select {
		case ev, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("Failed to write event", "error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
