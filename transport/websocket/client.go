package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 16
)

// client is one websocket connection. Its id is the transport identity used
// by rooms.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type inbound struct {
	client  *client
	message Message
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// readPump - decodes client messages and hands them to the event loop.
func (that *client) readPump(server *Server) {
	log := server.logger.With("method", "readPump", "connID", that.id)

	defer func() {
		select {
		case server.unregister <- that:
		case <-server.done:
		}
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		select {
		case server.inbound <- inbound{client: that, message: message}:
		case <-server.done:
			return
		}
	}
}

// writePump - writes queued messages until the send channel is closed.
func (that *client) writePump(server *Server) {
	log := server.logger.With("method", "writePump", "connID", that.id)

	defer that.conn.Close()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}
		case <-server.done:
			return
		}
	}
}
