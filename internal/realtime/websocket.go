// internal/realtime/websocket.go
package realtime

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketConn wraps websocket.Conn so hub.go does not import websocket.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Serve registers the client and blocks until the connection closes. The
// feed is one-way; inbound frames are read only to notice disconnects.
func (h *Hub) Serve(client *Client) {
	h.RegisterClient(client)
	defer h.UnregisterClient(client)

	c := client.Conn.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-client.Send:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, []byte{})
					// unblocks the read loop below
					_ = c.Close()
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.logger.Debug("WebSocket write failed", zap.String("clientID", client.ID), zap.Error(err))
					return
				}
			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	_ = c.Close()
	<-done
}
