package ws

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/spinball/internal/auth"
	"github.com/playmatatu/spinball/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// ServeMatch upgrades a request on /matches/:id/ws. Any client may watch; a
// valid control token in ?token= also allows sending intents.
func (h *Hub) ServeMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Stopped() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server shutting down"})
			return
		}

		matchID := c.Param("id")
		if _, err := h.manager.GetMatch(matchID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}

		format, err := ParseFormat(c.Query("format"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		canControl := false
		if token := c.Query("token"); token != "" {
			if err := auth.VerifyControlToken(h.config.JWTSecret, token, matchID); err != nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid control token"})
				return
			}
			canControl = true
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:        h,
			conn:       conn,
			matchID:    matchID,
			format:     format,
			canControl: canControl,
			send:       make(chan outbound, sendBuffer),
		}

		if !h.join(client) {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed; room ended or client unregistered.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(message.messageType, message.data); err != nil {
				log.Printf("[WS] Write error in match %s: %v", c.matchID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error in match %s: %v", c.matchID, err)
				return
			}
		}
	}
}

// readPump reads intents from the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WS] Unexpected close in match %s: %v", c.matchID, err)
			}
			break
		}

		msg, err := decodeClientMessage(messageType, data)
		if err != nil {
			c.sendError("invalid message")
			continue
		}
		if !c.canControl {
			c.sendError("control token required")
			continue
		}

		if err := c.hub.applyIntent(c.matchID, msg); err != nil {
			c.sendError(err.Error())
		}
	}
}

var errUnknownIntent = errors.New("unknown message type")

// applyIntent routes a client intent to the match controller.
func (h *Hub) applyIntent(matchID string, msg ClientMessage) error {
	m, err := h.manager.GetMatch(matchID)
	if err != nil {
		return err
	}

	switch strings.ToLower(msg.Type) {
	case "set_running":
		if msg.Running == nil {
			return errors.New("running is required")
		}
		m.SetRunning(*msg.Running)

	case "toggle":
		m.ToggleRunning()

	case "reset":
		m.Reset()

	case "set_rotation_speed":
		if msg.Value == nil {
			return errors.New("value is required")
		}
		m.SetRotationSpeed(*msg.Value)

	case "apply_setting":
		field, err := game.ParseSettingField(msg.Field)
		if err != nil {
			return err
		}
		// Invalid text is dropped silently, like the settings screen.
		m.ApplySetting(field, msg.Text)

	case "rename":
		if msg.Body == nil {
			return errors.New("body is required")
		}
		if err := m.RenameBody(*msg.Body, msg.Name); err != nil {
			return err
		}

	default:
		return errUnknownIntent
	}

	h.manager.Touch(matchID)
	return nil
}
