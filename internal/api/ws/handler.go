package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades connections and subscribes them to the hub. Clients only
// listen; anything they send is read and discarded so close frames are seen.
type Handler struct {
	hub      *Hub
	hello    HelloPayload
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from the given origins; none means any.
func NewHandler(hub *Hub, hello HelloPayload, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:   hub,
		hello: hello,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.hub.Register(client)
	go client.writePump()

	if msg, err := NewEnvelope(TypeHello, h.hello); err == nil {
		client.send <- msg
	}

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.hub.log.Debug("websocket read", zap.Error(err))
			}
			return
		}
	}
}
