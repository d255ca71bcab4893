package realtime

import (
	"log"
	"net/http"

	"melodex/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Allow all origins (configure in prod)
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated clients onto the event hub.
type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewWSHandler(hub *Hub, jwtService *jwt.Service) *WSHandler {
	return &WSHandler{hub: hub, jwtService: jwtService}
}

// HandleWebSocket handles GET /ws?token=JWT_TOKEN. The token travels as a
// query parameter because websocket clients cannot set headers.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	if _, err := h.jwtService.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeWS(conn)
}
