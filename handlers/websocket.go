package handlers

import (
	"net/http"

	"dream-journal/auth"
	"dream-journal/repositories"
	"dream-journal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSHandler groups dependencies for the entry-event feed.
type WSHandler struct {
	mgr    *ws.Manager
	tokens *auth.TokenService
	users  repositories.UserRepository
}

func NewWSHandler(mgr *ws.Manager, tokens *auth.TokenService, users repositories.UserRepository) *WSHandler {
	return &WSHandler{mgr: mgr, tokens: tokens, users: users}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleListClients lists the users with an open event-feed connection.
// GET /api/v1/ws/clients
func (h *WSHandler) HandleListClients(c *gin.Context) {
	ids := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(ids), "data": ids})
}

// HandleEventsWS upgrades to websocket and streams the caller's entry-change
// events until the client disconnects.
// GET /ws?token=<bearer token>
func (h *WSHandler) HandleEventsWS(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not authorized to access this route"})
		return
	}

	userID, err := h.tokens.Parse(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not authorized to access this route"})
		return
	}
	if _, err := h.users.GetByID(userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not authorized to access this route"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	reconnect := h.mgr.IsConnected(userID)
	h.mgr.Register(userID, conn)
	log.Info().Str("user_id", userID).Bool("additional_tab", reconnect).Msg("client connected")

	defer func() {
		h.mgr.Unregister(userID, conn)
		log.Info().Str("user_id", userID).Msg("client disconnected")
	}()

	// The feed is one-way; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", userID).Msg("websocket read ended")
			}
			return
		}
	}
}
