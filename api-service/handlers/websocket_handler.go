package handlers

import (
	"github.com/gin-gonic/gin"

	"complyready-backend/api-service/services"
)

// HandleWebSocket upgrades the connection and streams score events to the user
// @Summary WebSocket score events
// @Description Upgrades to a WebSocket connection delivering real-time compliance score updates
// @Tags websocket
// @Security BearerAuth
// @Router /ws [get]
func HandleWebSocket(c *gin.Context) {
	userID := currentUserID(c)
	services.GetWebSocketManager().HandleConnection(c, userID)
}
