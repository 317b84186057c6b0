package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"complyready-backend/shared/config"
)

// ScoreEvent is pushed to the owning user whenever a submission or an action
// completion moves their score.
type ScoreEvent struct {
	Type           string    `json:"type"`
	ReadinessScore int       `json:"readiness_score"`
	RiskLevel      string    `json:"risk_level"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventAssessmentScored = "assessment_scored"
	EventActionCompleted  = "action_completed"
)

// WebSocketManager holds one live connection per user for score updates
type WebSocketManager struct {
	clients  map[string]*websocket.Conn // userID -> connection
	mutex    sync.RWMutex
	upgrader websocket.Upgrader
}

var wsManager *WebSocketManager
var wsOnce sync.Once

// GetWebSocketManager returns the singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	wsOnce.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == "" || origin == config.GetConfig().FrontendURL {
						return true
					}
					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
		}
	})
	return wsManager
}

// HandleConnection upgrades the request and registers the connection for the
// authenticated user. The connection is read until the client goes away.
func (wsm *WebSocketManager) HandleConnection(c *gin.Context, userID uuid.UUID) {
	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	key := userID.String()

	wsm.mutex.Lock()
	if existing, ok := wsm.clients[key]; ok {
		existing.Close()
	}
	wsm.clients[key] = conn
	total := len(wsm.clients)
	wsm.mutex.Unlock()

	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", key, total)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	wsm.mutex.Lock()
	if current, ok := wsm.clients[key]; ok && current == conn {
		delete(wsm.clients, key)
	}
	wsm.mutex.Unlock()
	conn.Close()

	log.Printf("🔌 WebSocket client disconnected: %s", key)
}

// NotifyScoreChange pushes a score event to one user, if connected
func (wsm *WebSocketManager) NotifyScoreChange(userID uuid.UUID, eventType string, score int, riskLevel string) {
	event := ScoreEvent{
		Type:           eventType,
		ReadinessScore: score,
		RiskLevel:      riskLevel,
		Timestamp:      time.Now().UTC(),
	}

	wsm.mutex.RLock()
	conn, ok := wsm.clients[userID.String()]
	wsm.mutex.RUnlock()

	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("❌ WebSocket send failed for %s: %v", userID, err)
	}
}
