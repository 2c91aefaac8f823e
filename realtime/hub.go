// Package realtime pushes job events to connected dashboards over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const (
	EventJobAssigned = "job.assigned"
	EventJobStatus   = "job.status"
)

// Event is one message pushed to clients
type Event struct {
	Type   string      `json:"type"`
	JobID  int         `json:"jobId"`
	CrewID *int        `json:"crewId,omitempty"`
	Job    *models.Job `json:"job"`
	At     time.Time   `json:"at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// connection represents a single websocket client. A crew user only sees
// events for jobs assigned to its crew.
type connection struct {
	conn   *websocket.Conn
	send   chan []byte
	crewID *int
}

func (c *connection) wants(e *Event) bool {
	if c.crewID == nil {
		return true
	}
	return e.CrewID != nil && *e.CrewID == *c.crewID
}

// Hub manages all active websocket connections
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	logger      logger.Logger
	now         func() time.Time
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		connections: make(map[*connection]struct{}),
		logger:      log,
		now:         time.Now,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends an event to every interested client. Clients whose buffer is full are skipped.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorf("Failed to encode realtime event: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.wants(event) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debug("Realtime client too slow, skipping event")
		}
	}
}

func (h *Hub) NotifyAssignment(job *models.Job, crew *models.Crew, client *models.Client) {
	h.Broadcast(h.event(EventJobAssigned, job))
}

func (h *Hub) NotifyStatusChange(job *models.Job, crew *models.Crew, client *models.Client) {
	h.Broadcast(h.event(EventJobStatus, job))
}

func (h *Hub) event(kind string, job *models.Job) *Event {
	return &Event{Type: kind, JobID: job.ID, CrewID: job.CrewID, Job: job, At: h.now()}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and streams events until the client disconnects
// @Summary Realtime job feed
// @Description Websocket stream of job.assigned and job.status events
// @Tags realtime
// @Security BearerAuth
// @Router /ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	client := &connection{conn: conn, send: make(chan []byte, sendBuffer)}
	if v, ok := c.Get("jwt_claims"); ok {
		if claims, ok := v.(*models.JWTClaims); ok && claims.Role == models.UserRoleCrew {
			client.crewID = claims.CrewID
			if client.crewID == nil {
				// a crew user without a crew sees nothing
				none := 0
				client.crewID = &none
			}
		}
	}

	h.register(client)
	go h.writePump(client)
	h.readPump(client)
}

// readPump only services control frames; clients do not send events
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
