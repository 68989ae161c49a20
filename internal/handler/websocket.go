package handler

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/middleware"
)

// ============================================================================
// WEBSOCKET HUB
// ============================================================================

// Client represents one connected WebSocket session.
type Client struct {
	Conn     *websocket.Conn
	UserID   uuid.UUID
	UserName string
	Send     chan []byte

	// rooms this session has joined, guarded by the hub mutex
	rooms map[uuid.UUID]bool
}

// Hub maintains task-scoped broadcast rooms plus a per-user session index
// for addressed delivery. Fan-out is fire-and-forget: no acknowledgment, no
// replay, and slow consumers are skipped.
type Hub struct {
	// all connected sessions
	clients map[*Client]bool

	// task id -> subscribed sessions
	rooms map[uuid.UUID]map[*Client]bool

	// user id -> that user's sessions
	users map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage
	direct     chan *userMessage

	mu sync.RWMutex
}

type roomMessage struct {
	TaskID uuid.UUID
	Data   []byte
}

type userMessage struct {
	UserID uuid.UUID
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		users:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
		direct:     make(chan *userMessage, 256),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.users[client.UserID] == nil {
				h.users[client.UserID] = make(map[*Client]bool)
			}
			h.users[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("[WS] User %s connected", client.UserName)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				for taskID := range client.rooms {
					h.removeFromRoom(taskID, client)
				}
				if sessions, ok := h.users[client.UserID]; ok {
					delete(sessions, client)
					if len(sessions) == 0 {
						delete(h.users, client.UserID)
					}
				}
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("[WS] User %s disconnected", client.UserName)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.TaskID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Buffer full, skip
				}
			}
			h.mu.RUnlock()

		case msg := <-h.direct:
			h.mu.RLock()
			for client := range h.users[msg.UserID] {
				select {
				case client.Send <- msg.Data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// JoinTask subscribes a session to a task room. Joining another task does not
// leave the previous room; leaving is always explicit.
func (h *Hub) JoinTask(client *Client, taskID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[taskID] == nil {
		h.rooms[taskID] = make(map[*Client]bool)
	}
	h.rooms[taskID][client] = true
	client.rooms[taskID] = true
}

// LeaveTask unsubscribes a session from a task room.
func (h *Hub) LeaveTask(client *Client, taskID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(taskID, client)
	delete(client.rooms, taskID)
}

// removeFromRoom requires the hub mutex to be held.
func (h *Hub) removeFromRoom(taskID uuid.UUID, client *Client) {
	if room, ok := h.rooms[taskID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, taskID)
		}
	}
}

// BroadcastToTask delivers an event to every session subscribed to the task,
// including the publisher's own sessions.
func (h *Hub) BroadcastToTask(taskID uuid.UUID, event dto.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] Error marshaling event: %v", err)
		return
	}
	h.broadcast <- &roomMessage{TaskID: taskID, Data: data}
}

// SendToUser delivers an event to all of one user's sessions, whatever task
// rooms they are in.
func (h *Hub) SendToUser(userID uuid.UUID, event dto.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] Error marshaling event: %v", err)
		return
	}
	h.direct <- &userMessage{UserID: userID, Data: data}
}

// RoomSize reports how many sessions are subscribed to a task room.
func (h *Hub) RoomSize(taskID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[taskID])
}

// IsUserOnline checks if a user has at least one connected session.
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// ============================================================================
// WEBSOCKET HANDLER
// ============================================================================

type WebSocketHandler struct {
	Hub *Hub
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := NewHub()
	go hub.Run()

	return &WebSocketHandler{Hub: hub}
}

// HandleWebSocket handles an upgraded WebSocket connection.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}
	userName, _ := c.Locals("user_name").(string)

	client := &Client{
		Conn:     c,
		UserID:   userID,
		UserName: userName,
		Send:     make(chan []byte, 256),
		rooms:    make(map[uuid.UUID]bool),
	}

	h.Hub.register <- client

	go h.writePump(client)
	h.readPump(client)
}

// readPump pumps messages from the WebSocket connection into the hub.
func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		h.Hub.unregister <- client
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Error reading message: %v", err)
			}
			break
		}

		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case dto.WSTypeJoinTask:
			var p dto.WSJoinTask
			if err := json.Unmarshal(msg.Payload, &p); err == nil {
				h.Hub.JoinTask(client, p.TaskID)
			}
		case dto.WSTypeLeaveTask:
			var p dto.WSJoinTask
			if err := json.Unmarshal(msg.Payload, &p); err == nil {
				h.Hub.LeaveTask(client, p.TaskID)
			}
		case dto.WSTypeNewComment:
			h.handleNewComment(client, msg.Payload)
		case dto.WSTypeCommentUpdated:
			h.handleCommentUpdated(msg.Payload)
		case dto.WSTypeCommentDeleted:
			h.handleCommentDeleted(msg.Payload)
		case dto.WSTypeEmojiReaction:
			h.handleEmojiReaction(client, msg.Payload)
		case dto.WSTypePing:
			pong, _ := json.Marshal(dto.WSEvent{Type: dto.WSTypePong})
			select {
			case client.Send <- pong:
			default:
			}
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (h *WebSocketHandler) writePump(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleNewComment rebroadcasts a freshly created comment to its task room
// and delivers a mention event to each mentioned user's own sessions.
func (h *WebSocketHandler) handleNewComment(client *Client, payload json.RawMessage) {
	var p dto.WSNewComment
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}

	h.Hub.BroadcastToTask(p.TaskID, dto.WSEvent{
		Type:    dto.WSTypeCommentAdded,
		Payload: p,
	})

	for _, raw := range p.MentionedUsers {
		userID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		h.Hub.SendToUser(userID, dto.WSEvent{
			Type: dto.WSTypeUserMentioned,
			Payload: dto.WSUserMentioned{
				UserID:    raw,
				TaskID:    p.TaskID,
				Comment:   p.Comment.Content,
				Commenter: client.UserName,
			},
		})
	}
}

func (h *WebSocketHandler) handleCommentUpdated(payload json.RawMessage) {
	var p dto.WSCommentUpdated
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	h.Hub.BroadcastToTask(p.TaskID, dto.WSEvent{
		Type:    dto.WSTypeCommentUpdated,
		Payload: p,
	})
}

func (h *WebSocketHandler) handleCommentDeleted(payload json.RawMessage) {
	var p dto.WSCommentDeleted
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	h.Hub.BroadcastToTask(p.TaskID, dto.WSEvent{
		Type:    dto.WSTypeCommentDeleted,
		Payload: p,
	})
}

// handleEmojiReaction rebroadcasts a reaction. The reacting identity is taken
// from the connection, not from the payload, so a session cannot react as
// someone else.
func (h *WebSocketHandler) handleEmojiReaction(client *Client, payload json.RawMessage) {
	var p dto.WSEmojiReaction
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	p.UserID = client.UserID
	p.UserName = client.UserName

	h.Hub.BroadcastToTask(p.TaskID, dto.WSEvent{
		Type:    dto.WSTypeReactionAdded,
		Payload: p,
	})
}

// ============================================================================
// FIBER UPGRADE HANDLER
// ============================================================================

// WebSocketUpgrade authenticates and upgrades HTTP connections to WebSocket.
// The session token comes from the cookie or, for clients that cannot send
// cookies, a query parameter.
func (h *WebSocketHandler) WebSocketUpgrade(authMiddleware *middleware.AuthMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Cookies("token")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		claims, err := authMiddleware.GetJWTService().ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		userID, err := uuid.Parse(claims.Sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		c.Locals("user_id", userID)
		c.Locals("user_name", claims.Name)

		return c.Next()
	}
}
