package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected, %d online", client.ID, h.GetConnectedClients())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ScheduleUpdate tells watching clients how many seats a schedule has left
type ScheduleUpdate struct {
	ScheduleID     uint `json:"scheduleId"`
	AvailableSeats int  `json:"availableSeats"`
}

// BroadcastScheduleUpdate pushes the new seat count for a schedule to all
// connected clients. Fired after every successful booking or cancellation.
func (h *Hub) BroadcastScheduleUpdate(scheduleID uint, availableSeats int) {
	message, err := json.Marshal(WebSocketMessage{
		Type: "schedule_update",
		Data: ScheduleUpdate{ScheduleID: scheduleID, AvailableSeats: availableSeats},
	})
	if err != nil {
		log.Printf("Error marshaling schedule update: %v", err)
		return
	}
	h.broadcast <- message
}

// BookingUpdate tells the owning user about a status change on one of
// their bookings
type BookingUpdate struct {
	BookingID uint   `json:"bookingId"`
	Status    string `json:"status"`
}

// NotifyBookingStatus pushes a booking status change to the owning user's
// connections only; other clients never see it.
func (h *Hub) NotifyBookingStatus(userID, bookingID uint, status string) {
	message, err := json.Marshal(WebSocketMessage{
		Type: "booking_update",
		Data: BookingUpdate{BookingID: bookingID, Status: status},
	})
	if err != nil {
		log.Printf("Error marshaling booking update: %v", err)
		return
	}
	h.BroadcastToUser(userID, message)
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pings and close frames are handled.
// Clients only receive on this stream; inbound payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Hub closed the channel
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
