package ws

import "sync"

// Hub is the connection registry of the real-time gateway. Clients are keyed
// by account id (an account may hold several connections) and may join
// per-combat rooms. Membership lives in process memory only and is lost on
// restart; clients rejoin after reconnecting.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connected client to the registry
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.AccountID] == nil {
		h.clients[c.AccountID] = make(map[*Client]struct{})
	}
	h.clients[c.AccountID][c] = struct{}{}
}

// Unregister removes a client from the registry and from every room it joined
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.AccountID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.AccountID)
		}
	}
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.close()
}

// JoinRoom adds a client to a combat room
func (h *Hub) JoinRoom(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

// LeaveRoom removes a client from a combat room
func (h *Hub) LeaveRoom(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// BroadcastToRoom fans an event out to every socket currently in the room
func (h *Hub) BroadcastToRoom(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		c.trySend(event)
	}
}

// BroadcastToRoomExcept fans an event out to the room, skipping one client
func (h *Hub) BroadcastToRoomExcept(room string, except *Client, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		if c == except {
			continue
		}
		c.trySend(event)
	}
}

// BroadcastToAccounts delivers an event to every connection of the given accounts
func (h *Hub) BroadcastToAccounts(accountIDs []string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range accountIDs {
		for c := range h.clients[id] {
			c.trySend(event)
		}
	}
}

// IsConnected reports whether the account has at least one live connection
func (h *Hub) IsConnected(accountID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID]) > 0
}

// RoomSize returns the number of sockets currently in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
