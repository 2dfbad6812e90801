package live

import (
	"log"
	"sync"
)

// Hub maps session codes to connected clients. Every member of a session sits
// in the main room; the teacher additionally sits in a teacher-only subroom
// that receives roster updates.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]*Client
	teachers map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[string]*Client),
		teachers: make(map[string]map[string]*Client),
	}
}

func (h *Hub) Join(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*Client)
	}
	h.rooms[code][client.ID] = client
	log.Printf("ws: client %s joined room %s (total: %d)", client.ID, code, len(h.rooms[code]))
}

func (h *Hub) JoinTeacher(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*Client)
	}
	h.rooms[code][client.ID] = client

	if h.teachers[code] == nil {
		h.teachers[code] = make(map[string]*Client)
	}
	h.teachers[code][client.ID] = client
	log.Printf("ws: teacher %s joined room %s", client.ID, code)
}

func (h *Hub) Leave(code, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[code]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.rooms, code)
		}
	}
	if conns, ok := h.teachers[code]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.teachers, code)
		}
	}
}

// CloseRoom drops all membership for a code. Connections stay open; clients
// learn about the ending from the session_ended broadcast that precedes this.
func (h *Hub) CloseRoom(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, code)
	delete(h.teachers, code)
}

func (h *Hub) Broadcast(code string, msg WSMessage) {
	h.send(code, "", msg, false)
}

func (h *Hub) BroadcastExcept(code, exceptID string, msg WSMessage) {
	h.send(code, exceptID, msg, false)
}

func (h *Hub) BroadcastTeachers(code string, msg WSMessage) {
	h.send(code, "", msg, true)
}

func (h *Hub) send(code, exceptID string, msg WSMessage, teachersOnly bool) {
	h.mu.RLock()
	var targets []*Client
	source := h.rooms
	if teachersOnly {
		source = h.teachers
	}
	for id, client := range source[code] {
		if id == exceptID {
			continue
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.Send(msg); err != nil {
			log.Printf("ws: write error to %s: %v", client.ID, err)
			client.Close()
			h.Leave(code, client.ID)
		}
	}
}
