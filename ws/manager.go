package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Manager keeps track of active client websocket connections per user. A
// user may hold several connections (multiple dashboard tabs).
type Manager struct {
	mu          sync.RWMutex
	connections map[string]map[*websocket.Conn]bool // userID -> conns
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]map[*websocket.Conn]bool)}
}

// Register adds a connection for a user.
func (m *Manager) Register(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connections[userID] == nil {
		m.connections[userID] = make(map[*websocket.Conn]bool)
	}
	m.connections[userID][conn] = true
}

// Unregister removes and closes a connection.
func (m *Manager) Unregister(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conns, ok := m.connections[userID]; ok {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(m.connections, userID)
		}
	}
}

// Publish sends a JSON-encoded event to every connection of a user.
// Connections that fail to write are dropped.
func (m *Manager) Publish(userID string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	conns, ok := m.connections[userID]
	if !ok {
		return
	}
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(m.connections, userID)
	}
}

// IsConnected returns whether a user has at least one open connection.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections[userID]) > 0
}

// List returns a copy of the currently connected user IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	return ids
}
