package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
)

// EventMessage represents a server-initiated event
type EventMessage struct {
	Type      string      `json:"type,omitempty"`
	Event     string      `json:"event"`
	Seq       int64       `json:"seq,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// ResolveRequest is the body of POST /api/resolve
type ResolveRequest struct {
	Input        string `json:"input"`
	Locale       string `json:"locale,omitempty"`
	PreviousPath string `json:"previous_path,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// ResolveResponse answers a resolve request
type ResolveResponse struct {
	Candidates []string `json:"candidates"`
	Stage      string   `json:"stage"`
	Confidence float64  `json:"confidence"`
}

// ListResponse answers a directory listing request. Files is null when the
// directory could not be read at all.
type ListResponse struct {
	Path  string              `json:"path"`
	Files []fileop.FileRecord `json:"files"`
}

// FeedbackRequest is the body of POST /api/feedback
type FeedbackRequest struct {
	UserID     string `json:"user_id"`
	Input      string `json:"input"`
	ChosenPath string `json:"chosen_path"`
}

// CacheUpdatedEvent is the payload of the cache.updated stream event
type CacheUpdatedEvent struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// ClientInfo represents information about a connected client
type ClientInfo struct {
	ID           string    `json:"id"`
	ConnectedAt  time.Time `json:"connectedAt"`
	LastActivity time.Time `json:"lastActivity"`
	IPAddress    string    `json:"ipAddress"`
	Idle         bool      `json:"idle"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID           string
	Conn         *websocket.Conn
	ConnectedAt  time.Time
	LastActivity time.Time
	IPAddress    string

	writeMu sync.Mutex
}

// Send writes one message to the client. The connection allows a single
// writer at a time, and broadcasts arrive from independent debounce
// goroutines, so every write goes through this lock.
func (c *Client) Send(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}
