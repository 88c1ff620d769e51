// Package gateway exposes the engine over local HTTP: JSON endpoints for
// resolution, listings, status, and feedback, a WebSocket stream of
// cache-updated events, and the Prometheus scrape endpoint.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/metrics"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/engine"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
)

// Server is the gateway HTTP server
type Server struct {
	host           string
	port           int
	engine         *engine.Engine
	metrics        *metrics.Metrics
	server         *http.Server
	upgrader       websocket.Upgrader
	clients        *ClientRegistry
	broadcaster    *EventBroadcaster
	logger         zerolog.Logger
	isShuttingDown bool
	shutdownMu     sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Engine  *engine.Engine
	Metrics *metrics.Metrics // nil disables the /metrics endpoint
	Logger  zerolog.Logger
}

// NewServer creates a new gateway server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}

	clients := NewClientRegistry()

	s := &Server{
		host:        cfg.Host,
		port:        cfg.Port,
		engine:      cfg.Engine,
		metrics:     cfg.Metrics,
		clients:     clients,
		broadcaster: NewEventBroadcaster(clients, cfg.Logger),
		logger:      cfg.Logger.With().Str("component", "gateway").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // loopback-bound server
			},
		},
	}

	return s, nil
}

// Handler builds the HTTP routing table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/files", s.handleFiles)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	if s.metrics != nil {
		mux.Handle("/metrics", s.instrumentedMetrics())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// instrumentedMetrics refreshes the watcher gauge from the live registry
// before every scrape, so the value is current rather than event-driven.
func (s *Server) instrumentedMetrics() http.Handler {
	inner := s.metrics.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.WatchedDirectories.Set(float64(s.engine.GetWatchStatus().WatchedCount))
		inner.ServeHTTP(w, r)
	})
}

// Start starts the gateway server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: s.Handler(),
	}

	s.logger.Info().Str("host", s.host).Int("port", s.port).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully stops the gateway server
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down gateway server")

	s.broadcaster.Broadcast("server.shutdown", map[string]interface{}{
		"message": "Server is shutting down",
	})

	for _, client := range s.clients.GetAll() {
		client.Conn.Close()
	}

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

// NotifyCacheUpdated broadcasts a cache.updated event. Wired as the
// engine's cache-updated callback.
func (s *Server) NotifyCacheUpdated(path string, records []fileop.FileRecord) {
	s.broadcaster.Broadcast("cache.updated", CacheUpdatedEvent{
		Path:    path,
		Entries: len(records),
	})
}

// handleResolve answers POST /api/resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := s.engine.Resolve(req.Input, resolver.Context{
		Locale:       req.Locale,
		PreviousPath: req.PreviousPath,
		UserID:       req.UserID,
	})

	writeJSON(w, ResolveResponse{
		Candidates: result.Candidates,
		Stage:      result.Stage,
		Confidence: result.Confidence,
	})
}

// handleFiles answers GET /api/files?path=...
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path parameter is required", http.StatusBadRequest)
		return
	}

	files := s.engine.ListDirectory(path)
	if s.metrics != nil {
		outcome := "ok"
		if files == nil {
			outcome = "failed"
		}
		s.metrics.ListingsTotal.WithLabelValues(outcome).Inc()
	}
	writeJSON(w, ListResponse{Path: path, Files: files})
}

// handleStatus answers GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]interface{}{
		"watcher":  s.engine.GetWatchStatus(),
		"resolver": s.engine.ResolverStats(),
		"clients":  s.clients.GetConnectedClients(),
	})
}

// handleFeedback answers POST /api/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Input == "" || req.ChosenPath == "" {
		http.Error(w, "input and chosen_path are required", http.StatusBadRequest)
		return
	}

	s.engine.RecordUserFeedback(req.UserID, req.Input, req.ChosenPath)
	if s.metrics != nil {
		s.metrics.FeedbackTotal.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.shutdownMu.RUnlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	client := &Client{
		ID:           uuid.NewString(),
		Conn:         conn,
		ConnectedAt:  time.Now(),
		LastActivity: time.Now(),
		IPAddress:    r.RemoteAddr,
	}

	s.clients.Add(client)

	s.logger.Info().
		Str("clientId", client.ID).
		Str("ip", r.RemoteAddr).
		Msg("Client connected")

	go s.handleClient(client)
}

// handleClient drains messages from a client. The stream is one-way; the
// read loop only tracks liveness and detects disconnects.
func (s *Server) handleClient(client *Client) {
	defer func() {
		client.Conn.Close()
		s.clients.Remove(client.ID)
		s.logger.Info().Str("clientId", client.ID).Msg("Client disconnected")
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error().Err(err).Str("clientId", client.ID).Msg("WebSocket error")
			}
			return
		}
		s.clients.UpdateActivity(client.ID)
	}
}

// GetConnectedClients returns information about all connected clients
func (s *Server) GetConnectedClients() []ClientInfo {
	return s.clients.GetConnectedClients()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
