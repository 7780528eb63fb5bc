// Package httpserver implements ports.ProgressServer: a dev-convenience HTTP front door
// that accepts a DeckSpec over POST /generate, runs it through the orchestrator, and
// streams ProgressEvents to every connected /ws client as the run proceeds. It exists for
// local iteration against an upstream presentation API, not as a production front door.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/deckforge/deckforge/internal/adapters/primary/progress"
	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/orchestrator"
)

// Logger is the minimal structured-logging surface the server needs; cmd/deckforge's
// Logger satisfies it.
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// upgrader accepts any origin: this server is meant to be bound to localhost for local
// development, not exposed publicly.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DepsFactory builds a fresh orchestrator.Dependencies for one /generate call, wired with a
// Progress callback the server supplies.
type DepsFactory func(progressFn func(entities.SlideResult)) (orchestrator.Dependencies, error)

// Server implements ports.ProgressServer.
type Server struct {
	logger      Logger
	broadcaster *progress.Broadcaster
	buildDeps   DepsFactory

	mu         sync.Mutex
	httpServer *http.Server
	running    bool
}

// New constructs a Server. buildDeps is called once per /generate request to obtain fresh
// orchestrator dependencies, with a progress callback already wired to broadcast events.
func New(logger Logger, buildDeps DepsFactory) *Server {
	return &Server{
		logger:      logger,
		broadcaster: progress.NewBroadcaster(),
		buildDeps:   buildDeps,
	}
}

var _ ports.ProgressServer = (*Server)(nil)

// Start binds and serves on host:port. It blocks until the server stops (error or Stop).
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("serve listening on %s", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// Stop gracefully shuts down the server and closes every connected websocket client.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.running = false
	s.mu.Unlock()

	s.broadcaster.Close()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// NotifyClients broadcasts event to every connected websocket client.
func (s *Server) NotifyClients(event ports.ProgressEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.broadcaster.Broadcast(event)
	return nil
}

// IsRunning reports whether Start has been called and the server has not stopped since. It
// turns true just before the listener is opened, not after.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleGenerate accepts a DeckSpec as JSON, runs it through the orchestrator, streaming a
// ProgressEvent per slide to any connected websocket clients, and returns the final
// DeckResult as the HTTP response body.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var spec entities.DeckSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, fmt.Sprintf("invalid deck spec: %v", err), http.StatusBadRequest)
		return
	}

	deps, err := s.buildDeps(func(slide entities.SlideResult) {
		_ = s.NotifyClients(ports.ProgressEvent{
			Type: ports.EventTypeSlideCompleted,
			Data: slide,
		})
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("wiring dependencies: %v", err), http.StatusInternalServerError)
		return
	}

	result := orchestrator.Generate(r.Context(), spec, deps)
	_ = s.NotifyClients(ports.ProgressEvent{Type: ports.EventTypeDeckCompleted, Data: result})

	w.Header().Set("Content-Type", "application/json")
	if !result.OK {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	_ = json.NewEncoder(w).Encode(result)
}

// handleWebSocket upgrades the connection and streams every broadcast ProgressEvent to it
// until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := fmt.Sprintf("%p", conn)
	events := s.broadcaster.Subscribe(clientID)
	defer s.broadcaster.Unsubscribe(clientID)

	// Drain client reads in the background so control frames (ping/close) are processed;
	// this server only pushes events, it never expects application messages back.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			s.logger.Debug("websocket write failed for %s: %v", clientID, err)
			return
		}
	}
}
