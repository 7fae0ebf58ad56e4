package status

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Uranury/IotLogger/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Snapshot is what GET /status returns.
type Snapshot struct {
	Last       *sensors.Reading `json:"last,omitempty"`
	LastEcho   json.RawMessage  `json:"last_echo,omitempty"`
	LastSent   time.Time        `json:"last_sent,omitzero"`
	LastError  string           `json:"last_error,omitempty"`
	Sent       int              `json:"sent"`
	Failures   int              `json:"failures"`
	LinkResets int              `json:"link_resets"`
}

const (
	writeWait   = 5 * time.Second
	sendBacklog = 16
)

// wsClient queues readings for one websocket connection. Only its writer
// goroutine touches conn for writing.
type wsClient struct {
	conn *websocket.Conn
	send chan sensors.Reading
}

// Server exposes the logger's state locally. It observes the poll loop and
// fans readings out to websocket clients.
type Server struct {
	mu      sync.Mutex
	snap    Snapshot
	clients map[*wsClient]bool

	router *gin.Engine
	srv    *http.Server
}

func New(addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		clients: make(map[*wsClient]bool),
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/status", s.handleStatus)
	s.router.GET("/ws", s.handleWebSocket)
	s.srv = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Printf("Status server starting on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		s.dropLocked(c)
	}
	s.mu.Unlock()
	return s.srv.Shutdown(ctx)
}

func (s *Server) Sent(r sensors.Reading, data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Last = &r
	s.snap.LastEcho = data
	s.snap.LastSent = r.Time
	s.snap.LastError = ""
	s.snap.Sent++
}

func (s *Server) Failed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Failures++
	s.snap.LastError = err.Error()
}

func (s *Server) LinkReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.LinkResets++
}

// Publish queues r for every connected websocket client. It never waits on
// the network: a client whose backlog is full is disconnected.
func (s *Server) Publish(_ context.Context, r sensors.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- r:
		default:
			log.Println("WebSocket client too slow, disconnecting")
			s.dropLocked(c)
		}
	}
	return nil
}

func (s *Server) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// dropLocked unregisters c and stops its writer. s.mu must be held.
func (s *Server) dropLocked(c *wsClient) {
	if !s.clients[c] {
		return
	}
	delete(s.clients, c)
	close(c.send)
	c.conn.Close()
}

func (s *Server) drop(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(c)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Snapshot())
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan sensors.Reading, sendBacklog)}
	s.mu.Lock()
	s.clients[client] = true
	n := len(s.clients)
	s.mu.Unlock()
	log.Printf("Client connected. Total clients: %d", n)

	go s.writeLoop(client)

	defer func() {
		s.drop(client)
		log.Printf("Client disconnected. Total clients: %d", s.ClientCount())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *wsClient) {
	for r := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(r); err != nil {
			log.Println("WebSocket write error:", err)
			s.drop(c)
			return
		}
	}
}
