package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

// Server bridges a Host and its event bus to HTTP and websocket clients.
type Server struct {
	host     Host
	bus      *event.Bus
	logger   *logging.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
	limiter  *clientLimiter

	sendBuffer   int
	pingInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	clients map[*client]struct{}
	subID   string
	started bool
}

// New creates a Server for host.
//
// host and bus must be non-nil. Passing nil will panic early to surface
// wiring bugs immediately.
func New(host Host, bus *event.Bus, opts ...Option) *Server {
	if host == nil {
		panic("bridge: Host must not be nil")
	}
	if bus == nil {
		panic("bridge: event.Bus must not be nil")
	}

	cfg := &config{
		maxClients:   defaultMaxClients,
		sendBuffer:   defaultSendBuffer,
		pingInterval: defaultPingInterval,
		logger:       logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxClients < 0 {
		cfg.maxClients = defaultMaxClients
	}
	if cfg.sendBuffer <= 0 {
		cfg.sendBuffer = defaultSendBuffer
	}
	if cfg.pingInterval <= 0 {
		cfg.pingInterval = defaultPingInterval
	}
	if cfg.logger == nil {
		cfg.logger = logging.NopLogger()
	}

	s := &Server{
		host:         host,
		bus:          bus,
		logger:       cfg.logger.WithComponent("bridge"),
		limiter:      newClientLimiter(cfg.maxClients),
		sendBuffer:   cfg.sendBuffer,
		pingInterval: cfg.pingInterval,
		clients:      make(map[*client]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.checkOrigin == nil {
				return true
			}
			return cfg.checkOrigin(r.Header.Get("Origin"))
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	r.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/stop", s.handleStop).Methods(http.MethodPost)
	return r
}

// Handler returns the HTTP handler serving every bridge endpoint.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start subscribes to the bus and begins accepting websocket clients.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("bridge: already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.subID = s.bus.Subscribe(event.TypeStateUpdate, s.broadcast)
	s.started = true
	return nil
}

// Stop closes every client and waits for their goroutines to finish.
// It is safe to call multiple times.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancel()
	subID := s.subID
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	s.bus.Unsubscribe(subID)
	for _, c := range clients {
		_ = c.conn.Close()
	}
	s.wg.Wait()
}

// SetMaxClients changes the websocket client limit. Connected clients are
// kept when the limit drops below their number.
func (s *Server) SetMaxClients(n int) {
	s.limiter.SetLimit(n)
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// broadcast is the bus subscription: it queues the encoded event for every
// client. Clients whose queue is full are dropped.
func (s *Server) broadcast(e event.Event) {
	frame, err := event.Encode(e)
	if err != nil {
		s.logger.Error("failed to encode event", "event_type", e.EventType(), "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- frame:
		default:
			c.logger.Warn("dropping slow websocket client")
			s.removeLocked(c)
			_ = c.conn.Close()
		}
	}
}

// removeLocked unregisters c and closes its queue. Caller holds s.mu.
func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.limiter.Release()
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		http.Error(w, "bridge not running", http.StatusServiceUnavailable)
		return
	}
	if !s.limiter.TryAcquire() {
		s.mu.Unlock()
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	ctx := s.ctx
	s.mu.Unlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.limiter.Release()
		s.logger.With("remote", r.RemoteAddr).Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, s.sendBuffer),
		logger: s.logger.With("remote", r.RemoteAddr),
	}
	s.mu.Lock()
	if !s.started {
		// Stop ran while the handshake was in flight.
		s.mu.Unlock()
		s.limiter.Release()
		_ = conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	c.logger.Info("websocket client connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx, s.pingInterval)
	}()

	s.readLoop(ctx, c)

	s.mu.Lock()
	s.removeLocked(c)
	s.mu.Unlock()
	_ = conn.Close()
	<-writerDone
	c.logger.Info("websocket client disconnected")
}

// readLoop consumes inbound envelopes until the connection fails.
func (s *Server) readLoop(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxFrameSize)
	deadline := 2 * s.pingInterval
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(deadline))

		if err := s.dispatch(ctx, msg); err != nil {
			c.logger.Error("rejected inbound envelope",
				"error", err,
				"severity", errors.GetSeverity(err).String())
		}
	}
}

// dispatch applies one inbound envelope.
func (s *Server) dispatch(ctx context.Context, msg []byte) error {
	ev, err := event.Decode(msg)
	if err != nil {
		return err
	}

	switch e := ev.(type) {
	case event.TargetClickEvent:
		s.bus.Publish(e)
	case event.StateUpdateEvent:
		switch e.State {
		case event.StateStarted:
			s.host.Start(ctx)
		case event.StateStopped:
			s.host.Stop(ctx)
		default:
			// new-cycle is announced by the controller only.
			return errors.NewProtocolError(event.TypeStateUpdate, errors.ErrUnknownState).WithValue(string(e.State))
		}
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.host.Start(r.Context())
	s.writeSnapshot(w)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.host.Stop(r.Context())
	s.writeSnapshot(w)
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.host.Snapshot()); err != nil {
		s.logger.Warn("failed to write snapshot", "error", err)
	}
}

// client is one websocket connection.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	logger *logging.Logger
}

// writeLoop drains the client's queue and keeps the connection alive with
// pings. It returns when the queue is closed, a write fails, or ctx ends.
func (c *client) writeLoop(ctx context.Context, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// WebsocketURL converts an http(s) base URL into the bridge's websocket URL.
func WebsocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("bridge: unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
