package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shellhost/internal/ipc"
	"shellhost/internal/logger"
	"shellhost/internal/windows"
)

const (
	Path         = "/ipc"
	maxFrameSize = 4 << 20
	writeTimeout = 10 * time.Second
)

// ErrNotConnected is returned by Notify when no renderer of the window is
// connected.
var ErrNotConnected = errors.New("transport: renderer not connected")

// Dispatcher is what renderer calls are routed into.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel string, args ipc.Args) (interface{}, error)
}

// Server is the renderer boundary: one websocket per renderer, addressed by
// the window it belongs to. It implements windows.Notifier.
type Server struct {
	dispatcher Dispatcher
	logger     logger.Logger
	upgrader   websocket.Upgrader

	mu     sync.RWMutex
	conns  map[windows.Identifier]map[string]*conn
	http   *http.Server
	closed bool

	wg sync.WaitGroup
}

func NewServer(d Dispatcher, log logger.Logger) *Server {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Server{
		dispatcher: d,
		logger:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     localOrigin,
		},
		conns: make(map[windows.Identifier]map[string]*conn),
	}
}

// localOrigin admits renderers served from the local machine only.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return u.Scheme == "file" || u.Scheme == "app"
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address.
func (s *Server) Start(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Transport", err, map[string]interface{}{"addr": ln.Addr().String()})
		}
	}()

	s.logger.Info("Transport", "renderer transport listening", map[string]interface{}{"addr": ln.Addr().String()})
	return ln.Addr(), nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := windows.Identifier(r.URL.Query().Get("window"))
	if id == "" {
		http.Error(w, "missing window parameter", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warning("Transport", "upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	c := &conn{id: uuid.NewString(), window: id, ws: ws}
	if !s.add(c) {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}
	go s.serve(c)
}

// add tracks c unless the server is shutting down. The wait group is
// bumped under the same lock so Shutdown never waits on an untracked
// connection.
func (s *Server) add(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.wg.Add(1)
	if s.conns[c.window] == nil {
		s.conns[c.window] = make(map[string]*conn)
	}
	s.conns[c.window][c.id] = c
	s.logger.Info("Transport", "renderer connected", map[string]interface{}{
		"window":        string(c.window),
		"connection_id": c.id,
	})
	return true
}

func (s *Server) remove(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns[c.window], c.id)
	if len(s.conns[c.window]) == 0 {
		delete(s.conns, c.window)
	}
	s.logger.Info("Transport", "renderer disconnected", map[string]interface{}{
		"window":        string(c.window),
		"connection_id": c.id,
	})
}

func (s *Server) serve(c *conn) {
	defer s.wg.Done()
	defer s.remove(c)
	defer c.ws.Close()

	c.ws.SetReadLimit(maxFrameSize)

	var calls sync.WaitGroup
	defer calls.Wait()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warning("Transport", "connection dropped", map[string]interface{}{
					"connection_id": c.id,
					"error":         err.Error(),
				})
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil || req.Channel == "" {
			msg := "request needs a channel"
			if err != nil {
				msg = "malformed request: " + err.Error()
			}
			_ = c.write(Response{ID: req.ID, Error: &ErrorBody{Code: CodeBadRequest, Message: msg}})
			continue
		}

		calls.Add(1)
		go func() {
			defer calls.Done()
			s.call(c, req)
		}()
	}
}

func (s *Server) call(c *conn, req Request) {
	ctx := context.Background()
	result, err := s.dispatcher.Dispatch(ctx, req.Channel, ipc.RawArgs(req.Args))

	resp := Response{ID: req.ID, Result: result}
	if err != nil {
		resp = Response{ID: req.ID, Error: errorBody(err)}
	}
	if err := c.write(resp); err != nil {
		s.logger.Warning("Transport", "response not delivered", map[string]interface{}{
			"connection_id": c.id,
			"channel":       req.Channel,
			"error":         err.Error(),
		})
	}
}

// Notify pushes event to every renderer connected for window id.
func (s *Server) Notify(id windows.Identifier, event string, payload interface{}) error {
	s.mu.RLock()
	targets := make([]*conn, 0, len(s.conns[id]))
	for _, c := range s.conns[id] {
		targets = append(targets, c)
	}
	s.mu.RUnlock()

	if len(targets) == 0 {
		return fmt.Errorf("%w: %s", ErrNotConnected, id)
	}

	frame := EventFrame{Event: event, Payload: payload}
	var errs []error
	for _, c := range targets {
		if err := c.write(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// connected lists windows that have at least one renderer attached.
func (s *Server) connected() []windows.Identifier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]windows.Identifier, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shutdown stops listening and closes every renderer connection.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closed = true
	srv := s.http
	s.mu.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}

	// Upgrades that raced the listener close are refused by add, so this
	// snapshot is complete.
	s.mu.RLock()
	var all []*conn
	for _, byID := range s.conns {
		for _, c := range byID {
			all = append(all, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range all {
		_ = c.close()
	}
	s.wg.Wait()
	s.logger.Info("Transport", "renderer transport stopped", nil)
}

type conn struct {
	id     string
	window windows.Identifier
	ws     *websocket.Conn

	writeMu sync.Mutex
}

func (c *conn) write(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *conn) close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "host shutting down")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}
