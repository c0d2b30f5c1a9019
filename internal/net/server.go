package net

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/config"
	"github.com/solanharrison/stickman-fps-server/internal/net/packet"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// Hooks receives connection lifecycle callbacks. OnConnect runs before the
// session is visible to broadcasts; OnDisconnect runs after it was removed.
type Hooks interface {
	OnConnect(sess *Session)
	OnDisconnect(sess *Session)
}

// Server upgrades HTTP requests on /ws to websocket sessions.
type Server struct {
	cfg      config.NetworkConfig
	codec    protocol.Codec
	registry *packet.Registry
	hooks    Hooks
	store    *SessionStore
	upgrader websocket.Upgrader
	log      *zap.Logger

	httpSrv  *http.Server
	listener net.Listener

	// closing is set once by Shutdown; mu orders it against conns.Add.
	mu      sync.Mutex
	closing bool
	conns   sync.WaitGroup
}

func NewServer(cfg config.NetworkConfig, codec protocol.Codec, registry *packet.Registry, hooks Hooks, log *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		codec:    codec,
		registry: registry,
		hooks:    hooks,
		store:    NewSessionStore(),
		log:      log,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: originChecker(cfg.AllowedOrigins),
	}
	return s
}

// Sessions returns the live session store.
func (s *Server) Sessions() *SessionStore { return s.store }

// Handler returns the HTTP routes: /ws plus optional static files at /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	if dir := s.cfg.StaticDir; dir != "" {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(dir)))
		} else {
			s.log.Debug("static dir not found, serving websocket only", zap.String("dir", dir))
		}
	}
	return mux
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpSrv = &http.Server{Handler: s.Handler()}
	return nil
}

// Serve runs the HTTP server until Shutdown. Listen must be called first.
func (s *Server) Serve() error {
	err := s.httpSrv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown stops accepting connections, closes every session and waits for
// their disconnect hooks to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.store.ForEach(func(sess *Session) { sess.Close() })

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// ServeWS upgrades the request and runs the session until it closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	s.conns.Add(1)
	s.mu.Unlock()
	defer s.conns.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	id := world.SessionID(uuid.NewString())
	sess := NewSession(conn, id, s.codec.Binary(), SessionOptions{
		OutQueueSize:   s.cfg.OutQueueSize,
		WriteTimeout:   s.cfg.WriteTimeout,
		ReadTimeout:    s.cfg.ReadTimeout,
		PingInterval:   s.cfg.PingInterval,
		MaxMessageSize: s.cfg.MaxMessageSize,
		MessagesPerSec: s.cfg.MessagesPerSec,
	}, s.log)
	sess.Start()

	if s.hooks != nil {
		s.hooks.OnConnect(sess)
	}
	s.store.Add(sess)
	// Shutdown may have swept the store between OnConnect and Add.
	if s.isClosing() {
		sess.Close()
	}

	sess.readLoop(s.codec, s.registry)

	s.store.Remove(id)
	if s.hooks != nil {
		s.hooks.OnDisconnect(sess)
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// originChecker allows every origin when the list contains "*", and
// otherwise same-host requests plus the listed origins.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
