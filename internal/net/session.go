package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/net/packet"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// SessionOptions carries the per-connection limits taken from the network config.
type SessionOptions struct {
	OutQueueSize   int
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	MessagesPerSec int // 0 = unlimited
}

// Session represents a single websocket client. The read loop runs on the
// HTTP handler goroutine and applies intents directly; a dedicated writer
// goroutine drains OutQueue so that a slow client never blocks the tick.
type Session struct {
	ID world.SessionID
	IP string

	conn      *websocket.Conn
	frameType int
	opts      SessionOptions

	OutQueue chan []byte // writer goroutine reads from here

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second message rate limiter (read loop only, no lock needed)
	msgCount   int
	msgResetAt int64

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id world.SessionID, binary bool, opts SessionOptions, log *zap.Logger) *Session {
	frameType := websocket.TextMessage
	if binary {
		frameType = websocket.BinaryMessage
	}
	if opts.OutQueueSize <= 0 {
		opts.OutQueueSize = 1
	}
	return &Session{
		ID:        id,
		IP:        conn.RemoteAddr().String(),
		conn:      conn,
		frameType: frameType,
		opts:      opts,
		OutQueue:  make(chan []byte, opts.OutQueueSize),
		closeCh:   make(chan struct{}),
		log:       log.With(zap.String("session", string(id))),
	}
}

// Start launches the writer goroutine.
func (s *Session) Start() {
	go s.writeLoop()
}

// Send queues a frame without blocking. If the outbound queue is full the
// client is too slow to keep up; it is disconnected and false is returned.
func (s *Session) Send(data []byte) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.OutQueue <- data:
		return true
	default:
		s.log.Warn("outbound queue full, dropping slow client")
		s.Close()
		return false
	}
}

// Close shuts the session down. Safe to call from any goroutine, any number of times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// readLoop reads frames until the connection fails or closes, decoding each
// into an envelope and dispatching it through the registry.
func (s *Session) readLoop(codec protocol.Codec, registry *packet.Registry) {
	defer s.Close()

	if s.opts.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.opts.MaxMessageSize)
	}
	s.extendReadDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendReadDeadline()
		return nil
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.extendReadDeadline()

		if s.overRate() {
			s.log.Warn("message rate exceeded, disconnecting", zap.Int("per_sec", s.msgCount))
			return
		}

		env, err := codec.DecodeEnvelope(payload)
		if err != nil {
			s.log.Debug("malformed frame dropped", zap.Error(err))
			continue
		}
		if err := registry.Dispatch(s.ID, env); err != nil {
			s.log.Debug("dispatch error", zap.String("type", env.T), zap.Error(err))
		}
	}
}

func (s *Session) extendReadDeadline() {
	if s.opts.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
}

func (s *Session) overRate() bool {
	if s.opts.MessagesPerSec <= 0 {
		return false
	}
	now := time.Now().Unix()
	if now != s.msgResetAt {
		s.msgCount = 0
		s.msgResetAt = now
	}
	s.msgCount++
	return s.msgCount > s.opts.MessagesPerSec
}

// writeLoop runs in its own goroutine. It is the only writer on the
// connection, which gorilla/websocket requires.
func (s *Session) writeLoop() {
	defer s.Close()

	var ping <-chan time.Time
	if s.opts.PingInterval > 0 {
		t := time.NewTicker(s.opts.PingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case data := <-s.OutQueue:
			if !s.write(s.frameType, data) {
				return
			}
		case <-ping:
			if !s.write(websocket.PingMessage, nil) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) write(frameType int, data []byte) bool {
	if s.opts.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if err := s.conn.WriteMessage(frameType, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
