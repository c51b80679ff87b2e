package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
)

// SocketSource is a persistent websocket session to the trading stream. On
// connect it asks the backend to start a session; after that the backend
// pushes complete snapshot frames which are decoded and forwarded.
type SocketSource struct {
	name      string
	url       string
	userID    string
	oppsLimit int
	conn      *websocket.Conn
	log       *slog.Logger
	cancel    context.CancelFunc
	mu        sync.RWMutex
}

type startSessionRequest struct {
	Task string `json:"task"`
	Data struct {
		UserID             string `json:"user_id"`
		OpportunitiesLimit int    `json:"opportunities_limit"`
	} `json:"data"`
}

func NewSocketSource(name, url, userID string, oppsLimit int, log *slog.Logger) port.StreamPort {
	return &SocketSource{
		name:      name,
		url:       url,
		userID:    userID,
		oppsLimit: oppsLimit,
		log:       log,
	}
}

func (s *SocketSource) Name() string {
	return s.name
}

func (s *SocketSource) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("connecting to stream", "source", s.name, "url", s.url)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		s.log.Error("failed to connect to stream", "source", s.name, "url", s.url, "error", err)
		return fmt.Errorf("failed to dial stream %s: %w", s.url, err)
	}

	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn

	req := startSessionRequest{Task: "start_session"}
	req.Data.UserID = s.userID
	req.Data.OpportunitiesLimit = s.oppsLimit
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		s.conn = nil
		return fmt.Errorf("failed to start session: %w", err)
	}

	s.log.Info("stream session started", "source", s.name, "opportunities_limit", s.oppsLimit)
	return nil
}

func (s *SocketSource) ReadFrames(ctx context.Context) (<-chan model.StreamFrame, <-chan error) {
	out := make(chan model.StreamFrame)
	errCh := make(chan error)

	readCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		s.log.Error("cannot start reading, connection is nil", "source", s.name)
		close(out)
		close(errCh)
		cancel()
		return out, errCh
	}

	go func() {
		defer close(out)
		defer close(errCh)
		defer func() {
			s.mu.Lock()
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			s.mu.Unlock()
			conn.Close()
		}()

		frameCount := 0
		errorCount := 0

		for {
			select {
			case <-readCtx.Done():
				s.log.Info("frame reading stopped", "source", s.name, "frames", frameCount, "errors", errorCount)
				return
			default:
			}

			_, msg, err := conn.ReadMessage()
			if err != nil {
				s.log.Error("error reading from stream, triggering reconnect", "source", s.name, "error", err)
				select {
				case errCh <- fmt.Errorf("read error: %w", err):
				default:
				}
				return
			}

			if isKeepAlive(msg) {
				_ = conn.WriteJSON(map[string]string{"type": "pong"})
				continue
			}

			frame, err := DecodeFrame(msg)
			if err != nil {
				s.log.Warn("skipping undecodable frame", "source", s.name, "error", err)
				errorCount++
				continue
			}

			frameCount++
			if frameCount%100 == 0 {
				s.log.Debug("frames read progress", "source", s.name, "count", frameCount)
			}

			select {
			case out <- frame:
			case <-readCtx.Done():
				return
			}
		}
	}()

	return out, errCh
}

func isKeepAlive(msg []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &probe); err != nil {
		return false
	}
	return probe.Type == "ping"
}

func (s *SocketSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("closing stream source", "source", s.name)

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		if err != nil {
			s.log.Error("error closing stream connection", "source", s.name, "error", err)
			return err
		}
	}

	return nil
}
