// Package transport owns the websocket connection to the chat backend.
//
// A Session wraps exactly one connection. It does no reconnection and no
// backoff; when the connection drops the session is spent and the caller
// decides whether to dial again with a fresh one.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finsight-ai/stockchat-client/pkg/logger"
)

// ErrNotConnected is returned by Send when the session has no open
// connection.
var ErrNotConnected = errors.New("transport: not connected")

// Handler receives session events. Callbacks are invoked from the session's
// read goroutine (OnClose also from Close); a nil callback is skipped.
type Handler struct {
	OnOpen  func()
	OnClose func()
	OnFrame func(raw []byte)
}

// Session is one websocket connection to the chat endpoint.
type Session interface {
	// Send marshals v as JSON and writes it as one text frame.
	Send(v any) error

	// Close tears the connection down. Idempotent and safe to call on a
	// session that never opened.
	Close() error
}

// Dialer opens websocket sessions against a fixed endpoint.
type Dialer struct {
	URL              string
	HandshakeTimeout time.Duration
	Logger           *logger.Logger
}

// NewDialer creates a dialer for the given websocket URL.
func NewDialer(wsURL string, handshakeTimeout time.Duration, log *logger.Logger) *Dialer {
	return &Dialer{
		URL:              wsURL,
		HandshakeTimeout: handshakeTimeout,
		Logger:           log.WithComponent("transport"),
	}
}

// Dial establishes one connection, authenticating with the token as a query
// parameter on the handshake request. On success the handler's OnOpen fires
// before Dial returns and a read goroutine starts delivering frames.
func (d *Dialer) Dial(ctx context.Context, token string, h Handler) (Session, error) {
	endpoint, err := withToken(d.URL, token)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: d.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial failed: %w", err)
	}

	s := &session{
		conn:    conn,
		handler: h,
		logger:  d.Logger,
	}

	if h.OnOpen != nil {
		h.OnOpen()
	}
	go s.readLoop()

	return s, nil
}

func withToken(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type session struct {
	conn    *websocket.Conn
	handler Handler
	logger  *logger.Logger

	writeMu sync.Mutex

	closeOnce sync.Once
}

// readLoop delivers inbound frames until the connection dies, then reports
// the close exactly once.
func (s *session) readLoop() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			s.shutdown()
			return
		}
		if s.handler.OnFrame != nil {
			s.handler.OnFrame(msg)
		}
	}
}

func (s *session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (s *session) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	s.writeMu.Unlock()

	err := s.conn.Close()
	s.shutdown()
	return err
}

func (s *session) shutdown() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		if s.handler.OnClose != nil {
			s.handler.OnClose()
		}
	})
}
