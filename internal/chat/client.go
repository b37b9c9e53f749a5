// Package chat implements the streaming chat client: the conversation store,
// the delta accumulator, the rate-limit monitor, the keep-alive driver and
// the facade that composes them over one websocket session.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/finsight-ai/stockchat-client/internal/auth"
	"github.com/finsight-ai/stockchat-client/internal/model"
	"github.com/finsight-ai/stockchat-client/internal/protocol"
	"github.com/finsight-ai/stockchat-client/internal/transport"
	"github.com/finsight-ai/stockchat-client/pkg/logger"
	"github.com/finsight-ai/stockchat-client/pkg/metrics"
)

// Status is the connection state of the client.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Dialer opens one websocket session per call. Satisfied by
// *transport.Dialer; tests substitute a fake.
type Dialer interface {
	Dial(ctx context.Context, token string, h transport.Handler) (transport.Session, error)
}

// Client is the single object the UI holds. It owns at most one transport
// session and one keep-alive timer, created on Connect and destroyed on
// Disconnect; multiple Client instances never interfere.
//
// All event handling (frames, open/close, keep-alive ticks, user sends) is
// serialized through one mutex, so handlers never mutate shared state
// concurrently.
type Client struct {
	dialer    Dialer
	tokens    *auth.TokenStore
	logger    *logger.Logger
	tracer    trace.Tracer
	keepEvery time.Duration

	store  *Store
	acc    *Accumulator
	limits *RateLimitMonitor

	mu        sync.Mutex
	status    Status
	streaming bool
	session   transport.Session
	keep      *keepAlive
	gen       uint64 // session generation; events from stale sessions are ignored
	turnStart time.Time
	dropped   uint64

	onChange func()
}

// Option configures a Client.
type Option func(*Client)

// WithKeepAliveInterval overrides the default 30s ping interval.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(c *Client) { c.keepEvery = d }
}

// WithOnChange registers a callback fired after every observable state
// change. It is invoked outside the client's lock.
func WithOnChange(fn func()) Option {
	return func(c *Client) { c.onChange = fn }
}

// NewClient creates a client facade.
func NewClient(dialer Dialer, tokens *auth.TokenStore, log *logger.Logger, opts ...Option) *Client {
	store := NewStore()
	c := &Client{
		dialer:    dialer,
		tokens:    tokens,
		logger:    log.WithComponent("chat"),
		tracer:    otel.Tracer("github.com/finsight-ai/stockchat-client/internal/chat"),
		keepEvery: 30 * time.Second,
		store:     store,
		acc:       NewAccumulator(store),
		limits:    NewRateLimitMonitor(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the websocket session. It is a no-op when already
// connecting or connected, and a silent no-op when no usable credential is
// present.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusDisconnected {
		c.mu.Unlock()
		return nil
	}
	if !c.tokens.Valid(time.Now()) {
		c.mu.Unlock()
		c.logger.Debug("connect skipped, no credential")
		return nil
	}

	c.status = StatusConnecting
	c.gen++
	gen := c.gen
	token := c.tokens.Token()
	c.mu.Unlock()
	c.notify()

	ctx, span := c.tracer.Start(ctx, "chat.Connect")
	defer span.End()

	sess, err := c.dialer.Dial(ctx, token, transport.Handler{
		OnOpen:  func() { c.handleOpened(gen) },
		OnClose: func() { c.handleClosed(gen) },
		OnFrame: func(raw []byte) { c.handleFrame(gen, raw) },
	})
	if err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.status = StatusDisconnected
		}
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.mu.Lock()
	if c.gen != gen || c.status == StatusDisconnected {
		// Disconnect or an immediate close raced the dial; the session is
		// already stale.
		c.mu.Unlock()
		_ = sess.Close()
		return nil
	}
	c.session = sess
	c.mu.Unlock()
	return nil
}

// Disconnect tears down the transport and the keep-alive timer and forces
// the client to disconnected. Idempotent and safe from any state.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.gen++
	sess := c.session
	c.session = nil
	c.status = StatusDisconnected
	c.stopKeepAliveLocked()
	c.mu.Unlock()

	if sess != nil {
		_ = sess.Close()
	}
	c.notify()
}

// SendMessage starts a new turn. It reports false and changes nothing when
// the client is not connected, a turn is already streaming, the text is empty
// after trimming, or no chat is selected. No error is raised on rejection;
// the UI is expected to gate input on IsConnected and IsStreaming.
func (c *Client) SendMessage(chatID, text string) bool {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	switch {
	case c.status != StatusConnected || c.session == nil:
		c.mu.Unlock()
		c.reject("not_connected")
		return false
	case c.streaming:
		c.mu.Unlock()
		c.reject("turn_in_flight")
		return false
	case trimmed == "":
		c.mu.Unlock()
		c.reject("empty_message")
		return false
	case chatID == "":
		c.mu.Unlock()
		c.reject("no_chat_selected")
		return false
	}

	now := time.Now()
	user := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      model.RoleUser,
		Content:   trimmed,
		Timestamp: now,
	}
	placeholder := model.Message{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Role:        model.RoleAssistant,
		IsStreaming: true,
		Timestamp:   now,
	}

	c.store.Append(user, placeholder)
	c.acc.Begin()
	c.streaming = true
	c.turnStart = now
	sess := c.session
	c.mu.Unlock()

	_, span := c.tracer.Start(context.Background(), "chat.SendMessage",
		trace.WithAttributes(attribute.String("chat.id", chatID)))
	defer span.End()

	if err := sess.Send(protocol.NewMessageFrame(chatID, trimmed)); err != nil {
		// A failed write means the connection is dying; the closed event
		// will flip the status shortly.
		c.logger.Error("failed to send message frame", zap.Error(err))
	} else {
		metrics.RecordFrameSent(string(protocol.FrameMessage))
	}

	c.notify()
	return true
}

// Messages returns a snapshot of the conversation.
func (c *Client) Messages() []model.Message {
	return c.store.Messages()
}

// Status returns the connection state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsConnected reports whether the session is open.
func (c *Client) IsConnected() bool {
	return c.Status() == StatusConnected
}

// IsStreaming reports whether a turn is in flight.
func (c *Client) IsStreaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// RateLimits returns the latest usage snapshot, or false if the backend has
// not reported one yet.
func (c *Client) RateLimits() (model.RateLimitSnapshot, bool) {
	return c.limits.Current()
}

// DroppedChunks reports how many text deltas were discarded because no
// assistant placeholder was open to receive them.
func (c *Client) DroppedChunks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

func (c *Client) handleOpened(gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnected
	c.stopKeepAliveLocked()
	c.keep = startKeepAlive(c.keepEvery, c.sendPing)
	c.mu.Unlock()

	metrics.ConnectionsActive.Set(1)
	c.logger.Info("chat session opened")
	c.notify()
}

func (c *Client) handleClosed(gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.status = StatusDisconnected
	c.session = nil
	c.stopKeepAliveLocked()
	c.mu.Unlock()

	metrics.ConnectionsActive.Set(0)
	c.logger.Info("chat session closed")
	c.notify()
}

// handleFrame processes one inbound frame. Frames are handled strictly in
// delivery order; the whole transition runs under the client lock.
func (c *Client) handleFrame(gen uint64, raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		metrics.MalformedFrames.Inc()
		c.logger.Warn("discarding malformed frame", zap.Error(err))
		return
	}
	metrics.RecordFrameReceived(string(env.Type))

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}

	switch env.Type {
	case protocol.FrameConnection:
		c.logger.Info("connection status", zap.String("status", env.Status))

	case protocol.FrameRateLimitInfo:
		c.limits.Update(env.RateLimitSnapshot())

	case protocol.FrameMessageReceived:
		c.logger.Debug("message acknowledged by backend")

	case protocol.FrameTextChunk:
		if !c.acc.ApplyChunk(env.Content) {
			c.dropped++
			metrics.DroppedChunks.Inc()
			c.logger.Warn("dropped text chunk, no open placeholder")
		}

	case protocol.FrameToolExecuting:
		c.logger.Info("tool executing", zap.String("tool", env.Name))

	case protocol.FrameToolComplete:
		c.logger.Info("tool complete", zap.String("tool", env.Name))

	case protocol.FrameMessageComplete:
		c.acc.Seal()
		c.endTurnLocked("complete")

	case protocol.FrameRateLimitExceeded:
		c.acc.Seal()
		c.endTurnLocked("rate_limited")
		c.logger.Warn("turn stopped, rate limit exceeded")

	case protocol.FrameError:
		c.acc.Seal()
		c.endTurnLocked("error")
		c.logger.Warn("turn stopped by backend error", zap.String("message", env.Message))

	case protocol.FramePong:
		c.logger.Debug("pong received")

	default:
		c.logger.Warn("ignoring unknown frame", zap.String("type", env.RawType))
	}
	c.mu.Unlock()
	c.notify()
}

// endTurnLocked flips the streaming flag off and records turn metrics. The
// partial content already accumulated stays visible on early termination.
func (c *Client) endTurnLocked(outcome string) {
	if !c.streaming {
		return
	}
	c.streaming = false
	metrics.RecordTurn(outcome, time.Since(c.turnStart).Seconds())
}

func (c *Client) sendPing() {
	c.mu.Lock()
	sess := c.session
	open := c.status == StatusConnected
	c.mu.Unlock()

	if !open || sess == nil {
		return
	}
	if err := sess.Send(protocol.NewPingFrame()); err != nil {
		c.logger.Debug("keep-alive ping failed", zap.Error(err))
		return
	}
	metrics.RecordFrameSent(string(protocol.FramePing))
}

func (c *Client) stopKeepAliveLocked() {
	if c.keep != nil {
		c.keep.Stop()
		c.keep = nil
	}
}

func (c *Client) reject(reason string) {
	metrics.RejectedSends.WithLabelValues(reason).Inc()
	c.logger.Debug("send rejected", zap.String("reason", reason))
}

func (c *Client) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
