// Package protocol defines the JSON frame protocol spoken over the chat
// websocket and the decoder for inbound frames.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

// FrameType is the discriminator carried in every frame's "type" field.
type FrameType string

// Inbound frame types.
const (
	FrameConnection        FrameType = "connection"
	FrameRateLimitInfo     FrameType = "rate_limit_info"
	FrameMessageReceived   FrameType = "message_received"
	FrameTextChunk         FrameType = "text_chunk"
	FrameToolExecuting     FrameType = "tool_executing"
	FrameToolComplete      FrameType = "tool_complete"
	FrameMessageComplete   FrameType = "message_complete"
	FrameRateLimitExceeded FrameType = "rate_limit_exceeded"
	FrameError             FrameType = "error"
	FramePong              FrameType = "pong"

	// FrameUnknown stands in for any discriminator this client does not
	// recognize. Unknown frames are logged and dropped, never fatal.
	FrameUnknown FrameType = "unknown"
)

// Outbound frame types.
const (
	FrameMessage FrameType = "message"
	FramePing    FrameType = "ping"
)

// MessageFrame is the outbound frame that starts a turn.
type MessageFrame struct {
	Type    FrameType `json:"type"`
	ChatID  string    `json:"chat_id"`
	Message string    `json:"message"`
}

// NewMessageFrame builds an outbound message frame for a chat.
func NewMessageFrame(chatID, text string) MessageFrame {
	return MessageFrame{Type: FrameMessage, ChatID: chatID, Message: text}
}

// PingFrame is the outbound keep-alive frame.
type PingFrame struct {
	Type FrameType `json:"type"`
}

// NewPingFrame builds an outbound ping frame.
func NewPingFrame() PingFrame {
	return PingFrame{Type: FramePing}
}

// Envelope is the decoded form of one inbound frame. Only the fields relevant
// to the frame's type are populated; the rest are zero.
type Envelope struct {
	Type FrameType `json:"type"`

	// connection
	Status string `json:"status,omitempty"`

	// text_chunk
	Content string `json:"content,omitempty"`

	// tool_executing / tool_complete
	Name string `json:"name,omitempty"`

	// rate_limit_info
	CurrentUsage *model.RateLimitUsage `json:"current_usage,omitempty"`
	Limits       *model.RateLimitUsage `json:"limits,omitempty"`

	// error
	Message string `json:"message,omitempty"`

	// raw discriminator as it appeared on the wire, kept for logging when the
	// type is unknown
	RawType string `json:"-"`
}

// Known reports whether the envelope carries a discriminator this client
// understands.
func (e *Envelope) Known() bool {
	return e.Type != FrameUnknown
}

// RateLimitSnapshot assembles the snapshot carried by a rate_limit_info
// frame. Missing sections decode as zero counters.
func (e *Envelope) RateLimitSnapshot() model.RateLimitSnapshot {
	var snap model.RateLimitSnapshot
	if e.CurrentUsage != nil {
		snap.Current = *e.CurrentUsage
	}
	if e.Limits != nil {
		snap.Limits = *e.Limits
	}
	return snap
}

var knownTypes = map[FrameType]struct{}{
	FrameConnection:        {},
	FrameRateLimitInfo:     {},
	FrameMessageReceived:   {},
	FrameTextChunk:         {},
	FrameToolExecuting:     {},
	FrameToolComplete:      {},
	FrameMessageComplete:   {},
	FrameRateLimitExceeded: {},
	FrameError:             {},
	FramePong:              {},
}

// Decode parses one raw text frame into an envelope.
//
// A parse failure is returned as an error and must be treated as a discard by
// the caller; it never corrupts client state. A syntactically valid frame
// with an unrecognized discriminator decodes successfully as FrameUnknown.
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	if _, ok := knownTypes[env.Type]; !ok {
		env.RawType = string(env.Type)
		env.Type = FrameUnknown
	}
	return &env, nil
}
