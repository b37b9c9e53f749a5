package model

import (
	"time"
)

// Role represents the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation as seen by the UI.
//
// User messages are created with client-generated IDs. An assistant message
// starts life as a streaming placeholder with empty content; its content grows
// as deltas arrive and it is sealed when the turn completes.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	IsStreaming bool      `json:"is_streaming"`
	Timestamp   time.Time `json:"timestamp"`
}

// Sealed reports whether the message is finished streaming.
func (m Message) Sealed() bool {
	return !m.IsStreaming
}
