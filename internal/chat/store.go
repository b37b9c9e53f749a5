package chat

import (
	"sync"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

// Store is the ordered list of messages visible to the UI.
//
// New turns enter only through Append, which makes the user message and its
// assistant placeholder visible together. ReplaceLast is the sole mutation
// primitive; no indexed mutation is exposed.
type Store struct {
	mu       sync.RWMutex
	messages []model.Message
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append atomically adds a user message and its assistant placeholder.
func (s *Store) Append(user, placeholder model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, user, placeholder)
}

// ReplaceLast swaps the last message for transform(last). It reports false
// when the store is empty.
func (s *Store) ReplaceLast(transform func(model.Message) model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return false
	}
	last := len(s.messages) - 1
	s.messages[last] = transform(s.messages[last])
	return true
}

// Last returns the most recent message.
func (s *Store) Last() (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return model.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Messages returns a copy of the conversation.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
