package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

func userMsg(content string) model.Message {
	return model.Message{ID: "u-" + content, Role: model.RoleUser, Content: content, Timestamp: time.Now()}
}

func openPlaceholder() model.Message {
	return model.Message{ID: "a-1", Role: model.RoleAssistant, IsStreaming: true, Timestamp: time.Now()}
}

func TestStoreAppendIsAtomic(t *testing.T) {
	s := NewStore()
	s.Append(userMsg("hi"), openPlaceholder())

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.True(t, msgs[1].IsStreaming)
}

func TestStoreReplaceLast(t *testing.T) {
	s := NewStore()
	s.Append(userMsg("hi"), openPlaceholder())

	ok := s.ReplaceLast(func(m model.Message) model.Message {
		m.Content = "partial"
		return m
	})
	require.True(t, ok)

	last, found := s.Last()
	require.True(t, found)
	assert.Equal(t, "partial", last.Content)
	assert.True(t, last.IsStreaming)

	// The user message is untouched.
	assert.Equal(t, "hi", s.Messages()[0].Content)
}

func TestStoreReplaceLastEmpty(t *testing.T) {
	s := NewStore()
	assert.False(t, s.ReplaceLast(func(m model.Message) model.Message { return m }))

	_, found := s.Last()
	assert.False(t, found)
	assert.Zero(t, s.Len())
}

func TestStoreMessagesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(userMsg("hi"), openPlaceholder())

	snapshot := s.Messages()
	snapshot[0].Content = "mutated"

	assert.Equal(t, "hi", s.Messages()[0].Content)
}
