package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

func newTurn(t *testing.T) (*Store, *Accumulator) {
	t.Helper()
	s := NewStore()
	a := NewAccumulator(s)
	s.Append(userMsg("question"), openPlaceholder())
	a.Begin()
	return s, a
}

func TestAccumulatorConcatenatesInOrder(t *testing.T) {
	s, a := newTurn(t)

	for _, delta := range []string{"Hel", "lo ", "world"} {
		assert.True(t, a.ApplyChunk(delta))
	}

	last, _ := s.Last()
	assert.Equal(t, "Hello world", last.Content)
	assert.True(t, last.IsStreaming)
}

func TestAccumulatorSeal(t *testing.T) {
	s, a := newTurn(t)

	require.True(t, a.ApplyChunk("answer"))
	require.True(t, a.Seal())

	last, _ := s.Last()
	assert.Equal(t, "answer", last.Content)
	assert.False(t, last.IsStreaming)

	// Sealing again is a no-op.
	assert.False(t, a.Seal())
}

func TestAccumulatorIgnoresChunkWithoutPlaceholder(t *testing.T) {
	s := NewStore()
	a := NewAccumulator(s)

	assert.False(t, a.ApplyChunk("stray"))
	assert.Zero(t, s.Len())

	// A sealed assistant message does not accept chunks either.
	s.Append(userMsg("q"), openPlaceholder())
	a.Begin()
	require.True(t, a.Seal())

	assert.False(t, a.ApplyChunk("late"))
	last, _ := s.Last()
	assert.Empty(t, last.Content)
}

func TestAccumulatorIgnoresChunkWhenLastIsUser(t *testing.T) {
	s := NewStore()
	a := NewAccumulator(s)
	s.Append(userMsg("a"), userMsg("b"))

	assert.False(t, a.ApplyChunk("nope"))
	assert.Equal(t, "b", s.Messages()[1].Content)
}

func TestAccumulatorBeginResetsBuffer(t *testing.T) {
	s, a := newTurn(t)
	require.True(t, a.ApplyChunk("first turn"))
	require.True(t, a.Seal())

	s.Append(userMsg("again"), model.Message{ID: "a-2", Role: model.RoleAssistant, IsStreaming: true})
	a.Begin()

	require.True(t, a.ApplyChunk("second"))
	last, _ := s.Last()
	assert.Equal(t, "second", last.Content)
}
