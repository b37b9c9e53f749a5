package chat

import (
	"strings"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

// Accumulator reconstructs one assistant turn from in-order content deltas.
//
// It relies on the transport delivering chunks in send order and does no
// reordering of its own; each delta is appended to a running buffer and the
// open placeholder's content is replaced with the buffer value.
type Accumulator struct {
	store *Store
	buf   strings.Builder
}

// NewAccumulator creates an accumulator over the given store.
func NewAccumulator(store *Store) *Accumulator {
	return &Accumulator{store: store}
}

// Begin resets the running buffer for a new turn.
func (a *Accumulator) Begin() {
	a.buf.Reset()
}

// ApplyChunk appends a delta to the open assistant placeholder. When the last
// store entry is not an open placeholder the chunk is dropped and ApplyChunk
// reports false; the wrong message is never mutated.
func (a *Accumulator) ApplyChunk(delta string) bool {
	if !a.placeholderOpen() {
		return false
	}

	a.buf.WriteString(delta)
	content := a.buf.String()

	return a.store.ReplaceLast(func(m model.Message) model.Message {
		m.Content = content
		return m
	})
}

// Seal closes the open placeholder, keeping whatever content has accumulated,
// and clears the buffer. It reports false when no placeholder was open. Used
// both for normal completion and for forced early termination, where the
// partial content stays visible.
func (a *Accumulator) Seal() bool {
	a.buf.Reset()

	if !a.placeholderOpen() {
		return false
	}

	return a.store.ReplaceLast(func(m model.Message) model.Message {
		m.IsStreaming = false
		return m
	})
}

func (a *Accumulator) placeholderOpen() bool {
	last, ok := a.store.Last()
	return ok && last.Role == model.RoleAssistant && last.IsStreaming
}
