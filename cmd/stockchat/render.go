package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

// renderer prints the conversation incrementally: each assistant delta is
// written as it arrives rather than reprinting the whole transcript.
type renderer struct {
	mu      sync.Mutex
	out     io.Writer
	printed int // messages fully printed
	partial int // bytes of the in-progress message already printed
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

func (r *renderer) update(msgs []model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := r.printed; i < len(msgs); i++ {
		m := msgs[i]

		switch {
		case m.Role == model.RoleUser:
			// The user already saw their own input; just mark it printed.
			r.printed = i + 1

		case m.IsStreaming:
			if r.partial == 0 && m.Content != "" {
				fmt.Fprint(r.out, "assistant: ")
			}
			if len(m.Content) > r.partial {
				fmt.Fprint(r.out, m.Content[r.partial:])
				r.partial = len(m.Content)
			}
			return // still streaming; later messages cannot exist yet

		default:
			if r.partial == 0 {
				fmt.Fprint(r.out, "assistant: ")
			}
			if len(m.Content) > r.partial {
				fmt.Fprint(r.out, m.Content[r.partial:])
			}
			fmt.Fprint(r.out, "\n> ")
			r.printed = i + 1
			r.partial = 0
		}
	}
}
