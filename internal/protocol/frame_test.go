package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKnownFrames(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType FrameType
		check    func(t *testing.T, env *Envelope)
	}{
		{
			name:     "connection",
			raw:      `{"type":"connection","status":"established"}`,
			wantType: FrameConnection,
			check: func(t *testing.T, env *Envelope) {
				assert.Equal(t, "established", env.Status)
			},
		},
		{
			name:     "text chunk",
			raw:      `{"type":"text_chunk","content":"Hel"}`,
			wantType: FrameTextChunk,
			check: func(t *testing.T, env *Envelope) {
				assert.Equal(t, "Hel", env.Content)
			},
		},
		{
			name:     "tool executing",
			raw:      `{"type":"tool_executing","name":"get_portfolio"}`,
			wantType: FrameToolExecuting,
			check: func(t *testing.T, env *Envelope) {
				assert.Equal(t, "get_portfolio", env.Name)
			},
		},
		{
			name:     "message complete",
			raw:      `{"type":"message_complete"}`,
			wantType: FrameMessageComplete,
		},
		{
			name:     "rate limit exceeded",
			raw:      `{"type":"rate_limit_exceeded"}`,
			wantType: FrameRateLimitExceeded,
		},
		{
			name:     "pong",
			raw:      `{"type":"pong"}`,
			wantType: FramePong,
		},
		{
			name: "rate limit info",
			raw: `{"type":"rate_limit_info",` +
				`"current_usage":{"burst":1,"per_chat":2,"hourly":3,"daily":4},` +
				`"limits":{"burst":5,"per_chat":10,"hourly":50,"daily":200}}`,
			wantType: FrameRateLimitInfo,
			check: func(t *testing.T, env *Envelope) {
				snap := env.RateLimitSnapshot()
				assert.Equal(t, 1, snap.Current.Burst)
				assert.Equal(t, 4, snap.Current.Daily)
				assert.Equal(t, 5, snap.Limits.Burst)
				assert.Equal(t, 200, snap.Limits.Daily)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, env.Type)
			assert.True(t, env.Known())
			if tt.check != nil {
				tt.check(t, env)
			}
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	env, err := Decode([]byte(`{"type":"totally_unexpected","payload":42}`))
	require.NoError(t, err)
	assert.Equal(t, FrameUnknown, env.Type)
	assert.False(t, env.Known())
	assert.Equal(t, "totally_unexpected", env.RawType)
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"not json at all", "{", `{"type":42}`} {
		_, err := Decode([]byte(raw))
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestDecodeRateLimitInfoPartial(t *testing.T) {
	// Missing sections decode as zero counters, not as an error.
	env, err := Decode([]byte(`{"type":"rate_limit_info","current_usage":{"burst":2}}`))
	require.NoError(t, err)

	snap := env.RateLimitSnapshot()
	assert.Equal(t, 2, snap.Current.Burst)
	assert.Zero(t, snap.Current.Hourly)
	assert.Zero(t, snap.Limits)
}

func TestOutboundFrames(t *testing.T) {
	data, err := json.Marshal(NewMessageFrame("c1", "Hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","chat_id":"c1","message":"Hi"}`, string(data))

	data, err = json.Marshal(NewPingFrame())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(data))
}
