package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ask(q string) []Turn {
	return []Turn{{Role: RoleUser, Content: q}}
}

func TestReplyRules(t *testing.T) {
	r := NewResponder()
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"summary", "Give me a SUMMARY please", SummaryReply},
		{"summarize", "can you summarize it", SummaryReply},
		{"tone", "What tone is this?", ToneReply},
		{"platform", "Which platforms?", PlatformReply},
		{"summary beats tone", "summary of the tone", SummaryReply},
		{"tone beats platform", "tone per platform", ToneReply},
		{"fallback", "Who Wrote It?", `That's a great question about "who wrote it?". Based on the text, I can tell you that effective repurposing involves adapting the message for each specific channel rather than just copying it.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := r.Reply(context.Background(), ask(tt.question), "Some context text")
			require.NoError(t, err)
			assert.Equal(t, RoleAssistant, turn.Role)
			assert.Equal(t, tt.want, turn.Content)
		})
	}
}

func TestReplyUsesLastTurnOnly(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "summary"},
		{Role: RoleAssistant, Content: SummaryReply},
		{Role: RoleUser, Content: "and the tone?"},
	}
	turn, err := NewResponder().Reply(context.Background(), history, "ctx")
	require.NoError(t, err)
	assert.Equal(t, ToneReply, turn.Content)
}

func TestReplyWithoutContext(t *testing.T) {
	turn, err := NewResponder().Reply(context.Background(), ask("summary"), "")
	require.NoError(t, err)
	assert.Equal(t, NoContextReply, turn.Content)
}

func TestReplyInvalidHistory(t *testing.T) {
	r := NewResponder()
	for name, history := range map[string][]Turn{
		"empty":    nil,
		"bad role": {{Role: "system", Content: "hi"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Reply(context.Background(), history, "ctx")
			require.ErrorIs(t, err, ErrInvalidMessages)
		})
	}
}

func TestReplyDelay(t *testing.T) {
	r := NewResponder(WithDelay(30 * time.Millisecond))

	start := time.Now()
	_, err := r.Reply(context.Background(), ask("tone"), "ctx")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = NewResponder(WithDelay(time.Hour))
	_, err = r.Reply(ctx, ask("tone"), "ctx")
	require.ErrorIs(t, err, context.Canceled)
}
