// Package chat answers follow-up questions about generated content. The
// responder is a keyword stub: it never calls a model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrInvalidMessages is returned for an empty history or an unknown role.
var ErrInvalidMessages = errors.New("invalid messages format")

const (
	NoContextReply = "Please generate content first so I have some context to answer your questions!"
	SummaryReply   = "Based on the content, here is a summary: The article discusses the importance of content repurposing to maximize reach and efficiency. It highlights strategies like creating micro-content and visual transformations."
	ToneReply      = "The tone of the content appears to be professional, informative, and encouraging."
	PlatformReply  = "The content mentions LinkedIn, Twitter, and Blogs as key platforms for repurposing."
	fallbackFormat = "That's a great question about \"%s\". Based on the text, I can tell you that effective repurposing involves adapting the message for each specific channel rather than just copying it."
)

// Turn is one chat message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type rule struct {
	match func(q string) bool
	reply string
}

func containsAny(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

// rules are tried in order against the lowercased question.
var rules = []rule{
	{containsAny("summary", "summarize"), SummaryReply},
	{containsAny("tone"), ToneReply},
	{containsAny("platform"), PlatformReply},
}

// Responder produces assistant turns.
type Responder struct {
	delay  time.Duration
	logger *slog.Logger
}

type Option func(*Responder)

// WithDelay sets the artificial latency before each reply.
func WithDelay(d time.Duration) Option {
	return func(r *Responder) {
		if d >= 0 {
			r.delay = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Responder) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResponder builds a responder with no delay unless WithDelay says otherwise.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{logger: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ValidateHistory checks that history is non-empty and every role is known.
func ValidateHistory(history []Turn) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidMessages)
	}
	for i, t := range history {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidMessages, i, t.Role)
		}
	}
	return nil
}

// Reply answers the last turn of history. The reply depends only on that
// turn and on whether the source text is empty.
func (r *Responder) Reply(ctx context.Context, history []Turn, source string) (Turn, error) {
	if err := ValidateHistory(history); err != nil {
		return Turn{}, err
	}
	if err := r.wait(ctx); err != nil {
		return Turn{}, err
	}
	if source == "" {
		return Turn{Role: RoleAssistant, Content: NoContextReply}, nil
	}

	q := strings.ToLower(history[len(history)-1].Content)
	for i, rl := range rules {
		if rl.match(q) {
			r.logger.DebugContext(ctx, "chat rule matched", "rule", i)
			return Turn{Role: RoleAssistant, Content: rl.reply}, nil
		}
	}
	return Turn{Role: RoleAssistant, Content: fmt.Sprintf(fallbackFormat, q)}, nil
}

func (r *Responder) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
