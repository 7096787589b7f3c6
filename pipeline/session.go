package pipeline

import (
	"context"
	"time"

	"content_repurposer/chat"
)

// Session holds one caller's working text and chat history. It belongs to
// the caller; the pipeline never stores it.
type Session struct {
	ID       string
	Context  string
	History  []chat.Turn
	LoadedAt time.Time
}

// NewSession creates a session with no context yet.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Replace swaps the retained context. History is kept.
func (s *Session) Replace(text string) {
	s.Context = text
	s.LoadedAt = time.Now()
}

// Load resolves src through p and retains the result as context. On error
// the previous context is left untouched.
func (s *Session) Load(ctx context.Context, p *Pipeline, src SourceInput) (string, error) {
	text, err := p.Resolve(ctx, src)
	if err != nil {
		return "", err
	}
	s.Replace(text)
	return text, nil
}

// Ask appends question as a user turn, asks p for a reply and appends it.
// On error no turn is recorded.
func (s *Session) Ask(ctx context.Context, p *Pipeline, question string) (chat.Turn, error) {
	history := append(append([]chat.Turn(nil), s.History...), chat.Turn{Role: chat.RoleUser, Content: question})
	reply, err := p.Chat(ctx, history, s.Context)
	if err != nil {
		return chat.Turn{}, err
	}
	s.History = append(history, reply)
	return reply, nil
}
