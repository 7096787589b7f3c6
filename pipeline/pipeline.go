// Package pipeline wires source resolution, generation and chat together.
package pipeline

import (
	"context"
	"log/slog"

	"content_repurposer/chat"
	"content_repurposer/generator"
	"content_repurposer/logger"
	"content_repurposer/metrics"
)

// Extractor turns document bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Fetcher turns a web address into text.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// Generator produces a bundle from text.
type Generator interface {
	Generate(ctx context.Context, text string) (generator.Bundle, error)
}

// Responder answers chat turns.
type Responder interface {
	Reply(ctx context.Context, history []chat.Turn, source string) (chat.Turn, error)
}

// Result is the outcome of a full repurposing run.
type Result struct {
	Text   string           `json:"text"`
	Bundle generator.Bundle `json:"bundle"`
}

// Pipeline holds the stages. Each call is independent; nothing is retained
// between calls.
type Pipeline struct {
	extractor Extractor
	fetcher   Fetcher
	generator Generator
	responder Responder
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*Pipeline)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New builds a pipeline. gen may be nil when no provider is configured;
// generation then fails with generator.ErrProviderNotConfigured.
func New(ext Extractor, fetcher Fetcher, gen Generator, responder Responder, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: ext,
		fetcher:   fetcher,
		generator: gen,
		responder: responder,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Resolve returns the text of src: the body itself, the extracted document
// or the fetched page.
func (p *Pipeline) Resolve(ctx context.Context, src SourceInput) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch src.Kind {
	case KindText:
		return src.Body, nil
	case KindFile:
		text, err = p.extractor.Extract(ctx, src.Data, src.MimeType)
	case KindURL:
		text, err = p.fetcher.Fetch(ctx, src.Address)
	}
	p.metrics.ObserveExtraction(string(src.Kind), err)
	if err != nil {
		p.logger.WarnContext(ctx, "source resolution failed", "kind", src.Kind, logger.Err(err))
		return "", err
	}
	p.logger.DebugContext(ctx, "source resolved", "kind", src.Kind, "chars", len([]rune(text)))
	return text, nil
}

// Transform generates a bundle from text.
func (p *Pipeline) Transform(ctx context.Context, text string) (generator.Bundle, error) {
	if p.generator == nil {
		if err := generator.CheckInput(text); err != nil {
			return generator.Bundle{}, err
		}
		return generator.Bundle{}, generator.ErrProviderNotConfigured
	}
	return p.generator.Generate(ctx, text)
}

// Repurpose resolves src and generates a bundle from the result. A failure
// at either step discards the other.
func (p *Pipeline) Repurpose(ctx context.Context, src SourceInput) (Result, error) {
	text, err := p.Resolve(ctx, src)
	if err != nil {
		return Result{}, err
	}
	bundle, err := p.Transform(ctx, text)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Bundle: bundle}, nil
}

// Chat answers the last turn of history using source as context.
func (p *Pipeline) Chat(ctx context.Context, history []chat.Turn, source string) (chat.Turn, error) {
	return p.responder.Reply(ctx, history, source)
}
