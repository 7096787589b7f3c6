package generator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"content_repurposer/logger"
	"content_repurposer/metrics"
)

// DefaultCallTimeout bounds each provider call.
const DefaultCallTimeout = 60 * time.Second

// Generator produces a Bundle by running one prompt per channel.
type Generator struct {
	llm         LLMClient
	channels    []Channel
	callTimeout time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.callTimeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithChannels replaces the channel table.
func WithChannels(channels []Channel) Option {
	return func(g *Generator) { g.channels = channels }
}

// NewGenerator requires a provider; without one it reports
// ErrProviderNotConfigured.
func NewGenerator(llm LLMClient, opts ...Option) (*Generator, error) {
	if llm == nil {
		return nil, ErrProviderNotConfigured
	}
	g := &Generator{
		llm:         llm,
		channels:    DefaultChannels(),
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Generate runs every channel concurrently against the truncated text. The
// first failing channel cancels the others and fails the whole call with a
// *ChannelError; no partial bundle is returned.
func (g *Generator) Generate(ctx context.Context, text string) (Bundle, error) {
	if err := CheckInput(text); err != nil {
		return Bundle{}, err
	}
	body := TruncateForPrompt(text)

	parts := make([][]string, len(g.channels))
	grp, gctx := errgroup.WithContext(ctx)
	for i, ch := range g.channels {
		grp.Go(func() error {
			out, err := g.run(gctx, ch, body)
			if err != nil {
				return &ChannelError{Channel: ch.Name, Err: err}
			}
			parts[i] = out
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		g.logger.ErrorContext(ctx, "bundle generation failed", logger.Err(err))
		return Bundle{}, err
	}

	var bundle Bundle
	for i, ch := range g.channels {
		if err := bundle.set(ch.Name, parts[i]); err != nil {
			return Bundle{}, &ChannelError{Channel: ch.Name, Err: err}
		}
	}
	g.logger.InfoContext(ctx, "bundle generated", "channels", len(g.channels), "input_chars", len([]rune(text)), "truncated", body != text)
	return bundle, nil
}

// CheckInput reports ErrMissingInput for empty or whitespace-only text.
func CheckInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrMissingInput
	}
	return nil
}

func (g *Generator) run(ctx context.Context, ch Channel, body string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	started := time.Now()
	raw, err := g.llm.Complete(ctx, BuildChannelPrompt(ch, body))
	if err == nil {
		post := ch.PostProcess
		if post == nil {
			post = verbatim
		}
		var out []string
		if out, err = post(raw); err == nil {
			g.metrics.ObserveGeneration(ch.Name, started, nil)
			g.logger.DebugContext(ctx, "channel generated", "channel", ch.Name, "elapsed", time.Since(started), "chars", len(raw))
			return out, nil
		}
	}
	g.metrics.ObserveGeneration(ch.Name, started, err)
	return nil, err
}
