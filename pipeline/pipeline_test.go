package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_repurposer/chat"
	"content_repurposer/generator"
	"content_repurposer/metrics"
)

type stubExtractor struct {
	text string
	err  error
	mime string
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, mimeType string) (string, error) {
	s.mime = mimeType
	return s.text, s.err
}

type stubFetcher struct {
	text    string
	err     error
	address string
}

func (s *stubFetcher) Fetch(_ context.Context, address string) (string, error) {
	s.address = address
	return s.text, s.err
}

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) Generate(_ context.Context, text string) (generator.Bundle, error) {
	g.calls++
	if g.err != nil {
		return generator.Bundle{}, g.err
	}
	return generator.Bundle{LinkedIn: "post about " + text, Twitter: []string{"t"}}, nil
}

func TestResolve(t *testing.T) {
	ext := &stubExtractor{text: "from file"}
	fetch := &stubFetcher{text: "from url"}
	m := metrics.New()
	p := New(ext, fetch, nil, chat.NewResponder(), WithMetrics(m))
	ctx := context.Background()

	got, err := p.Resolve(ctx, TextSource("raw body"))
	require.NoError(t, err)
	assert.Equal(t, "raw body", got)

	got, err = p.Resolve(ctx, FileSource([]byte("%PDF"), "application/pdf"))
	require.NoError(t, err)
	assert.Equal(t, "from file", got)
	assert.Equal(t, "application/pdf", ext.mime)

	got, err = p.Resolve(ctx, URLSource("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, "from url", got)
	assert.Equal(t, "https://example.com", fetch.address)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues("file", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues("url", "ok")))
}

func TestResolveInvalid(t *testing.T) {
	p := New(&stubExtractor{}, &stubFetcher{}, nil, chat.NewResponder())
	for name, src := range map[string]SourceInput{
		"no kind":     {},
		"mixed":       {Kind: KindText, Body: "a", Address: "https://x"},
		"url in file": {Kind: KindFile, Data: []byte("x"), Address: "https://x"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Resolve(context.Background(), src)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRepurpose(t *testing.T) {
	gen := &countingGenerator{}
	p := New(&stubExtractor{}, &stubFetcher{text: "page"}, gen, chat.NewResponder())

	res, err := p.Repurpose(context.Background(), URLSource("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, "page", res.Text)
	assert.Equal(t, "post about page", res.Bundle.LinkedIn)
}

func TestRepurposeStopsOnResolveError(t *testing.T) {
	boom := errors.New("fetch failed")
	gen := &countingGenerator{}
	p := New(&stubExtractor{}, &stubFetcher{err: boom}, gen, chat.NewResponder())

	_, err := p.Repurpose(context.Background(), URLSource("https://example.com"))
	require.ErrorIs(t, err, boom)
	assert.Zero(t, gen.calls)
}

func TestTransformWithoutProvider(t *testing.T) {
	p := New(&stubExtractor{}, &stubFetcher{}, nil, chat.NewResponder())

	_, err := p.Transform(context.Background(), "")
	require.ErrorIs(t, err, generator.ErrMissingInput)

	_, err = p.Transform(context.Background(), "some text")
	require.ErrorIs(t, err, generator.ErrProviderNotConfigured)
}

func TestTransformWithMock(t *testing.T) {
	gen, err := generator.NewGenerator(generator.MockLLM{})
	require.NoError(t, err)
	p := New(&stubExtractor{}, &stubFetcher{}, gen, chat.NewResponder())

	bundle, err := p.Transform(context.Background(), "Repurposing content saves time.")
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.LinkedIn)
	assert.NotEmpty(t, bundle.Twitter)
}

func TestChatNeverGenerates(t *testing.T) {
	gen := &countingGenerator{}
	p := New(&stubExtractor{}, &stubFetcher{}, gen, chat.NewResponder())

	turn, err := p.Chat(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "summarize"}}, "ctx")
	require.NoError(t, err)
	assert.Equal(t, chat.SummaryReply, turn.Content)
	assert.Zero(t, gen.calls)
}

func TestSession(t *testing.T) {
	fetch := &stubFetcher{text: "page text"}
	p := New(&stubExtractor{}, fetch, nil, chat.NewResponder())
	s := NewSession("abc")
	ctx := context.Background()

	reply, err := s.Ask(ctx, p, "what is the tone?")
	require.NoError(t, err)
	assert.Equal(t, chat.NoContextReply, reply.Content)

	_, err = s.Load(ctx, p, URLSource("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, "page text", s.Context)

	reply, err = s.Ask(ctx, p, "what is the tone?")
	require.NoError(t, err)
	assert.Equal(t, chat.ToneReply, reply.Content)
	require.Len(t, s.History, 4)
	assert.Equal(t, chat.RoleUser, s.History[2].Role)
	assert.Equal(t, chat.RoleAssistant, s.History[3].Role)

	fetch.err = errors.New("down")
	_, err = s.Load(ctx, p, URLSource("https://example.com/other"))
	require.Error(t, err)
	assert.Equal(t, "page text", s.Context)
	assert.Len(t, s.History, 4)
}
