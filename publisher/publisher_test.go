package publisher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_repurposer/generator"
)

func TestRender(t *testing.T) {
	p := New(nil)
	page, err := p.Render(generator.Bundle{
		LinkedIn: "Big news   for\nteams #growth",
		Twitter:  []string{"Hook <b>tweet</b>", "Second"},
		Blog:     "## Title\n\nIntro with **bold**.\n\n### Point\n\n<script>alert(1)</script>",
		Email:    "Subject: Hi\n\nBody",
	})
	require.NoError(t, err)

	assert.Contains(t, page, `<meta name="description" content="Big news for teams #growth">`)
	assert.Contains(t, page, `<section id="linkedin">`)
	assert.Contains(t, page, "<li>Hook &lt;b&gt;tweet&lt;/b&gt; <small>(17/280)</small></li>")
	assert.Contains(t, page, "<h3>Title</h3>")
	assert.Contains(t, page, "<h4>Point</h4>")
	assert.Contains(t, page, "<strong>bold</strong>")
	assert.NotContains(t, page, "<script>")
	assert.NotContains(t, page, `id="youtube"`)
	assert.Less(t, strings.Index(page, `id="twitter"`), strings.Index(page, `id="blog"`))
}

func TestRenderEmpty(t *testing.T) {
	_, err := New(nil).Render(generator.Bundle{LinkedIn: "  "})
	require.ErrorIs(t, err, ErrEmptyBundle)
}

func TestDemoteHeadings(t *testing.T) {
	assert.Equal(t, `<h2 id="a">x</h2><h6>y</h6>`, demoteHeadings(`<h1 id="a">x</h1><h6>y</h6>`))
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "a b c", Digest("  a\n b\t c ", 10))
	assert.Equal(t, "日本", Digest("日本語", 2))
}
