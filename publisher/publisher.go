// Package publisher renders a generated bundle as a single HTML preview page.
package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"content_repurposer/generator"
)

// ErrEmptyBundle is returned when a bundle has no content to render.
var ErrEmptyBundle = errors.New("bundle has no content")

// DigestLimit caps the page description taken from the bundle.
const DigestLimit = 160

// Section is one rendered channel.
type Section struct {
	Channel string
	Title   string
	HTML    string
}

// Publisher converts bundle markdown to sanitized HTML.
type Publisher struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger *slog.Logger
}

func New(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		logger: logger,
	}
}

var titles = map[string]string{
	generator.ChannelLinkedIn:  "LinkedIn",
	generator.ChannelTwitter:   "Twitter / X thread",
	generator.ChannelBlog:      "Blog post",
	generator.ChannelYouTube:   "YouTube description",
	generator.ChannelEmail:     "Email",
	generator.ChannelInstagram: "Instagram",
}

// Sections renders every non-empty channel of b in bundle order.
func (p *Publisher) Sections(b generator.Bundle) ([]Section, error) {
	var out []Section
	add := func(channel, body string) error {
		if strings.TrimSpace(body) == "" {
			return nil
		}
		h, err := p.mdToHTML(body)
		if err != nil {
			return fmt.Errorf("render %s: %w", channel, err)
		}
		out = append(out, Section{Channel: channel, Title: titles[channel], HTML: h})
		return nil
	}

	if err := add(generator.ChannelLinkedIn, b.LinkedIn); err != nil {
		return nil, err
	}
	if len(b.Twitter) > 0 {
		out = append(out, Section{
			Channel: generator.ChannelTwitter,
			Title:   titles[generator.ChannelTwitter],
			HTML:    renderThread(b.Twitter),
		})
	}
	for _, c := range []struct{ channel, body string }{
		{generator.ChannelBlog, b.Blog},
		{generator.ChannelYouTube, b.YouTube},
		{generator.ChannelEmail, b.Email},
		{generator.ChannelInstagram, b.Instagram},
	} {
		if err := add(c.channel, c.body); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyBundle
	}
	return out, nil
}

// Render returns a standalone HTML page previewing b.
func (p *Publisher) Render(b generator.Bundle) (string, error) {
	sections, err := p.Sections(b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>Repurposed content</title>\n")
	if d := Digest(firstNonEmpty(b.LinkedIn, b.Blog, strings.Join(b.Twitter, " ")), DigestLimit); d != "" {
		fmt.Fprintf(&sb, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(d))
	}
	sb.WriteString("</head>\n<body>\n<h1>Repurposed content</h1>\n")
	for _, s := range sections {
		fmt.Fprintf(&sb, "<section id=\"%s\">\n<h2>%s</h2>\n%s</section>\n", s.Channel, html.EscapeString(s.Title), s.HTML)
	}
	sb.WriteString("</body>\n</html>\n")

	p.logger.Debug("bundle rendered", "sections", len(sections), "bytes", sb.Len())
	return sb.String(), nil
}

func (p *Publisher) mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return demoteHeadings(p.policy.Sanitize(buf.String())), nil
}

func renderThread(tweets []string) string {
	var b strings.Builder
	b.WriteString("<ol class=\"thread\">\n")
	for _, t := range tweets {
		fmt.Fprintf(&b, "<li>%s <small>(%d/280)</small></li>\n", html.EscapeString(t), utf8.RuneCountInString(t))
	}
	b.WriteString("</ol>\n")
	return b.String()
}

var headingRe = regexp.MustCompile(`(?s)<(/?)h([1-6])([^>]*)>`)

// demoteHeadings shifts every heading one level down so channel content sits
// under its section's h2. h6 stays h6.
func demoteHeadings(s string) string {
	return headingRe.ReplaceAllStringFunc(s, func(tag string) string {
		parts := headingRe.FindStringSubmatch(tag)
		level := parts[2][0] - '0'
		if level < 6 {
			level++
		}
		return fmt.Sprintf("<%sh%d%s>", parts[1], level, parts[3])
	})
}

// Digest collapses whitespace in text and keeps at most limit characters.
func Digest(text string, limit int) string {
	joined := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(joined) <= limit {
		return joined
	}
	return string([]rune(joined)[:limit])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
