package extractor

import (
	"net/url"
	"strings"
)

// Document is the parsed text structure of a PDF.
type Document struct {
	Pages []Page `json:"pages"`
}

// Page holds the text objects (BT…ET blocks) of one page in stream order.
type Page struct {
	Number int    `json:"number"`
	Texts  []Text `json:"texts"`
}

// Text is one text object; each text-showing operator inside it is a Run.
type Text struct {
	Runs []Run `json:"runs"`
}

// Run is a single shown string. T is URI-escaped so the tree survives JSON
// transport unchanged regardless of the glyph bytes it came from.
type Run struct {
	T string `json:"t"`
}

func newRun(s string) Run {
	return Run{T: url.PathEscape(s)}
}

// Text decodes T, falling back to the raw value when it is not valid
// percent-encoding.
func (r Run) Text() string {
	s, err := url.PathUnescape(r.T)
	if err != nil {
		return r.T
	}
	return s
}

// PlainText joins the decoded content of every non-empty run, in document
// order, with single spaces.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	var parts []string
	for _, page := range d.Pages {
		for _, text := range page.Texts {
			for _, run := range text.Runs {
				if run.T == "" {
					continue
				}
				parts = append(parts, run.Text())
			}
		}
	}
	return strings.Join(parts, " ")
}

// RunCount returns the number of runs across all pages.
func (d *Document) RunCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, page := range d.Pages {
		for _, text := range page.Texts {
			n += len(text.Runs)
		}
	}
	return n
}
