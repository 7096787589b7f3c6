package reader

import (
	"context"
	"fmt"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizer drops scripts, styles and event handlers before conversion.
var sanitizer = bluemonday.UGCPolicy()

// fetchDirect downloads the page and converts its sanitized HTML to markdown.
// Pages that only render client-side come back short and fail the length
// check in Fetch.
func (r *Reader) fetchDirect(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", &FetchError{Reason: "creating request", Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	body, err := r.get(req)
	if err != nil {
		return "", err
	}

	clean := sanitizer.SanitizeBytes(body)
	markdown, err := htmltomarkdown.ConvertString(string(clean))
	if err != nil {
		return "", &FetchError{Reason: "converting HTML", Err: fmt.Errorf("html to markdown: %w", err)}
	}
	return markdown, nil
}
