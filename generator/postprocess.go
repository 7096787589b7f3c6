package generator

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyCompletion is returned when the provider produced no usable text.
var ErrEmptyCompletion = errors.New("model returned empty content")

var enumerationRe = regexp.MustCompile(`^\d+[.)]\s*`)

func verbatim(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyCompletion
	}
	return []string{raw}, nil
}

// SplitThread splits a thread completion into tweets: one per non-blank
// line, leading "1." / "2)" style numbering removed.
func SplitThread(raw string) ([]string, error) {
	var tweets []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for enumerationRe.MatchString(line) {
			line = strings.TrimSpace(enumerationRe.ReplaceAllString(line, ""))
		}
		if line == "" {
			continue
		}
		tweets = append(tweets, line)
	}
	if len(tweets) == 0 {
		return nil, ErrEmptyCompletion
	}
	return tweets, nil
}
