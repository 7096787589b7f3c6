package generator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForPrompt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"at limit", strings.Repeat("x", PromptLimit), strings.Repeat("x", PromptLimit)},
		{"one over", strings.Repeat("x", PromptLimit+1), strings.Repeat("x", PromptLimit) + TruncationMarker},
		{"multibyte over", strings.Repeat("日", PromptLimit+10), strings.Repeat("日", PromptLimit) + TruncationMarker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForPrompt(tt.in))
		})
	}
}

func TestTruncateForPromptIdempotent(t *testing.T) {
	once := TruncateForPrompt(strings.Repeat("ab", PromptLimit))
	assert.Equal(t, PromptLimit+utf8.RuneCountInString(TruncationMarker), utf8.RuneCountInString(once))
	assert.Equal(t, once, TruncateForPrompt(once))
}
