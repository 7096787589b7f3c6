package generator

import "strings"

// DefaultTemperature is the sampling temperature of every channel prompt.
const DefaultTemperature = 0.7

// contentPlaceholder marks where the source text goes in a channel template.
const contentPlaceholder = "{content}"

// Prompt is the message set sent to the LLM.
type Prompt struct {
	// Channel names the output the prompt is for; informational only.
	Channel     string
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// BuildChannelPrompt fills the channel template with the (already truncated)
// source text.
func BuildChannelPrompt(ch Channel, body string) Prompt {
	return Prompt{
		Channel:     ch.Name,
		User:        strings.Replace(ch.Template, contentPlaceholder, body, 1),
		MaxTokens:   ch.MaxTokens,
		Temperature: DefaultTemperature,
	}
}
