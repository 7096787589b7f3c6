package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a local stand-in that never calls a provider; it answers each
// channel prompt with fixed, correctly shaped text.
type MockLLM struct{}

func (m MockLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	words := len(strings.Fields(prompt.User))

	var sb strings.Builder
	switch prompt.Channel {
	case ChannelTwitter:
		sb.WriteString("1. Most content gets published once and forgotten. Here is how to fix that 🧵\n\n")
		sb.WriteString("2. Start from one strong source piece and adapt it per channel.\n")
		sb.WriteString("3) Keep the core message, change the format.\n")
		sb.WriteString("4. Try it on your next article. #ContentMarketing #Repurposing\n")
	case ChannelBlog:
		sb.WriteString("## One Piece of Content, Six Channels\n\n")
		sb.WriteString("Repurposing lets a single idea reach every audience you have.\n\n")
		sb.WriteString("### Start With the Source\n\nPick your strongest material.\n\n")
		sb.WriteString("### Adapt, Don't Copy\n\nEach platform has its own voice.\n\n")
		sb.WriteString("### Measure\n\nWatch which channels respond.\n\n")
		sb.WriteString("Ready to try? Pick one article today.\n")
	case ChannelEmail:
		sb.WriteString("Subject: Get more from every article\n\nHi there,\n\n")
		sb.WriteString("A quick note on making your content go further.\n\nBest,\n[Your Name]\n")
	default:
		sb.WriteString(fmt.Sprintf("Draft for %s. Repurposing content saves time. #Content #Marketing #Growth\n", prompt.Channel))
	}
	sb.WriteString(fmt.Sprintf("\n(mock output, prompt of %d words)", words))
	return sb.String(), nil
}
