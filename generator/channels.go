package generator

// Channel names, in bundle order.
const (
	ChannelLinkedIn  = "linkedin"
	ChannelTwitter   = "twitter"
	ChannelBlog      = "blog"
	ChannelYouTube   = "youtube"
	ChannelEmail     = "email"
	ChannelInstagram = "instagram"
)

// Channel describes one output format: its instruction template, its output
// token budget and how the raw completion becomes bundle content.
type Channel struct {
	Name      string
	Template  string
	MaxTokens int64

	// PostProcess turns the completion into the channel's parts. Single-part
	// channels return the text verbatim.
	PostProcess func(raw string) ([]string, error)
}

// DefaultChannels returns the six channel definitions. Adding a channel is a
// matter of appending here and giving Bundle a field for it.
func DefaultChannels() []Channel {
	return []Channel{
		{
			Name:        ChannelLinkedIn,
			MaxTokens:   500,
			PostProcess: verbatim,
			Template: `Based on the following content, create a professional LinkedIn post (150-200 words) that highlights key insights and encourages engagement. Use emojis sparingly and include 3-5 relevant hashtags at the end.

Content: {content}

LinkedIn Post:`,
		},
		{
			Name:        ChannelTwitter,
			MaxTokens:   800,
			PostProcess: SplitThread,
			Template: `Based on the following content, create a Twitter/X thread of 4-6 tweets. Each tweet should be under 280 characters. The first tweet should be a hook, and the last should include a call to action with 2-3 hashtags.

Content: {content}

Twitter Thread (return each tweet on a new line, numbered 1-6):`,
		},
		{
			Name:        ChannelBlog,
			MaxTokens:   1500,
			PostProcess: verbatim,
			Template: `Based on the following content, create a short blog post (400-500 words) with:
- An engaging title with ##
- Clear introduction
- 3-4 key points with subheadings (###)
- A conclusion with call to action

Use markdown formatting.

Content: {content}

Blog Post:`,
		},
		{
			Name:        ChannelYouTube,
			MaxTokens:   600,
			PostProcess: verbatim,
			Template: `Based on the following content, create a YouTube video description (200-300 words) with:
- A compelling hook in the first 2 lines
- Key points covered in the video
- Relevant hashtags (5-8)
- Call to action (subscribe, like, comment)
- Timestamps placeholder if applicable

Content: {content}

YouTube Description:`,
		},
		{
			Name:        ChannelEmail,
			MaxTokens:   800,
			PostProcess: verbatim,
			Template: `Based on the following content, create a professional email draft with:
- Catchy subject line
- Friendly greeting
- Brief introduction
- 3-4 key points from the content
- Clear call to action
- Professional signature placeholder

Format as a complete email.

Content: {content}

Email Draft:`,
		},
		{
			Name:        ChannelInstagram,
			MaxTokens:   600,
			PostProcess: verbatim,
			Template: `Based on the following content, create an engaging Instagram caption with:
- Attention-grabbing opening line
- 3-5 short paragraphs with emojis
- Question to encourage engagement
- 10-15 relevant hashtags at the end
- Keep it under 2200 characters

Content: {content}

Instagram Caption:`,
		},
	}
}
