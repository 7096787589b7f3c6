package generator

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned by Generate for empty source text.
var ErrMissingInput = errors.New("no text provided")

// Bundle is the complete set of channel outputs for one input.
type Bundle struct {
	LinkedIn  string   `json:"linkedin"`
	Twitter   []string `json:"twitter"`
	Blog      string   `json:"blog"`
	YouTube   string   `json:"youtube"`
	Email     string   `json:"email"`
	Instagram string   `json:"instagram"`
}

func (b *Bundle) set(channel string, parts []string) error {
	if len(parts) == 0 {
		return ErrEmptyCompletion
	}
	switch channel {
	case ChannelLinkedIn:
		b.LinkedIn = parts[0]
	case ChannelTwitter:
		b.Twitter = parts
	case ChannelBlog:
		b.Blog = parts[0]
	case ChannelYouTube:
		b.YouTube = parts[0]
	case ChannelEmail:
		b.Email = parts[0]
	case ChannelInstagram:
		b.Instagram = parts[0]
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	return nil
}

// ChannelError reports the channel whose generation failed the bundle.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("generating %s content: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
