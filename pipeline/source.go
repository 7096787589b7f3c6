package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a SourceInput that does not hold exactly
// one populated variant.
var ErrInvalidInput = errors.New("invalid source input")

// Kind tags which variant a SourceInput carries.
type Kind string

const (
	KindText Kind = "text"
	KindFile Kind = "file"
	KindURL  Kind = "url"
)

// SourceInput is the caller's source material: raw text, an uploaded file or
// a web address.
type SourceInput struct {
	Kind     Kind
	Body     string
	Data     []byte
	MimeType string
	Address  string
}

func TextSource(body string) SourceInput {
	return SourceInput{Kind: KindText, Body: body}
}

func FileSource(data []byte, mimeType string) SourceInput {
	return SourceInput{Kind: KindFile, Data: data, MimeType: mimeType}
}

func URLSource(address string) SourceInput {
	return SourceInput{Kind: KindURL, Address: address}
}

// Validate checks that only the fields of the tagged variant are set.
func (s SourceInput) Validate() error {
	hasText := s.Body != ""
	hasFile := len(s.Data) > 0 || s.MimeType != ""
	hasURL := s.Address != ""

	switch s.Kind {
	case KindText:
		if hasFile || hasURL {
			return fmt.Errorf("%w: text source carries other fields", ErrInvalidInput)
		}
	case KindFile:
		if hasText || hasURL {
			return fmt.Errorf("%w: file source carries other fields", ErrInvalidInput)
		}
	case KindURL:
		if hasText || hasFile {
			return fmt.Errorf("%w: url source carries other fields", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, s.Kind)
	}
	return nil
}
