package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"content_repurposer/chat"
	"content_repurposer/extractor"
	"content_repurposer/generator"
	"content_repurposer/pipeline"
	"content_repurposer/reader"
)

const (
	msgNoFile          = "No file provided"
	msgUnsupported     = "Unsupported file type. Please upload PDF or DOCX."
	msgTooLarge        = "File too large"
	msgParseDocument   = "Failed to parse document"
	msgNoURL           = "No URL provided"
	msgInvalidURL      = "Invalid URL"
	msgInsufficient    = "Could not extract sufficient text from URL. The page might be behind a paywall or require login."
	msgNoText          = "No text provided"
	msgNoProvider      = "OpenAI API key not configured"
	msgInvalidMessages = "Invalid messages format"
	msgChatFailed      = "Failed to generate chat response"
	msgInvalidBody     = "Invalid request body"
	msgInvalidInput    = "Provide exactly one of text, url or file"
	msgEmptyBundle     = "Bundle has no content"
	msgTimeout         = "Request timed out"
	msgInternal        = "Internal server error"
)

// classify maps a pipeline error to a status code and a short client
// message. fallback is used for errors of no known kind.
func classify(err error, fallback string) (int, string) {
	var (
		channelErr *generator.ChannelError
		fetchErr   *reader.FetchError
		maxErr     *http.MaxBytesError
	)
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return http.StatusBadRequest, msgUnsupported
	case errors.Is(err, extractor.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusBadRequest, msgTooLarge
	case errors.Is(err, extractor.ErrParseFailure):
		return http.StatusInternalServerError, msgParseDocument
	case errors.Is(err, reader.ErrMissingURL):
		if err == reader.ErrMissingURL {
			return http.StatusBadRequest, msgNoURL
		}
		return http.StatusBadRequest, msgInvalidURL
	case errors.Is(err, reader.ErrInsufficientContent):
		return http.StatusBadRequest, msgInsufficient
	case errors.As(err, &fetchErr):
		return http.StatusInternalServerError, "Failed to parse URL: " + fetchReason(fetchErr)
	case errors.Is(err, generator.ErrMissingInput):
		return http.StatusBadRequest, msgNoText
	case errors.Is(err, generator.ErrProviderNotConfigured):
		return http.StatusInternalServerError, msgNoProvider
	case errors.As(err, &channelErr):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to generate %s content", channelErr.Channel)
	case errors.Is(err, chat.ErrInvalidMessages):
		return http.StatusBadRequest, msgInvalidMessages
	case errors.Is(err, pipeline.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	}
	return http.StatusInternalServerError, fallback
}

func fetchReason(e *reader.FetchError) string {
	switch {
	case e.Status != 0:
		return "Failed to fetch URL: " + e.Reason
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return e.Reason
	}
}
