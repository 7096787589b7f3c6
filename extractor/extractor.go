// Package extractor turns uploaded PDF and DOCX documents into plain text.
//
// PDF bytes are read and validated with pdfcpu; every page's content stream is
// scanned for text-showing operators and collected into a Document tree
// (pages → text objects → runs). DOCX files are unzipped and the text nodes of
// word/document.xml are concatenated. Neither path preserves styling.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedFormat is returned for any mime type other than PDF or DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrParseFailure wraps any failure of the underlying document parser.
	ErrParseFailure = errors.New("failed to parse document")

	// ErrFileTooLarge is returned when the input exceeds Config.MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")
)

func init() {
	// pdfcpu otherwise writes a config directory under the user's home.
	api.DisableConfigDir()
}

// Config configures the extractor.
type Config struct {
	// MaxFileSize is the largest accepted input (default: 10 MB).
	MaxFileSize int64

	// Logger for parse diagnostics.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 10 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor dispatches on mime type.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg, logger: cfg.Logger}
}

// Extract returns the plain text of data, which must be a PDF or DOCX file as
// declared by mimeType. A document without any text yields "" and no error.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	format := normalizeMime(mimeType)
	if format != MimePDF && format != MimeDOCX {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
	if int64(len(data)) > e.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), e.cfg.MaxFileSize)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch format {
	case MimePDF:
		var doc *Document
		doc, err = parsePDF(ctx, data, e.logger)
		if err == nil {
			e.logger.DebugContext(ctx, "pdf parsed", "pages", len(doc.Pages), "runs", doc.RunCount())
			text = doc.PlainText()
		}
	case MimeDOCX:
		text, err = extractDocx(data, e.cfg.MaxFileSize*8)
	}
	if err != nil {
		return "", err
	}

	e.logger.DebugContext(ctx, "document extracted", "format", format, "bytes", len(data), "chars", len([]rune(text)))
	return text, nil
}

// ResolveMimeType returns the declared type, or one derived from the file
// extension when the declared type is empty or generic.
func ResolveMimeType(declared, filename string) string {
	if m := normalizeMime(declared); m != "" && m != "application/octet-stream" {
		return m
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	}
	return normalizeMime(declared)
}

// SupportedMimeTypes lists the accepted upload types.
func SupportedMimeTypes() []string {
	return []string{MimePDF, MimeDOCX}
}

func normalizeMime(m string) string {
	m = strings.TrimSpace(m)
	if m == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(m); err == nil {
		return parsed
	}
	return strings.ToLower(m)
}
