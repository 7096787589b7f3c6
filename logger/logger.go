package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Options controls the handler output.
type Options struct {
	// Level reports the minimum level to log. If nil, slog.LevelInfo is used.
	Level slog.Leveler

	// TimeFormat is the timestamp layout.
	TimeFormat string

	// AddSource prints file:line of the call site.
	AddSource bool

	// NoColor disables ANSI colors, for log files and non-TTY output.
	NoColor bool
}

// DefaultOptions are used when NewHandler receives nil options.
var DefaultOptions = &Options{
	Level:      slog.LevelInfo,
	TimeFormat: time.DateTime,
	AddSource:  true,
}

// Handler is a line-oriented slog.Handler with colored levels and the
// request id pulled from the context.
type Handler struct {
	groups []string
	attrs  []slog.Attr
	opts   Options

	mu  *sync.Mutex
	out io.Writer
}

// NewHandler creates a Handler writing to out.
func NewHandler(out io.Writer, opts *Options) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts == nil {
		h.opts = *DefaultOptions
	} else {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.TimeFormat == "" {
		h.opts.TimeFormat = time.DateTime
	}
	return h
}

func (h *Handler) clone() *Handler {
	return &Handler{
		groups: append([]string(nil), h.groups...),
		attrs:  append([]slog.Attr(nil), h.attrs...),
		opts:   h.opts,
		mu:     h.mu,
		out:    h.out,
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	paint := func(c *color.Color, s string) string {
		if h.opts.NoColor {
			return s
		}
		return c.Sprint(s)
	}

	var bf bytes.Buffer
	if !r.Time.IsZero() {
		bf.WriteString(paint(color.New(color.Faint), r.Time.Format(h.opts.TimeFormat)))
		bf.WriteByte(' ')
	}

	switch {
	case r.Level >= slog.LevelError:
		bf.WriteString(paint(color.New(color.BgRed, color.FgHiWhite), "ERROR"))
	case r.Level >= slog.LevelWarn:
		bf.WriteString(paint(color.New(color.BgYellow, color.FgHiWhite), "WARN "))
	case r.Level >= slog.LevelInfo:
		bf.WriteString(paint(color.New(color.BgGreen, color.FgHiWhite), "INFO "))
	default:
		bf.WriteString(paint(color.New(color.BgCyan, color.FgHiWhite), "DEBUG"))
	}
	bf.WriteByte(' ')

	if id, ok := RequestIDFromContext(ctx); ok {
		bf.WriteString(paint(color.New(color.FgMagenta), id))
		bf.WriteByte(' ')
	}

	if h.opts.AddSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(&bf, "%s:%d ", filepath.Base(f.File), f.Line)
	}

	bf.WriteString("| ")
	bf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	writeAttr := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		key := prefix + a.Key
		c := color.New(color.FgCyan)
		if strings.Contains(a.Key, "err") {
			c = color.New(color.FgRed)
		}
		bf.WriteByte(' ')
		bf.WriteString(paint(c, key+"="))
		bf.WriteString(a.Value.Resolve().String())
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	bf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(bf.Bytes())
	return err
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

// Err returns an "error" attribute, or an empty one for a nil error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
