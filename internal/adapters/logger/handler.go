package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	crossMark   = "✗"
	warningMark = "!"
)

// PrettyHandler is a slog.Handler producing human-readable, colored output.
// Colors are used only when the writer itself is a terminal and NO_COLOR is unset.
type PrettyHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string

	colored bool
	warn    *color.Color
	err     *color.Color
	info    *color.Color
	debug   *color.Color
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	h := &PrettyHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
		info:  color.New(color.Reset),
		debug: color.New(color.FgHiBlack),
	}

	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		h.colored = term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in an int
	}
	for _, c := range []*color.Color{h.warn, h.err, h.info, h.debug} {
		if h.colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	c := h.info
	switch {
	case r.Level >= slog.LevelError:
		msg = crossMark + " " + msg
		c = h.err
	case r.Level >= slog.LevelWarn:
		msg = warningMark + " " + msg
		c = h.warn
	case r.Level < slog.LevelInfo:
		c = h.debug
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})
	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, c.Sprint(msg)+"\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(clone.attrs, h.attrs)
	copy(clone.attrs[len(h.attrs):], attrs)
	return &clone
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	return &clone
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
