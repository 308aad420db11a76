package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coffersTech/logveil/internal/sink"
)

// Handler is the slog.Handler behind every registry logger. It gates on a
// minimum level, renders attributes as key=value segments that are redacted
// alongside the message, and emits exactly one sink write per record.
type Handler struct {
	name      string
	level     slog.Level
	formatter *Formatter
	separator string
	out       sink.Sink

	attrs  []slog.Attr
	groups []string
}

func newHandler(name string, level slog.Level, f *Formatter, separator string, out sink.Sink) *Handler {
	return &Handler{
		name:      name,
		level:     level,
		formatter: f,
		separator: separator,
		out:       out,
	}
}

// Enabled drops records below the minimum level silently.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	// Attrs are rendered into their own tail, never concatenated onto the
	// message here: a JSON payload must reach the formatter intact so its
	// keys can be walked.
	var tail strings.Builder
	appendAttr := func(key string, v slog.Value) {
		if key == "" {
			return
		}
		if tail.Len() > 0 {
			tail.WriteString(h.separator)
		}
		tail.WriteString(key)
		tail.WriteByte('=')
		tail.WriteString(v.String())
	}
	// Stored attrs carry their group prefix from WithAttrs time.
	for _, a := range h.attrs {
		appendAttr(a.Key, a.Value)
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "" {
			appendAttr(prefix+a.Key, a.Value)
		}
		return true
	})

	line := h.formatter.Format(h.name, r.Level, r.Time, r.Message, tail.String())
	_, err := h.out.Write(line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]slog.Attr(nil), h.attrs...)
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		h2.attrs = append(h2.attrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}
