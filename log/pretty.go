package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to a
// renderer for the handler's writer, so colors are dropped automatically
// when it is not a terminal.
type palette struct {
	key, str, num, yes, no, null, dur, ts, src, msg lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	fg := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8"),
		dur:   fg("5"),
		ts:    fg("4"),
		src:   fg("8").Italic(true),
		msg:   r.NewStyle().Bold(true),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	}

	return p.trace
}

func (p *palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64:
		return p.num.Render(v.String())

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.ts.Render(v.Time().Format(time.RFC3339Nano))

	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			return p.null.Render("null")
		case error:
			return p.no.Render(x.Error())
		default:
			return p.str.Render(fmt.Sprint(x))
		}
	}

	return p.str.Render(v.String())
}

type field struct {
	key   string
	value slog.Value
}

// prettyHandler writes colorized records as either one line of key=value
// pairs (text) or an indented object per record (json).
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	pal    *palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []field
	prefix string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		pal:    newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = appendAttr(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var header []field

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			header = append(header, field{a.Key, a.Value})
		}
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			header = append(header, field{
				slog.SourceKey,
				slog.StringValue(src.File + ":" + strconv.Itoa(src.Line)),
			})
		}
	}

	fields := h.attrs[:len(h.attrs):len(h.attrs)]

	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeJSON(buf, header, level, r, fields)
	} else {
		h.writeText(buf, header, level, r, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	header []field,
	level slog.Attr,
	r slog.Record,
	fields []field,
) {
	for _, f := range header {
		if f.key == slog.SourceKey {
			buf.WriteString(h.pal.src.Render(f.value.String()))
		} else {
			buf.WriteString(h.pal.ts.Render(f.value.String()))
		}

		buf.WriteByte(' ')
	}

	name := level.Value.String()
	buf.WriteString(h.pal.level(r.Level).Render(name))
	buf.WriteString(strings.Repeat(" ", max(5-len(name), 0)+1))
	buf.WriteString(h.pal.msg.Render(r.Message))

	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(h.pal.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(h.pal.value(f.value))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(
	buf *bytes.Buffer,
	header []field,
	level slog.Attr,
	r slog.Record,
	fields []field,
) {
	all := make([]field, 0, len(header)+len(fields)+2)
	all = append(all, header...)
	all = append(all,
		field{slog.LevelKey, level.Value},
		field{slog.MessageKey, slog.StringValue(r.Message)},
	)
	all = append(all, fields...)

	buf.WriteString("{\n")

	for i, f := range all {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(f.key))
		buf.WriteString(": ")

		switch f.key {
		case slog.LevelKey:
			buf.WriteString(h.pal.level(r.Level).Render(f.value.String()))
		case slog.MessageKey:
			buf.WriteString(h.pal.msg.Render(f.value.String()))
		default:
			buf.WriteString(h.pal.value(f.value))
		}
	}

	buf.WriteString("\n}\n")
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// appendAttr flattens a into fields, qualifying keys of nested groups with
// dots.
func appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, a.Value})
}
