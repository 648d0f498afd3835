package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// infoAttrLimit caps how many fields an INFO line prints before collapsing
// the remainder into a "+N more fields hidden" note.
const infoAttrLimit = 8

var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	"error",
	FieldErrorHint,
	FieldImpact,
	FieldChunkIndex,
	FieldChunkCount,
	"chunk_start",
	"chunk_end",
	"audio_duration",
	"segments",
	"words",
	"chars",
	"subtitle_path",
	"text_path",
	"elapsed",
	"input",
	"log_path",
}

// subjectKeys are rendered in the header instead of the field list.
var subjectKeys = map[string]struct{}{
	FieldComponent: {},
	FieldRunID:     {},
	FieldRecording: {},
	FieldStage:     {},
}

type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	var component, recording, stage string
	fields := make([]kv, 0, len(kvs))
	for _, kv := range kvs {
		switch kv.key {
		case FieldComponent:
			component = plainValue(kv.value)
		case FieldRecording:
			recording = plainValue(kv.value)
		case FieldStage:
			stage = plainValue(kv.value)
		}
		if _, ok := subjectKeys[kv.key]; ok && record.Level >= slog.LevelInfo {
			continue
		}
		fields = append(fields, kv)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(256 + len(fields)*32)
	writeLogHeader(&buf, timestamp, record.Level, component, FormatSubject(recording, stage), message, h.addSource, record.Source())
	buf.WriteByte('\n')
	if record.Level < slog.LevelInfo {
		for _, kv := range fields {
			buf.WriteString("    ")
			buf.WriteString(kv.key)
			buf.WriteString(": ")
			buf.WriteString(quotedValue(kv.value))
			buf.WriteByte('\n')
		}
	} else {
		shown, hidden := selectInfoFields(fields)
		for _, kv := range shown {
			buf.WriteString("    - ")
			buf.WriteString(displayLabel(kv.key))
			buf.WriteString(": ")
			buf.WriteString(plainValue(kv.value))
			buf.WriteByte('\n')
		}
		if hidden > 0 {
			buf.WriteString("    + ")
			buf.WriteString(strconv.Itoa(hidden))
			buf.WriteString(" more field")
			if hidden != 1 {
				buf.WriteByte('s')
			}
			buf.WriteString(" hidden\n")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func writeLogHeader(buf *bytes.Buffer, ts time.Time, level slog.Level, component, subject, message string, addSource bool, src *slog.Source) {
	buf.WriteString(consoleTime(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(level))
	if component != "" {
		buf.WriteString(" [")
		buf.WriteString(component)
		buf.WriteByte(']')
	}
	if subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	buf.WriteString(" - ")
	buf.WriteString(message)
	if addSource && src != nil && src.File != "" {
		buf.WriteString(" [")
		buf.WriteString(filepath.Base(src.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(src.Line))
		buf.WriteByte(']')
	}
}

// FormatSubject builds the recording/stage subject shown in console headers.
func FormatSubject(recording, stage string) string {
	recording = strings.TrimSpace(recording)
	stage = strings.TrimSpace(stage)
	switch {
	case recording != "" && stage != "":
		return recording + " (" + stage + ")"
	case recording != "":
		return recording
	default:
		return stage
	}
}

// selectInfoFields returns highlighted fields first, then the rest in record
// order, capped at infoAttrLimit.
func selectInfoFields(fields []kv) ([]kv, int) {
	if len(fields) == 0 {
		return nil, 0
	}
	rank := make(map[string]int, len(infoHighlightKeys))
	for i, key := range infoHighlightKeys {
		rank[key] = i
	}
	ordered := make([]kv, 0, len(fields))
	var rest []kv
	for _, key := range infoHighlightKeys {
		for _, kv := range fields {
			if kv.key == key {
				ordered = append(ordered, kv)
			}
		}
	}
	for _, kv := range fields {
		if _, ok := rank[kv.key]; !ok {
			rest = append(rest, kv)
		}
	}
	ordered = append(ordered, rest...)
	if len(ordered) <= infoAttrLimit {
		return ordered, 0
	}
	return ordered[:infoAttrLimit], len(ordered) - infoAttrLimit
}

func displayLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	clone := &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
}

func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string{}, prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string{}, prefix...), attr.Key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
