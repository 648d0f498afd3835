package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

func consoleTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(consoleTimeLayout)
}

// plainValue renders v without quoting. It is used for header subjects and
// the human-readable field list at INFO.
func plainValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return consoleTime(v.Time())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

// quotedValue renders v for the raw DEBUG field list, quoting strings that
// would otherwise be ambiguous.
func quotedValue(v slog.Value) string {
	s := plainValue(v)
	switch v.Resolve().Kind() {
	case slog.KindString, slog.KindAny:
		if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
			return strconv.Quote(s)
		}
	}
	return s
}
