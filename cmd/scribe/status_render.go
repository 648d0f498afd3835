package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 20

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

var statusLabels = map[statusKind]struct{ label, color string }{
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"FAIL", ansiRed},
}

func renderStatusLine(label string, kind statusKind, detail string, colorize bool) string {
	tag := statusLabels[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", tag.label)
	if detail = strings.TrimSpace(detail); detail != "" {
		line += " " + detail
	}
	if colorize {
		return tag.color + line + ansiReset
	}
	return line
}

func renderHeading(title string, colorize bool) string {
	line := "== " + strings.TrimSpace(title) + " =="
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
