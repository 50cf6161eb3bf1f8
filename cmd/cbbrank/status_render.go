package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusStyles is indexed by statusKind.
var statusStyles = [...]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

func (k statusKind) style() (label, color string) {
	if k < 0 || int(k) >= len(statusStyles) {
		k = statusInfo
	}
	s := statusStyles[k]
	return s.label, s.color
}

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

// renderStatusLine formats "  Label:   [KIND] message", padded so the
// brackets line up across a block.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	name, color := kind.style()
	var b strings.Builder
	if colorize {
		b.WriteString(color)
	}
	fmt.Fprintf(&b, "%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", name)
	if message != "" {
		b.WriteByte(' ')
		b.WriteString(message)
	}
	if colorize {
		b.WriteString(ansiReset)
	}
	return b.String()
}

func renderSectionHeader(title string, colorize bool) []string {
	head := "== " + strings.TrimSpace(title) + " =="
	lines := []string{head, strings.Repeat("-", len(head))}
	if colorize {
		for i := range lines {
			lines[i] = ansiBlue + lines[i] + ansiReset
		}
	}
	return lines
}

func preflightKind(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	default:
		return statusError
	}
}

// preflightLines renders check results under a summary line. Optional
// failures count as warnings and never fail the summary.
func preflightLines(results []preflight.Result, colorize bool) []string {
	counts := map[statusKind]int{}
	body := make([]string, 0, len(results))
	for _, r := range results {
		kind := preflightKind(r)
		counts[kind]++
		body = append(body, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}

	kind, summary := statusOK, fmt.Sprintf("%d checks passed", counts[statusOK])
	if failed := counts[statusError]; failed > 0 {
		kind = statusError
		summary = fmt.Sprintf("%d of %d required checks failed", failed, failed+counts[statusOK])
	} else if warned := counts[statusWarn]; warned > 0 {
		kind = statusWarn
		summary = fmt.Sprintf("%d optional checks need attention", warned)
	}
	return append([]string{renderStatusLine("Summary", kind, summary, colorize)}, body...)
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
