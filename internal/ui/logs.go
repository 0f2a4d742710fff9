package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logbuf/internal/recorder"
)

const timestampLayout = "2006-01-02 15:04:05"

// severityWidth fits the longest label, VERBOSE.
const severityWidth = 7

// renderItem renders one buffered item as one or more styled lines.
func renderItem(styles Styles, item recorder.Item) string {
	e := item.Entry
	var b strings.Builder

	if !e.Timestamp.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Timestamp.Format(timestampLayout)))
		b.WriteString(" ")
	}
	b.WriteString(styles.SeverityStyle(e.Severity).Render(fmt.Sprintf("%-*s", severityWidth, e.Severity.String())))
	if c := strings.TrimSpace(e.Component); c != "" {
		b.WriteString(" ")
		b.WriteString(styles.AccentText.Render("[" + c + "]"))
	}

	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = item.Message
	}
	first, rest, multi := strings.Cut(msg, "\n")
	if first != "" {
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(first))
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(k + "=" + e.Fields[k]))
	}
	if multi {
		for line := range strings.SplitSeq(rest, "\n") {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render(line))
		}
	}
	return b.String()
}

// renderItems renders items in the order given, wrapping each to width.
func renderItems(styles Styles, items []recorder.Item, width int) string {
	if len(items) == 0 {
		return styles.FaintText.Render("No entries")
	}
	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = wrap.Render(renderItem(styles, item))
	}
	return strings.Join(rows, "\n")
}
