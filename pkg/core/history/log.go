// Package history keeps the bounded, newest-first log of calculations.
package history

import (
	"fmt"
	"strings"
	"time"

	"ibc_tool/pkg/core/utils"
)

// DefaultLimit is the number of entries kept when no limit is configured
const DefaultLimit = 20

// Log is an ordered list of human-readable calculation strings, newest first.
type Log struct {
	limit   int
	entries []string
}

// NewLog creates a log holding at most limit entries (DefaultLimit if limit <= 0)
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, entries: make([]string, 0, limit)}
}

// Add prepends an entry, dropping the oldest beyond the limit
func (l *Log) Add(entry string) {
	keep := len(l.entries)
	if keep > l.limit-1 {
		keep = l.limit - 1
	}
	next := make([]string, 0, l.limit)
	next = append(next, entry)
	l.entries = append(next, l.entries[:keep]...)
}

// Addf formats and prepends an entry
func (l *Log) Addf(format string, args ...interface{}) {
	l.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy, newest first
func (l *Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Recent returns up to n newest entries
func (l *Log) Recent(n int) []string {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	return append([]string(nil), l.entries[:n]...)
}

func (l *Log) Len() int { return len(l.entries) }
func (l *Log) Limit() int { return l.limit }

// Clear empties the log
func (l *Log) Clear() {
	l.entries = l.entries[:0]
}

// Markdown renders the log as a markdown document
func (l *Log) Markdown(generated time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Calculation History\n\n")
	fmt.Fprintf(&sb, "_Generated %s, %d of %d entries_\n\n", generated.Format(time.RFC3339), len(l.entries), l.limit)
	if len(l.entries) == 0 {
		sb.WriteString("No calculations yet.\n")
		return sb.String()
	}
	for _, e := range l.entries {
		sb.WriteString("- ")
		sb.WriteString(escapeMarkdown(e))
		sb.WriteString("\n")
	}
	return sb.String()
}

// HTML renders the markdown report through Goldmark
func (l *Log) HTML(generated time.Time) (string, error) {
	return utils.RenderHTML(l.Markdown(generated))
}

// escapeMarkdown backslash-escapes ASCII punctuation so entries such as
// "-5 + 3 = -2" stay plain text instead of starting a nested list.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 128 && strings.ContainsRune("\\`*_{}[]()#+-.!|<>~=", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
