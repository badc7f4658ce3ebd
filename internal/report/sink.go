// Package report implements the append-only, multi-chapter narrative sink
// (C8) that every pipeline stage writes progress and diagnostics into.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// defaultEchoWriter is where Summary lines go when SetEcho has not been
// called; tests override it via SetEcho rather than mutating this global.
var defaultEchoWriter io.Writer = os.Stdout

// Chapter names one of the sink's fixed, ordered sections.
type Chapter string

// The five chapters, in flush order.
const (
	Summary  Chapter = "Summary"
	Ingest   Chapter = "Ingest"
	Analysis Chapter = "Analysis"
	Details  Chapter = "Details"
	Issues   Chapter = "Issues"
)

// chapterOrder is the fixed flush order; Chapter values outside this list
// are appended after it in first-seen order, which should not happen in
// practice but keeps Flush total rather than silently dropping lines.
var chapterOrder = []Chapter{Summary, Ingest, Analysis, Details, Issues}

// Sink is a process-wide, append-only, mutex-guarded narrative buffer.
// Append is safe for concurrent use so that parallel per-file ingest stages
// can all write to the same sink. A Sink is usable at its zero value only
// via NewSink; the zero Sink has a nil map and will panic on first Append.
type Sink struct {
	mu       sync.Mutex
	chapters map[Chapter][]string
	echo     io.Writer
	color    bool
}

// NewSink creates an empty report sink. Messages appended to Summary are
// also echoed, colorized, to stdout unless SetEcho/SetColor override that.
func NewSink() *Sink {
	return &Sink{
		chapters: make(map[Chapter][]string),
		color:    true,
	}
}

// SetColor enables or disables ANSI coloring of the Summary echo.
func (s *Sink) SetColor(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.color = enabled
}

// SetEcho overrides where Summary lines are echoed. A nil writer restores
// the default of echoing to stdout.
func (s *Sink) SetEcho(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.echo = w
}

// Append adds a formatted line to the named chapter. Summary lines are also
// echoed immediately.
func (s *Sink) Append(ch Chapter, format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	s.mu.Lock()
	s.chapters[ch] = append(s.chapters[ch], line)
	echo := s.echo
	useColor := s.color
	s.mu.Unlock()

	if ch != Summary {
		return
	}

	if echo == nil {
		echo = defaultEchoWriter
	}

	if useColor {
		fmt.Fprintln(echo, color.GreenString(line))
	} else {
		fmt.Fprintln(echo, line)
	}
}

// Lines returns a snapshot of a chapter's current lines without flushing.
func (s *Sink) Lines(ch Chapter) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.chapters[ch]))
	copy(out, s.chapters[ch])

	return out
}

// Flush writes every non-empty chapter, in fixed order, with a header line,
// to w, then empties the buffer so a later Append starts a fresh chapter.
func (s *Sink) Flush(w io.Writer) error {
	s.mu.Lock()
	chapters := s.chapters
	s.chapters = make(map[Chapter][]string)
	s.mu.Unlock()

	for _, ch := range chapterOrder {
		lines := chapters[ch]
		if len(lines) == 0 {
			continue
		}

		if _, err := fmt.Fprintf(w, "# %s\n\n", ch); err != nil {
			return fmt.Errorf("write chapter header: %w", err)
		}

		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("write chapter line: %w", err)
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("write chapter separator: %w", err)
		}
	}

	return nil
}

// FormatMillis renders a microsecond duration as a fixed four-decimal
// millisecond figure, using ',' instead of '.' as the decimal separator
// when commaFloat is set.
func FormatMillis(micros int64, commaFloat bool) string {
	millis := float64(micros) / 1000.0
	formatted := strconv.FormatFloat(millis, 'f', 4, 64)

	if commaFloat {
		formatted = strings.Replace(formatted, ".", ",", 1)
	}

	return formatted
}

// FormatFloat renders f with the given decimal precision, honoring the
// comma-float locale the same way FormatMillis does.
func FormatFloat(f float64, precision int, commaFloat bool) string {
	formatted := strconv.FormatFloat(f, 'f', precision, 64)

	if commaFloat {
		formatted = strings.Replace(formatted, ".", ",", 1)
	}

	return formatted
}
