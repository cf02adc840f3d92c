// Package watch streams row-append events to a writer.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grekz/tally/pkg/sheet"
)

// OutputFormat specifies how events are rendered.
type OutputFormat string

const (
	// OutputFormatDefault renders one human-readable line per event
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON renders one JSON object per line
	OutputFormatJSON OutputFormat = "json"
)

// EventSource delivers row events; *sheet.Subscription satisfies it.
type EventSource interface {
	Events() <-chan *sheet.RowEvent
	Errors() <-chan error
}

// StreamRows writes events from src to w until ctx is cancelled or the
// source closes its events channel. When match is non-nil, only events whose
// values it accepts are written. Subscription errors are written inline and
// do not stop the stream.
func StreamRows(ctx context.Context, src EventSource, format OutputFormat, match func(sheet.Row) bool, w io.Writer) error {
	events := src.Events()
	errs := src.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if match != nil && !match(ev.Values) {
				continue
			}
			if err := writeEvent(w, format, ev); err != nil {
				return err
			}

		case err, ok := <-errs:
			if !ok {
				// Errors closed; keep draining events.
				errs = nil
				continue
			}
			if err := writeError(w, format, err); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w io.Writer, format OutputFormat, ev *sheet.RowEvent) error {
	if format == OutputFormatJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal row event: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	_, err := fmt.Fprintf(w, "[%s] ➕ %s #%d: %s\n",
		formatTime(ev.CreatedAtMs), ev.Sheet, ev.Index+1, formatValues(ev.Values))
	return err
}

func writeError(w io.Writer, format OutputFormat, err error) error {
	if format == OutputFormatJSON {
		data, mErr := json.Marshal(map[string]string{"error": err.Error()})
		if mErr != nil {
			return mErr
		}
		_, wErr := fmt.Fprintf(w, "%s\n", data)
		return wErr
	}

	_, wErr := fmt.Fprintf(w, "⚠️  %v\n", err)
	return wErr
}

// formatTime renders a millisecond timestamp as local HH:MM:SS.
func formatTime(ms int64) string {
	if ms == 0 {
		return "--:--:--"
	}
	return time.UnixMilli(ms).Format("15:04:05")
}

// formatValues joins cells with " | ", showing blank cells as "-".
func formatValues(values sheet.Row) string {
	cells := make([]string, len(values))
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		cells[i] = v
	}
	return strings.Join(cells, " | ")
}
