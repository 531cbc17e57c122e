// Package markdown extracts calendar events from a loosely structured
// plain-text document. Each event is a heading line, followed by a date
// line, followed by an optional body of description, tag and link lines.
package markdown

import (
	"strings"

	appLog "mdcal/internal/log"
	"mdcal/internal/model"
)

// Parse extracts all events from the document, in heading order.
//
// The scan is a single forward pass over the line sequence with three
// phases per event:
//
//  1. seek a heading line; everything before it contributes nothing
//  2. seek the date line, skipping blanks; end of input here drops the
//     pending heading without error
//  3. collect body lines until the next heading (left for the next cycle)
//     or end of input
//
// A date line that fails to parse aborts the whole run with a
// *DateFormatError.
func Parse(content string) ([]model.Event, error) {
	lines := strings.Split(content, "\n")
	events := make([]model.Event, 0)

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !isHeading(line) {
			i++
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		i++

		// The date line is the next non-blank line.
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= len(lines) {
			appLog.Debug("heading without date line at end of input; dropped", "title", title)
			break
		}

		start, end, err := ResolveDate(strings.TrimSpace(lines[i]))
		if err != nil {
			return nil, err
		}
		i++

		ev := model.Event{Title: title, Start: start, End: end}
		var desc strings.Builder

		for i < len(lines) && !isHeading(lines[i]) {
			body := strings.TrimSpace(lines[i])
			i++

			// Priority order matters: a line belongs to exactly one
			// category, first match wins.
			switch {
			case strings.HasPrefix(body, "http://") || strings.HasPrefix(body, "https://"):
				// Multiple link lines: the last one wins.
				ev.Link = body
			case body != "" && isTagLine(body):
				ev.Tags = append(ev.Tags, parseTags(body)...)
			case body != "":
				if desc.Len() > 0 {
					desc.WriteByte('\n')
				}
				desc.WriteString(body)
			}
		}

		ev.Description = strings.TrimSpace(desc.String())
		events = append(events, ev)
	}

	appLog.Debug("extraction completed", "event_count", len(events))
	return events, nil
}
