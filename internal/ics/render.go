// Package ics writes events as an iCalendar (RFC 5545 flavored) document.
//
// The writer is deliberately hand-rolled: the output contract fixes bare LF
// line terminators, no folding and an exact field order, which calendar
// libraries do not let us pin down.
package ics

import (
	"sort"
	"strings"
	"time"

	"mdcal/internal/model"
)

const (
	dateLayout  = "20060102"
	stampLayout = "20060102T150405Z"

	prodID    = "-//mdcal//mdcal//EN"
	uidSuffix = "@mdcal"
)

// Renderer serializes an event sequence into a VCALENDAR document.
// Now is injectable so tests can pin DTSTAMP; nil means time.Now.
type Renderer struct {
	Now func() time.Time
}

// Render returns the full document. Events are stably sorted ascending by
// start date, so equal starts keep their extraction order. Lines are joined
// with a single "\n" and there is no trailing newline.
func (r Renderer) Render(events []model.Event) string {
	now := r.Now
	if now == nil {
		now = time.Now
	}

	sorted := sortByStart(events)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	for _, ev := range sorted {
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+uid(ev),
			"DTSTART;VALUE=DATE:"+ev.Start.Format(dateLayout),
		)

		// All-day DTEND is exclusive: one day past the last included day.
		last := ev.Start
		if ev.MultiDay() {
			last = ev.End
		}
		lines = append(lines, "DTEND;VALUE=DATE:"+last.AddDate(0, 0, 1).Format(dateLayout))

		lines = append(lines, "SUMMARY:"+Escape(ev.Title))

		if len(ev.Tags) > 0 {
			escaped := make([]string, len(ev.Tags))
			for i, tag := range ev.Tags {
				escaped[i] = Escape(tag)
			}
			lines = append(lines, "CATEGORIES:"+strings.Join(escaped, ","))
		}

		var parts []string
		if ev.Description != "" {
			parts = append(parts, ev.Description)
		}
		if ev.Link != "" {
			parts = append(parts, "Link: "+ev.Link)
		}
		if len(parts) > 0 {
			// Join first, escape after: the literal \n separator comes out
			// as \\n, matching the reference output.
			lines = append(lines, "DESCRIPTION:"+Escape(strings.Join(parts, `\n`)))
		}

		if ev.Link != "" {
			lines = append(lines, "URL:"+ev.Link)
		}

		lines = append(lines,
			"DTSTAMP:"+now().UTC().Format(stampLayout),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\n")
}

// uid builds the per-event UID from the start date and the title with
// spaces replaced by hyphens. Two events sharing date and title collide;
// that is a known limitation of the scheme.
func uid(ev model.Event) string {
	return ev.Start.Format(dateLayout) + "-" + strings.ReplaceAll(ev.Title, " ", "-") + uidSuffix
}

// Escape escapes a text value for SUMMARY, CATEGORIES and DESCRIPTION.
// Backslash must be replaced first so the escapes introduced by the later
// replacements are not doubled.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ",", `\,`)
	text = strings.ReplaceAll(text, ";", `\;`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	return text
}

func sortByStart(events []model.Event) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}
