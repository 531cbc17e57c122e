package model

import "time"

// Event is a single calendar entry extracted from the input document.
// Once extraction has produced an Event it is never mutated; both renderers
// read the same slice.
type Event struct {
	Title string

	// Start is the event date at day precision. An Event without a start
	// date is never constructed.
	Start time.Time

	// End is the inclusive last day of a multi-day event. The zero value
	// means the event is a single day.
	End time.Time

	// Description holds the body text with blank lines dropped and line
	// order preserved, joined with "\n".
	Description string

	// Link is an optional URL. Only the http(s):// prefix was checked.
	Link string

	// Tags in first-seen order. Duplicates within one event are kept.
	Tags []string
}

// MultiDay reports whether the event spans more than a single labeled day.
func (e Event) MultiDay() bool {
	return !e.End.IsZero()
}
