package markdown

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the only accepted date form: DD.MM.YYYY.
const dateLayout = "02.01.2006"

// DateFormatError reports a date line that does not match dateLayout.
// It aborts the whole extraction run: a malformed date line almost always
// means an authoring mistake that must not silently drop an event.
type DateFormatError struct {
	Input string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: expected DD.MM.YYYY", e.Input)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// ResolveDate parses a date line. A line containing a hyphen is split at the
// first one and both halves are parsed as a range; otherwise the whole line
// is a single date and the returned end is the zero time.
//
// A range whose end precedes its start is accepted unchanged; that is the
// author's problem, not a parse failure.
func ResolveDate(line string) (start, end time.Time, err error) {
	line = strings.TrimSpace(line)

	if i := strings.IndexByte(line, '-'); i >= 0 {
		start, err = parseDay(strings.TrimSpace(line[:i]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err = parseDay(strings.TrimSpace(line[i+1:]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	start, err = parseDay(line)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, time.Time{}, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &DateFormatError{Input: s, Err: err}
	}
	return t, nil
}
