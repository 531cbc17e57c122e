package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_SingleEvent(t *testing.T) {
	doc := strings.Join([]string{
		"# Launch",
		"01.03.2024",
		"Join us",
		"#space #rocket",
		"https://example.com",
	}, "\n")

	events, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Launch", ev.Title)
	assert.Equal(t, day(2024, 3, 1), ev.Start)
	assert.True(t, ev.End.IsZero())
	assert.Equal(t, "Join us", ev.Description)
	assert.Equal(t, "https://example.com", ev.Link)
	assert.Equal(t, []string{"space", "rocket"}, ev.Tags)
}

func TestParse_DateRange(t *testing.T) {
	events, err := Parse("# Conference\n01.03.2024 - 03.03.2024")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, day(2024, 3, 1), events[0].Start)
	assert.Equal(t, day(2024, 3, 3), events[0].End)
}

func TestParse_HeadingAtEndOfInputDropped(t *testing.T) {
	events, err := Parse("# Complete\n01.01.2024\n\n# Dangling")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Complete", events[0].Title)
}

func TestParse_HeadingWithOnlyBlanksAfterDropped(t *testing.T) {
	events, err := Parse("# Dangling\n\n\n")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParse_BlankLinesBeforeDateLine(t *testing.T) {
	events, err := Parse("# Spaced\n\n\n05.06.2024\nbody")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, day(2024, 6, 5), events[0].Start)
	assert.Equal(t, "body", events[0].Description)
}

func TestParse_BadDateLineAbortsRun(t *testing.T) {
	_, err := Parse("# First\n01.01.2024\n\n# Broken\nnot a date\n\n# Last\n02.01.2024")
	require.Error(t, err)

	var dfe *DateFormatError
	assert.ErrorAs(t, err, &dfe)
}

// A heading directly followed by another heading means the first one's date
// line is itself a heading, which fails date parsing and aborts the run.
func TestParse_HeadingFollowedByHeadingAborts(t *testing.T) {
	_, err := Parse("# One\n# Two\n01.01.2024")
	require.Error(t, err)
}

func TestParse_EventOrderFollowsHeadings(t *testing.T) {
	doc := strings.Join([]string{
		"# Third",
		"03.03.2024",
		"",
		"# First",
		"01.01.2024",
		"",
		"# Second",
		"02.02.2024",
	}, "\n")

	events, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Document order, not date order.
	assert.Equal(t, "Third", events[0].Title)
	assert.Equal(t, "First", events[1].Title)
	assert.Equal(t, "Second", events[2].Title)
}

func TestParse_LastLinkWins(t *testing.T) {
	events, err := Parse("# Linked\n01.01.2024\nhttp://old.example.com\nhttps://new.example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "https://new.example.com", events[0].Link)
}

func TestParse_DescriptionJoinsNonBlankLines(t *testing.T) {
	doc := strings.Join([]string{
		"# Meeting",
		"01.01.2024",
		"first line",
		"",
		"second line",
		"   third line   ",
	}, "\n")

	events, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "first line\nsecond line\nthird line", events[0].Description)
}

func TestParse_TagsAccumulateAcrossLines(t *testing.T) {
	doc := strings.Join([]string{
		"# Tagged",
		"01.01.2024",
		"#a #b",
		"some text",
		"#c",
		"#a",
	}, "\n")

	events, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// First-seen order, duplicates preserved.
	assert.Equal(t, []string{"a", "b", "c", "a"}, events[0].Tags)
}

func TestParse_TextBeforeFirstHeadingIgnored(t *testing.T) {
	events, err := Parse("preamble text\nmore preamble\n\n# Real\n01.01.2024")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Real", events[0].Title)
	assert.Empty(t, events[0].Description)
}

func TestParse_MultiLevelHeadingStripped(t *testing.T) {
	events, err := Parse("### Deep Heading\n01.01.2024")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Deep Heading", events[0].Title)
}

func TestParse_EmptyInput(t *testing.T) {
	events, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, events)
}

// Emitted event count equals the number of headings that are followed by a
// parseable date line before the next heading or end of input.
func TestParse_EventCountProperty(t *testing.T) {
	doc := strings.Join([]string{
		"intro",
		"# A",
		"01.01.2024",
		"body",
		"# B",
		"",
		"02.01.2024",
		"# C",
	}, "\n")

	events, err := Parse(doc)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
