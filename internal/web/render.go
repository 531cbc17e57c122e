// Package web renders the browsable HTML view of the event list and,
// optionally, serves it over HTTP.
package web

import (
	_ "embed"
	"sort"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"mdcal/internal/model"
)

// displayLayout is the human-facing date form shown on event cards.
const displayLayout = "02.01.2006"

//go:embed page.html.tmpl
var pageSource string

// The page is a text template, not html/template: every user-supplied value
// is passed through EscapeHTML first, which pins the exact entity set and
// replacement order the output contract requires. html/template would
// re-escape and use different entities.
var pageTmpl = template.Must(template.New("page").Parse(pageSource))

// RenderOptions carries the caller-supplied page parameters.
type RenderOptions struct {
	// Title is the document title and page heading.
	Title string

	// ICalFilename, when non-empty, enables the calendar download control
	// pointing at that file.
	ICalFilename string
}

type pageData struct {
	Title        string
	DownloadName string
	FilterTags   []string
	Events       []cardData
}

type cardData struct {
	Title       string
	Date        string
	TagsAttr    string
	Tags        []string
	Description string
	Link        string
}

// Render produces the standalone HTML document. Events are stably sorted
// ascending by start date; the filter bar lists every distinct tag once, in
// lexicographic order.
func Render(events []model.Event, opts RenderOptions) (string, error) {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	allTags := lo.Uniq(lo.FlatMap(sorted, func(ev model.Event, _ int) []string {
		return ev.Tags
	}))
	sort.Strings(allTags)

	data := pageData{
		Title:        EscapeHTML(opts.Title),
		DownloadName: EscapeHTML(opts.ICalFilename),
		FilterTags: lo.Map(allTags, func(tag string, _ int) string {
			return EscapeHTML(tag)
		}),
		Events: lo.Map(sorted, func(ev model.Event, _ int) cardData {
			return newCard(ev)
		}),
	}

	var b strings.Builder
	if err := pageTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func newCard(ev model.Event) cardData {
	date := ev.Start.Format(displayLayout)
	if ev.MultiDay() {
		date += " - " + ev.End.Format(displayLayout)
	}

	return cardData{
		Title: EscapeHTML(ev.Title),
		Date:  EscapeHTML(date),
		// data-tags carries the raw comma-joined list the filter script
		// splits on; the attribute value itself still gets escaped.
		TagsAttr: EscapeHTML(strings.Join(ev.Tags, ",")),
		Tags: lo.Map(ev.Tags, func(tag string, _ int) string {
			return EscapeHTML(tag)
		}),
		Description: EscapeHTML(ev.Description),
		Link:        EscapeHTML(ev.Link),
	}
}

// EscapeHTML escapes user-supplied text for embedding in the page.
// Ampersand goes first so entities produced by the later replacements are
// not escaped again.
func EscapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	text = strings.ReplaceAll(text, "'", "&#39;")
	return text
}
