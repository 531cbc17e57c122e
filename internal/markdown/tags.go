package markdown

import (
	"regexp"
	"strings"
)

var (
	// A heading has the # run followed by whitespace; a tag line has a
	// tag character right after the #. The two never overlap.
	headingPattern = regexp.MustCompile(`^#+\s`)
	tagLinePattern = regexp.MustCompile(`^#[a-zA-Z0-9_-]`)
	tagPattern     = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
)

func isHeading(line string) bool {
	return headingPattern.MatchString(strings.TrimSpace(line))
}

func isTagLine(line string) bool {
	return tagLinePattern.MatchString(line)
}

// parseTags returns every #token in the line, hash stripped, in order.
func parseTags(line string) []string {
	matches := tagPattern.FindAllStringSubmatch(line, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}
