package render

import (
	"strings"

	"golang.org/x/net/html"
)

// maxLines is how many lines of a question detail or answer body are shown
// in activity titles and bodies.
const maxLines = 4

// FourFirstLines returns at most the first four lines of s.
func FourFirstLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.SplitN(s, "\n", maxLines+1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

// SanitizeComment strips markup from a comment body and then unescapes HTML
// entities, so "<b>&amp;</b>" becomes "&". Script and style contents are
// dropped.
func SanitizeComment(s string) string {
	return html.UnescapeString(stripTags(s))
}

// stripTags returns the raw text of s with every tag removed. Entities are
// left escaped.
func stripTags(s string) string {
	var (
		b    strings.Builder
		skip int
	)
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextElement(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextElement(name) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawTextElement(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
