package products

import (
	"html"
	"regexp"
	"strings"
)

// Highlight HTML-escapes value and wraps every case-insensitive match of
// term in <mark class="highlight">.
func Highlight(value, term string) string {
	if term == "" || value == "" {
		return html.EscapeString(value)
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(value, -1) {
		b.WriteString(html.EscapeString(value[last:loc[0]]))
		b.WriteString(`<mark class="highlight">`)
		b.WriteString(html.EscapeString(value[loc[0]:loc[1]]))
		b.WriteString(`</mark>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(value[last:]))
	return b.String()
}
