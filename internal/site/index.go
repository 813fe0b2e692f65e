package site

import (
	"strings"

	"golang.org/x/net/html"
)

// renderCards builds the card list of the index page, one card per post in
// build order. Titles and descriptions are HTML-escaped.
func renderCards(posts []*Post, baseURL string) string {
	cards := make([]string, 0, len(posts))
	for _, p := range posts {
		var b strings.Builder
		b.WriteString(`<a class="card" href="`)
		b.WriteString(html.EscapeString(p.URL(baseURL)))
		b.WriteString("\">\n<h2>")
		b.WriteString(html.EscapeString(p.Title))
		b.WriteString("</h2>\n<p>")
		b.WriteString(html.EscapeString(p.Description))
		b.WriteString("</p>\n</a>")
		cards = append(cards, b.String())
	}
	return strings.Join(cards, "\n")
}
