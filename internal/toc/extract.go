package toc

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Heading is a level 1 or 2 heading found in a document, in document order.
type Heading struct {
	Level int
	Title string // inner HTML, as rendered
	ID    string
}

// headingPattern matches attribute-less heading elements. Open and close
// levels are compared in code since RE2 has no backreferences.
var headingPattern = regexp.MustCompile(`(?s)<h([1-6])>(.*?)</h([1-6])>`)

// Extract rewrites every <h1>/<h2> element of fragment to carry a unique id
// attribute and returns the rewritten HTML together with the headings in
// document order. Deeper headings and anything that does not match the
// pattern are left byte-for-byte unchanged.
func Extract(fragment string) (string, []Heading) {
	registry := NewRegistry()
	var headings []Heading

	rewritten := headingPattern.ReplaceAllStringFunc(fragment, func(match string) string {
		sub := headingPattern.FindStringSubmatch(match)
		if sub == nil || sub[1] != sub[3] {
			return match
		}
		level, _ := strconv.Atoi(sub[1])
		if level > 2 {
			return match
		}

		inner := sub[2]
		id := registry.Assign(Slug(PlainText(inner)))
		headings = append(headings, Heading{Level: level, Title: inner, ID: id})
		return "<h" + sub[1] + ` id="` + id + `">` + inner + "</h" + sub[1] + ">"
	})

	return rewritten, headings
}

// PlainText strips tags from an HTML fragment and decodes entities.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Build runs Extract and renders the table of contents for its headings.
func Build(fragment string) (rewritten string, tocHTML string) {
	rewritten, headings := Extract(fragment)
	return rewritten, Render(headings)
}
