package toc

import "strings"

// group is a top-level TOC item: a level 1 heading and the level 2 headings
// that follow it. parent is nil for level 2 headings that precede every
// level 1 heading.
type group struct {
	parent   *Heading
	children []Heading
}

func groupHeadings(headings []Heading) []group {
	var groups []group
	for i := range headings {
		h := headings[i]
		switch h.Level {
		case 1:
			groups = append(groups, group{parent: &headings[i]})
		case 2:
			if len(groups) == 0 {
				groups = append(groups, group{})
			}
			last := &groups[len(groups)-1]
			last.children = append(last.children, h)
		}
	}
	return groups
}

// Render builds the nested TOC markup. No headings yields "", not an empty
// wrapper.
func Render(headings []Heading) string {
	groups := groupHeadings(headings)
	if len(groups) == 0 {
		return ""
	}

	lines := []string{`<nav class="toc"><h3>Contents</h3><ul>`}
	for _, g := range groups {
		switch {
		case g.parent == nil:
			lines = append(lines, `<li class="toc-orphans"><ul>`)
		case len(g.children) == 0:
			lines = append(lines, "<li>"+link(*g.parent)+"</li>")
			continue
		default:
			lines = append(lines, "<li>"+link(*g.parent)+"<ul>")
		}
		for _, c := range g.children {
			lines = append(lines, `<li class="toc-child">`+link(c)+"</li>")
		}
		lines = append(lines, "</ul></li>")
	}
	lines = append(lines, "</ul></nav>")
	return strings.Join(lines, "\n")
}

func link(h Heading) string {
	return `<a href="#` + h.ID + `">` + h.Title + "</a>"
}
