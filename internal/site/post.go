package site

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
	"git.home.luguber.info/inful/mdsite/internal/toc"
)

// postExt is the only file extension picked up from the posts directory.
const postExt = ".md"

// Post is one rendered source file. It is created once per build and not
// modified after rendering.
type Post struct {
	Slug        string // file stem, also the output file stem
	Source      string // file name inside the posts directory
	Title       string
	Description string
	Body        []byte // markdown body without the metadata block
	HTML        string // body fragment with heading ids
	TOC         string // empty when the post has no level 1/2 headings
	Fingerprint string // mdfp fingerprint of metadata block + body

	untitled bool
}

// OutputPath is the slash-separated path of the page relative to the site root.
func (p *Post) OutputPath() string {
	return path.Join("posts", p.Slug+".html")
}

// URL returns the link to the page under the given base URL.
func (p *Post) URL(baseURL string) string {
	return baseURL + "/posts/" + url.PathEscape(p.Slug) + ".html"
}

// listPosts returns the *.md file names of dir in filename order.
// Subdirectories are not descended into.
func listPosts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FileSystemError("failed to read posts directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), postExt) {
			continue
		}
		names = append(names, e.Name())
	}
	// os.ReadDir already sorts by name.
	return names, nil
}

// parsePost reads and renders one source file. A missing title falls back to
// the file stem and is flagged on the returned post.
func parsePost(dir, name string) (*Post, error) {
	file := filepath.Join(dir, name)
	// #nosec G304 -- file is a directory entry of the configured posts directory.
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.FileSystemError("failed to read post").
			WithCause(err).
			WithContext("file", file).
			Build()
	}

	doc, err := markdown.Parse(content)
	if err != nil {
		return nil, errors.MarkdownError("failed to parse post").
			WithCause(err).
			WithContext("file", file).
			Build()
	}

	body, tocHTML := toc.Build(doc.HTML)

	p := &Post{
		Slug:        strings.TrimSuffix(name, postExt),
		Source:      name,
		Title:       doc.Meta["title"],
		Description: doc.Meta["description"],
		Body:        doc.Body,
		HTML:        body,
		TOC:         tocHTML,
		Fingerprint: mdfp.CalculateFingerprintFromParts(trimSingleTrailingNewline(string(doc.Frontmatter)), string(doc.Body)),
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = p.Slug
		p.untitled = true
	}
	return p, nil
}

func trimSingleTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return strings.TrimSuffix(s, "\r\n")
	}
	return strings.TrimSuffix(s, "\n")
}
