// Package markdown turns a post source (optional metadata block + markdown
// body) into metadata and an HTML body fragment.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/mdsite/internal/frontmatter"
)

// Document is a parsed post source.
type Document struct {
	Meta        map[string]string
	Frontmatter []byte // raw metadata block, nil when absent
	Body        []byte // markdown body
	HTML        string // rendered body fragment
}

// Heading ids are not generated here; the toc package owns them.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Convert renders a markdown body (metadata already removed) to HTML.
// Fenced code blocks are part of CommonMark; tables come from the GFM
// table extension.
func Convert(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// Parse splits the metadata block from content, decodes it and renders the
// body. Without a leading "---" line the whole input is body and Meta is empty.
func Parse(content []byte) (*Document, error) {
	block, body, had, err := frontmatter.Split(content)
	if err != nil {
		return nil, err
	}

	meta := map[string]string{}
	if had {
		meta, err = frontmatter.ParseMeta(block)
		if err != nil {
			return nil, err
		}
	}

	rendered, err := Convert(body)
	if err != nil {
		return nil, err
	}

	doc := &Document{Meta: meta, Body: body, HTML: rendered}
	if had {
		doc.Frontmatter = block
	}
	return doc, nil
}
