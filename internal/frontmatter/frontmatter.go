package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.Equal(content[frontmatterStart:], []byte("---")) {
		return []byte{}, []byte{}, true, nil
	}
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// A closing marker on the very last line has no trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content[frontmatterStart:], tail) {
			end := len(content) - len(tail)
			return content[frontmatterStart : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, nil
}

// ParseMeta decodes a raw YAML block (without --- delimiters) into a flat
// string mapping. Scalars keep their source text; null becomes "".
// Anything other than a mapping of scalars is malformed.
func ParseMeta(frontmatter []byte) (map[string]string, error) {
	meta := map[string]string{}
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return meta, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(frontmatter, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return meta, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return meta, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at line %d", ErrMalformed, root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := resolve(root.Content[i]), resolve(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", ErrMalformed, key.Line)
		}
		if _, dup := meta[key.Value]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q at line %d", ErrMalformed, key.Value, key.Line)
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: value of %q must be a scalar (line %d)", ErrMalformed, key.Value, value.Line)
		}
		if value.Tag == "!!null" {
			meta[key.Value] = ""
			continue
		}
		meta[key.Value] = value.Value
	}
	return meta, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// ErrMalformed indicates the frontmatter block is not a flat YAML mapping.
var ErrMalformed = errors.New("malformed frontmatter")

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
