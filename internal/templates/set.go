package templates

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

// Template file names looked up in the templates directory.
const (
	BaseFile  = "base.html"
	PostFile  = "post.html"
	IndexFile = "index.html"
)

// Set holds the three page templates of a site.
type Set struct {
	Base  string
	Post  string
	Index string
}

// LoadSet reads base.html, post.html and index.html from dir. A missing
// directory or file is a fatal configuration error.
func LoadSet(dir string) (*Set, error) {
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return nil, errors.NewError(errors.CategoryConfig, "templates directory not found").
			Fatal().
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	read := func(name string) (string, error) {
		path := filepath.Join(dir, name)
		// #nosec G304 -- path is built from the configured templates directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryConfig, "template file missing").
				Fatal().
				WithContext("file", path).
				Build()
		}
		if _, err := Placeholders(string(data)); err != nil {
			return "", errors.WrapError(err, errors.CategoryTemplate, "template is malformed").
				Fatal().
				WithContext("file", path).
				Build()
		}
		return string(data), nil
	}

	set := &Set{}
	if set.Base, err = read(BaseFile); err != nil {
		return nil, err
	}
	if set.Post, err = read(PostFile); err != nil {
		return nil, err
	}
	if set.Index, err = read(IndexFile); err != nil {
		return nil, err
	}
	return set, nil
}

// Render formats the named template of the set.
func (s *Set) Render(name string, values map[string]string) (string, error) {
	var tpl string
	switch name {
	case BaseFile:
		tpl = s.Base
	case PostFile:
		tpl = s.Post
	case IndexFile:
		tpl = s.Index
	default:
		return "", errors.InternalError("unknown template").WithContext("template", name).Build()
	}

	out, err := Format(tpl, values)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "template rendering failed").
			Fatal().
			WithContext("template", name).
			Build()
	}
	return out, nil
}
