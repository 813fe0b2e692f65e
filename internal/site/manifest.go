package site

import (
	"encoding/json"
)

// ManifestFile is written to the site root after every successful build.
const ManifestFile = "manifest.json"

// Manifest lists the pages of a build. It holds no timestamps or build ids
// so identical inputs produce an identical file.
type Manifest struct {
	Title   string          `json:"title"`
	BaseURL string          `json:"base_url"`
	Posts   []ManifestEntry `json:"posts"`
}

// ManifestEntry describes one rendered post.
type ManifestEntry struct {
	Slug        string `json:"slug"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
}

func buildManifest(title, baseURL string, posts []*Post) Manifest {
	m := Manifest{Title: title, BaseURL: baseURL, Posts: make([]ManifestEntry, 0, len(posts))}
	for _, p := range posts {
		m.Posts = append(m.Posts, ManifestEntry{
			Slug:        p.Slug,
			Source:      p.Source,
			Title:       p.Title,
			Description: p.Description,
			Path:        p.OutputPath(),
			Fingerprint: p.Fingerprint,
		})
	}
	return m
}

func (m Manifest) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
