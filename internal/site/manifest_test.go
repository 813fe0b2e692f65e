package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestManifest_ListsPostsInBuildOrder(t *testing.T) {
	cfg, _ := newTestSite(t)
	writeScenarioPosts(t, cfg)

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Paths.Output, ManifestFile))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	require.Equal(t, "Home", m.Title)
	require.Equal(t, "/blog", m.BaseURL)
	require.Len(t, m.Posts, 2)
	require.Equal(t, "a", m.Posts[0].Slug)
	require.Equal(t, "posts/a.html", m.Posts[0].Path)
	require.Equal(t, "First post", m.Posts[0].Description)
	require.Equal(t, "b", m.Posts[1].Slug)
	require.Equal(t,
		mdfp.CalculateFingerprintFromParts("title: Beta", "Just a paragraph.\n"),
		m.Posts[1].Fingerprint)
}

func TestParsePost_FingerprintIgnoresTrailingNewlineStyle(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "lf.md"), "---\ntitle: T\n---\nbody\n")
	writeTestFile(t, filepath.Join(dir, "crlf.md"), "---\r\ntitle: T\r\n---\r\nbody\n")

	lf, err := parsePost(dir, "lf.md")
	require.NoError(t, err)
	crlf, err := parsePost(dir, "crlf.md")
	require.NoError(t, err)
	require.Equal(t, mdfp.CalculateFingerprintFromParts("title: T", "body\n"), lf.Fingerprint)
	require.Equal(t, "T", crlf.Title)
}
