package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

func writeSet(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, map[string]string{
		BaseFile:  "<title>{title}</title>{content}",
		PostFile:  "<article>{content}</article>",
		IndexFile: "<section>{cards}</section>",
	})

	set, err := LoadSet(dir)
	require.NoError(t, err)

	out, err := set.Render(IndexFile, map[string]string{"cards": "<a></a>"})
	require.NoError(t, err)
	require.Equal(t, "<section><a></a></section>", out)
}

func TestLoadSet_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, map[string]string{
		BaseFile: "{content}",
		PostFile: "{content}",
	})

	_, err := LoadSet(dir)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	classified, _ := errors.AsClassified(err)
	file, _ := classified.Context().GetString("file")
	require.Equal(t, filepath.Join(dir, IndexFile), file)
}

func TestLoadSet_MissingDirectory(t *testing.T) {
	_, err := LoadSet(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadSet_MalformedTemplate(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, map[string]string{
		BaseFile:  "body { margin: 0 }",
		PostFile:  "{content}",
		IndexFile: "{cards}",
	})

	_, err := LoadSet(dir)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestSet_RenderUnknownPlaceholderIsTemplateError(t *testing.T) {
	set := &Set{Base: "{title}{nav}", Post: "", Index: ""}

	_, err := set.Render(BaseFile, map[string]string{"title": "x"})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTemplate))
	require.ErrorIs(t, err, ErrUnknownPlaceholder)
}

func TestStarterTemplatesRenderWithBuilderValues(t *testing.T) {
	files, err := StarterFiles()
	require.NoError(t, err)
	require.Len(t, files, 5)

	dir := t.TempDir()
	for _, f := range files {
		if f.Kind == StarterTemplate {
			_, err := WriteFile(dir, f.Name, f.Content, false)
			require.NoError(t, err)
		}
	}

	set, err := LoadSet(dir)
	require.NoError(t, err)

	values := map[string]string{
		"title": "T", "description": "", "content": "C", "toc": "", "extra_js": "",
		"base_url": "", "cards": "",
	}
	for _, name := range []string{BaseFile, PostFile, IndexFile} {
		_, err := set.Render(name, values)
		require.NoError(t, err, name)
	}
}
