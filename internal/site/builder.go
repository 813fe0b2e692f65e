package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/templates"
)

// Output names relative to the site root.
const (
	postsOutDir  = "posts"
	imagesDir    = "images"
	indexFile    = "index.html"
	styleOutFile = "style.css"
)

// Builder renders the configured posts directory into the output directory.
// A Builder may be reused; each Build call is independent.
type Builder struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	observers []BuildObserver
	logger    *slog.Logger
	now       func() time.Time
}

// NewBuilder returns a Builder for cfg with metrics disabled and the default logger.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// SetRecorder injects a metrics recorder (returns builder for chaining).
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// SetLogger replaces the logger (returns builder for chaining).
func (b *Builder) SetLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// AddObserver registers an observer notified of stage and build completion.
func (b *Builder) AddObserver(o BuildObserver) *Builder {
	if o != nil {
		b.observers = append(b.observers, o)
	}
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build runs one full build. On error the previous output directory is left
// untouched and no staging directory remains. The report is returned in both
// cases.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	report := newReport(uuid.NewString(), b.cfg.Paths.Output, b.now())
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	logger.Debug("Build started",
		slog.String("posts", b.cfg.Paths.Posts),
		logfields.Output(b.cfg.Paths.Output),
		logfields.BaseURL(b.cfg.Site.BaseURL))

	err := b.build(ctx, report, logger)
	report.End = b.now()

	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
		logger.Info("Build completed",
			logfields.Count(report.Posts),
			logfields.Output(report.Output),
			logfields.Duration(report.Duration()))
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		report.Outcome = OutcomeCanceled
		logger.Warn("Build canceled", logfields.Error(err))
	default:
		report.Outcome = OutcomeFailed
		logger.Debug("Build failed", logfields.Error(err))
	}

	for _, o := range b.allObservers() {
		o.OnBuildComplete(ctx, report)
	}
	return report, err
}

func (b *Builder) allObservers() []BuildObserver {
	return append([]BuildObserver{recorderObserver{rec: b.recorder}}, b.observers...)
}

func (b *Builder) build(ctx context.Context, report *BuildReport, logger *slog.Logger) error {
	if err := b.validatePaths(); err != nil {
		return err
	}
	set, err := templates.LoadSet(b.cfg.Paths.Templates)
	if err != nil {
		return err
	}

	stage, err := beginStaging(b.cfg.Paths.Output, logger)
	if err != nil {
		return errors.FileSystemError("failed to prepare staging directory").
			WithCause(err).
			WithContext("output", b.cfg.Paths.Output).
			Build()
	}
	defer stage.abort()

	var posts []*Post
	if err := b.runStage(ctx, report, StageParsePosts, func() error {
		posts, err = b.renderPosts(ctx, set, stage.dir, report, logger)
		return err
	}); err != nil {
		return err
	}
	report.Posts = len(posts)

	if err := b.runStage(ctx, report, StageRenderIndex, func() error {
		return b.renderIndex(set, stage.dir, posts)
	}); err != nil {
		return err
	}

	if err := b.runStage(ctx, report, StageCopyAssets, func() error {
		return b.copyAssets(stage.dir, report, logger)
	}); err != nil {
		return err
	}

	if err := b.runStage(ctx, report, StageWriteManifest, func() error {
		return b.writeManifest(stage.dir, posts)
	}); err != nil {
		return err
	}

	return b.runStage(ctx, report, StagePromote, func() error {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		if err := stage.finalize(); err != nil {
			return errors.FileSystemError("failed to promote build output").
				WithCause(err).
				WithContext("output", b.cfg.Paths.Output).
				Build()
		}
		return nil
	})
}

// runStage times fn and reports the result to every observer.
func (b *Builder) runStage(ctx context.Context, report *BuildReport, name StageName, fn func() error) error {
	start := b.now()
	err := fn()
	d := b.now().Sub(start)
	report.StageDurations[name] = d

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFatal
		if ctx.Err() != nil {
			result = metrics.ResultCanceled
		}
	}
	for _, o := range b.allObservers() {
		o.OnStageComplete(name, d, result)
	}
	return err
}

// validatePaths checks the posts directory and that the output directory
// does not contain any input directory, since promotion replaces it wholesale.
func (b *Builder) validatePaths() error {
	posts := b.cfg.Paths.Posts
	if !isDir(posts) {
		return errors.ConfigError("posts directory not found").
			WithContext("path", posts).
			Build()
	}

	out, err := filepath.Abs(b.cfg.Paths.Output)
	if err != nil {
		return errors.ValidationError("invalid output directory").
			WithCause(err).
			WithContext("path", b.cfg.Paths.Output).
			Build()
	}
	inputs := []struct{ field, path string }{
		{"paths.posts", posts},
		{"paths.templates", b.cfg.Paths.Templates},
	}
	for _, in := range inputs {
		abs, err := filepath.Abs(in.path)
		if err != nil {
			continue
		}
		if within(out, abs) {
			return errors.ValidationError("output directory must not contain input directories").
				WithContext("field", in.field).
				WithContext("path", in.path).
				WithContext("output", b.cfg.Paths.Output).
				Build()
		}
		// Both siblings are removed during a build.
		for _, sibling := range []string{out + stageSuffix, out + prevSuffix} {
			if within(sibling, abs) {
				return errors.ValidationError("input directory collides with the build staging area").
					WithContext("field", in.field).
					WithContext("path", in.path).
					WithContext("reserved", sibling).
					Build()
			}
		}
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func canceled(err error) error {
	return errors.WrapError(err, errors.CategoryRuntime, "build canceled").Build()
}

func (b *Builder) renderPosts(ctx context.Context, set *templates.Set, root string, report *BuildReport, logger *slog.Logger) ([]*Post, error) {
	names, err := listPosts(b.cfg.Paths.Posts)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(root, postsOutDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, errors.FileSystemError("failed to create posts output directory").
			WithCause(err).
			WithContext("path", outDir).
			Build()
	}

	base := b.cfg.Site.BaseURL
	extraJS := templates.ExtraJS(b.cfg.Build.ImageZoomEnabled())

	posts := make([]*Post, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		p, err := parsePost(b.cfg.Paths.Posts, name)
		if err != nil {
			return nil, err
		}
		if p.untitled {
			logger.Warn("Post has no title; using file name", logfields.File(name))
			report.addWarning("post " + name + " has no title")
		}

		title := html.EscapeString(p.Title)
		page, err := set.Render(templates.PostFile, map[string]string{
			"title":       title,
			"description": html.EscapeString(p.Description),
			"content":     p.HTML,
			"toc":         p.TOC,
			"extra_js":    extraJS,
			"base_url":    base,
		})
		if err != nil {
			return nil, withFile(err, name)
		}
		full, err := set.Render(templates.BaseFile, map[string]string{
			"title":    title,
			"content":  page,
			"base_url": base,
		})
		if err != nil {
			return nil, withFile(err, name)
		}

		if err := writeFile(filepath.Join(root, filepath.FromSlash(p.OutputPath())), full); err != nil {
			return nil, err
		}
		logger.Debug("Rendered post", logfields.Post(p.Slug), logfields.File(name))
		posts = append(posts, p)
	}
	return posts, nil
}

func (b *Builder) renderIndex(set *templates.Set, root string, posts []*Post) error {
	base := b.cfg.Site.BaseURL
	title := html.EscapeString(b.cfg.Site.Title)

	page, err := set.Render(templates.IndexFile, map[string]string{
		"cards":    renderCards(posts, base),
		"base_url": base,
		"title":    title,
	})
	if err != nil {
		return err
	}
	full, err := set.Render(templates.BaseFile, map[string]string{
		"title":    title,
		"content":  page,
		"base_url": base,
	})
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(root, indexFile), full)
}

// copyAssets copies the stylesheet, the posts image directory and the site
// image directory. Missing optional assets are skipped.
func (b *Builder) copyAssets(root string, report *BuildReport, logger *slog.Logger) error {
	css := b.cfg.Paths.Stylesheet
	switch st, err := os.Stat(css); {
	case err == nil && !st.IsDir():
		if err := copyFile(css, filepath.Join(root, styleOutFile)); err != nil {
			return errors.FileSystemError("failed to copy stylesheet").
				WithCause(err).
				WithContext("path", css).
				Build()
		}
	case err == nil || os.IsNotExist(err):
		logger.Warn("Stylesheet not found; skipping", logfields.Path(css))
		report.addWarning("stylesheet " + css + " not found")
	default:
		return errors.FileSystemError("failed to stat stylesheet").
			WithCause(err).
			WithContext("path", css).
			Build()
	}

	dirs := []struct{ src, dst string }{
		{filepath.Join(b.cfg.Paths.Posts, imagesDir), filepath.Join(root, postsOutDir, imagesDir)},
		{b.cfg.Paths.Images, filepath.Join(root, imagesDir)},
	}
	for _, d := range dirs {
		if !isDir(d.src) {
			logger.Debug("Image directory not present; skipping", logfields.Path(d.src))
			continue
		}
		if err := copyDir(d.src, d.dst); err != nil {
			return errors.FileSystemError("failed to copy images").
				WithCause(err).
				WithContext("path", d.src).
				Build()
		}
	}
	return nil
}

func (b *Builder) writeManifest(root string, posts []*Post) error {
	data, err := buildManifest(b.cfg.Site.Title, b.cfg.Site.BaseURL, posts).encode()
	if err != nil {
		return errors.InternalError("failed to encode manifest").WithCause(err).Build()
	}
	if err := writeFile(filepath.Join(root, ManifestFile), string(data)); err != nil {
		return err
	}
	if sitemapEnabled(b.cfg.Site.BaseURL) {
		return writeFile(filepath.Join(root, SitemapFile), buildSitemap(b.cfg.Site.BaseURL, posts))
	}
	return nil
}

func writeFile(path, content string) error {
	// #nosec G306 -- generated site files are meant to be world-readable.
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.FileSystemError("failed to write output file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// withFile adds the post file name to a classified error's context.
func withFile(err error, name string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("file", name)
	}
	return err
}
