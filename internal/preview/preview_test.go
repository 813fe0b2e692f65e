package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/site"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Posts = filepath.Join(root, "posts")
	cfg.Paths.Templates = filepath.Join(root, "templates")
	cfg.Paths.Output = filepath.Join(root, "dist")
	cfg.Paths.Stylesheet = filepath.Join(root, "style.css")
	cfg.Paths.Images = filepath.Join(root, "images")

	writeFile(t, filepath.Join(cfg.Paths.Templates, "base.html"), "<title>{title}</title>{content}")
	writeFile(t, filepath.Join(cfg.Paths.Templates, "post.html"), "{toc}{content}")
	writeFile(t, filepath.Join(cfg.Paths.Templates, "index.html"), "{cards}")
	writeFile(t, filepath.Join(cfg.Paths.Posts, "hello.md"), "---\ntitle: Hello\n---\n# Hi\n")
	return cfg
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestWatchTargets_Relevant(t *testing.T) {
	root := t.TempDir()
	targets := watchTargets{
		trees: []string{filepath.Join(root, "posts")},
		files: []string{filepath.Join(root, "style.css")},
	}

	require.True(t, targets.relevant(filepath.Join(root, "posts", "a.md")))
	require.True(t, targets.relevant(filepath.Join(root, "posts", "images", "x.png")))
	require.True(t, targets.relevant(filepath.Join(root, "style.css")))
	require.False(t, targets.relevant(filepath.Join(root, "dist", "index.html")))
	require.False(t, targets.relevant(filepath.Join(root, "postscript.md")))
	require.False(t, targets.relevant(filepath.Join(root, "posts", ".a.md.swp")))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for range 5 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("expected a rebuild request")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRequestRebuild_NeverBlocks(t *testing.T) {
	req := make(chan struct{}, 1)
	requestRebuild(req)
	requestRebuild(req)
	require.Len(t, req, 1)
}

func TestScheduler_PeriodicRebuild(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	var calls atomic.Int32
	id, err := s.SchedulePeriodicRebuild(20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	_, err = s.SchedulePeriodicRebuild(0, func() {})
	require.Error(t, err)
	require.NoError(t, s.Stop())
}

func TestRouter_BeforeFirstGoodBuild(t *testing.T) {
	cfg := newTestConfig(t)
	srv := NewServer(site.NewBuilder(cfg), Options{})
	h := srv.Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_FailedBuildReported(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.Templates, "index.html")))
	srv := NewServer(site.NewBuilder(cfg), Options{})
	srv.rebuild(context.Background(), "test")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "error", resp.Status)
	require.Contains(t, resp.Error, "index.html")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "build failed")
}

func TestRouter_ServesSiteAndMetrics(t *testing.T) {
	cfg := newTestConfig(t)
	reg := prom.NewRegistry()
	builder := site.NewBuilder(cfg).SetRecorder(metrics.NewPrometheusRecorder(reg))
	srv := NewServer(builder, Options{Registry: reg})
	srv.rebuild(context.Background(), "test")
	h := srv.Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/hello.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<h1 id="hi">Hi</h1>`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, 1, resp.Posts)
	require.NotEmpty(t, resp.LastBuildID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "mdsite_build_outcomes_total")
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) // #nosec G107 -- test server URL
	if err != nil {
		return 0, ""
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	cfg := newTestConfig(t)
	srv := NewServer(site.NewBuilder(cfg), Options{Port: 0})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 5*time.Second, 10*time.Millisecond)
	base := "http://" + srv.Addr().String()

	code, body := get(t, base+"/index.html")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "hello.html")

	writeFile(t, filepath.Join(cfg.Paths.Posts, "second.md"), "---\ntitle: Second\n---\nbody\n")
	require.Eventually(t, func() bool {
		code, _ := get(t, base+"/posts/second.html")
		return code == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview server did not shut down")
	}
}
