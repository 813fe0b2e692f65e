package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
)

type healthResponse struct {
	Status      string `json:"status"`
	Builds      int    `json:"builds"`
	LastBuildID string `json:"last_build_id,omitempty"`
	Posts       int    `json:"posts"`
	Error       string `json:"error,omitempty"`
}

// Router returns the HTTP handler of the preview server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.HTTPHandler(s.registry))

	files := http.FileServer(http.Dir(s.output))
	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		st := s.status.snapshot()
		if !st.hasGoodBuild {
			msg := "site has not been built yet"
			if st.err != nil {
				msg = "build failed: " + st.err.Error()
			}
			http.Error(w, msg, http.StatusServiceUnavailable)
			return
		}
		files.ServeHTTP(w, req)
	}))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.status.snapshot()
	resp := healthResponse{Status: "ok", Builds: st.builds}
	code := http.StatusOK
	if st.report != nil {
		resp.LastBuildID = st.report.BuildID
		resp.Posts = st.report.Posts
	}
	if st.err != nil {
		resp.Status = "error"
		resp.Error = st.err.Error()
		if !st.hasGoodBuild {
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Debug("Failed to write health response", logfields.Error(err))
	}
}
