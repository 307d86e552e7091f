// Package server exposes the causemap pipeline over HTTP.
//
// The API is a thin JSON layer over pipeline.Runner: every route maps onto
// one pipeline operation, and sessions created over HTTP are interchangeable
// with sessions created from the CLI when both point at the same store.
//
// Routes:
//
//	POST   /v1/graphs                  synthesize a map, open a session
//	GET    /v1/graphs/{id}             fetch a session and its graph
//	DELETE /v1/graphs/{id}             delete a session
//	POST   /v1/graphs/{id}/analyze     rank root-cause candidates
//	GET    /v1/graphs/{id}/render      render dot/svg/png
//	GET    /healthz                    liveness probe
//	GET    /metrics                    Prometheus metrics
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/causemap/causemap/pkg/errors"
	"github.com/causemap/causemap/pkg/pipeline"
	"github.com/causemap/causemap/pkg/rootcause"
	"github.com/causemap/causemap/pkg/session"
)

// Handler serves the causemap HTTP API.
type Handler struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds the API handler over a pipeline runner and installs the
// Prometheus-backed observability hooks.
func New(runner *pipeline.Runner, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	installMetrics()

	h := &Handler{
		runner: runner,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/v1/graphs", func(r chi.Router) {
		r.Post("/", h.handleGenerate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
			r.Post("/analyze", h.handleAnalyze)
			r.Get("/render", h.handleRender)
		})
	})
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request with method, path, status, and
// duration, through the structured logger shared with the pipeline.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

type generateRequest struct {
	Nodes      int    `json:"nodes"`
	Depth      int    `json:"depth"`
	Seed       uint64 `json:"seed"`
	TTLSeconds int    `json:"ttl_seconds"`
}

type sessionResponse struct {
	SessionID  string          `json:"session_id"`
	Graph      json.RawMessage `json:"graph"`
	IssueNodes []string        `json:"issue_nodes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

func toSessionResponse(sess *session.Session) (sessionResponse, error) {
	raw, err := json.Marshal(sess.Graph)
	if err != nil {
		return sessionResponse{}, err
	}
	return sessionResponse{
		SessionID:  sess.ID,
		Graph:      raw,
		IssueNodes: sess.IssueNodes,
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{
		Nodes: pipeline.DefaultNodes,
		Depth: pipeline.DefaultDepth,
		Seed:  pipeline.DefaultSeed,
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid JSON body: "+err.Error())
			return
		}
	}

	sess, err := h.runner.Generate(r.Context(), pipeline.GenerateOptions{
		Nodes: req.Nodes,
		Depth: req.Depth,
		Seed:  req.Seed,
		TTL:   time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp, err := toSessionResponse(sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, _, err := h.runner.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp, err := toSessionResponse(sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.runner.Store.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type analyzeRequest struct {
	IssueNodes []string `json:"issue_nodes"`
}

type analyzeResponse struct {
	Candidates []rootcause.Candidate `json:"candidates"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid JSON body: "+err.Error())
		return
	}

	candidates, err := h.runner.Analyze(r.Context(), chi.URLParam(r, "id"), normalizeLabels(req.IssueNodes))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if candidates == nil {
		candidates = []rootcause.Candidate{}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Candidates: candidates})
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	// issues is a comma-separated label list; absent means use the
	// selection persisted on the session.
	var issueNodes []string
	if raw := r.URL.Query().Get("issues"); raw != "" {
		issueNodes = normalizeLabels(strings.Split(raw, ","))
	}

	data, err := h.runner.Render(r.Context(), chi.URLParam(r, "id"), issueNodes, format)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// normalizeLabels upper-cases and trims issue labels so the API accepts
// the same spellings the CLI does.
func normalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToUpper(strings.TrimSpace(l))
	}
	return out
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz"
	}
}
