package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/causemap/causemap/pkg/cache"
	"github.com/causemap/causemap/pkg/pipeline"
	"github.com/causemap/causemap/pkg/session"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	runner := pipeline.NewRunner(session.NewMemoryStore(), cache.NewNullCache(), log.New(io.Discard))
	t.Cleanup(func() { _ = runner.Close() })
	return New(runner, log.New(io.Discard))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h *Handler) sessionResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/v1/graphs", generateRequest{Nodes: 6, Depth: 2, Seed: 123})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/graphs status = %d, body %s", rec.Code, rec.Body)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestGenerateEndpoint(t *testing.T) {
	h := testHandler(t)
	resp := createSession(t, h)

	if resp.SessionID == "" {
		t.Error("response missing session_id")
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(resp.Graph, &doc); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(doc.Nodes) != 6 {
		t.Errorf("graph has %d nodes, want 6", len(doc.Nodes))
	}
}

func TestGenerateDefaults(t *testing.T) {
	h := testHandler(t)
	// Empty body uses the default parameters.
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var doc struct {
		Params struct {
			Nodes int    `json:"nodes"`
			Seed  uint64 `json:"seed"`
		} `json:"params"`
	}
	if err := json.Unmarshal(resp.Graph, &doc); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if doc.Params.Nodes != pipeline.DefaultNodes || doc.Params.Seed != pipeline.DefaultSeed {
		t.Errorf("params = %+v, want defaults", doc.Params)
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	h := testHandler(t)
	rec := doJSON(t, h, http.MethodPost, "/v1/graphs", generateRequest{Nodes: 1, Depth: 2})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_PARAMETER") {
		t.Errorf("body = %s, want INVALID_PARAMETER code", rec.Body)
	}
}

func TestGetSession(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/v1/graphs/"+created.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	missing := doJSON(t, h, http.MethodGet, "/v1/graphs/3f1f7d2e-9f6a-4b46-9f38-0f6f9d2e1a11", nil)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d, want 404", missing.Code)
	}

	malformed := doJSON(t, h, http.MethodGet, "/v1/graphs/not-a-uuid", nil)
	if malformed.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", malformed.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/v1/graphs/"+created.SessionID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	after := doJSON(t, h, http.MethodGet, "/v1/graphs/"+created.SessionID, nil)
	if after.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", after.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/graphs/"+created.SessionID+"/analyze",
		analyzeRequest{IssueNodes: []string{"C", "E", "F"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Candidates) != 2 || resp.Candidates[0].Label != "E" || resp.Candidates[0].Count != 2 {
		t.Errorf("candidates = %v, want E:2 first", resp.Candidates)
	}
}

func TestAnalyzeEmptyResult(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	// A single issue node yields an empty candidate list, not an error.
	rec := doJSON(t, h, http.MethodPost, "/v1/graphs/"+created.SessionID+"/analyze",
		analyzeRequest{IssueNodes: []string{"A"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Candidates == nil || len(resp.Candidates) != 0 {
		t.Errorf("candidates = %v, want empty non-null list", resp.Candidates)
	}
}

func TestAnalyzeUnknownLabel(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/graphs/"+created.SessionID+"/analyze",
		analyzeRequest{IssueNodes: []string{"A", "Z"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_INPUT") {
		t.Errorf("body = %s, want INVALID_INPUT code", rec.Body)
	}
}

func TestRenderEndpointDOT(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet,
		"/v1/graphs/"+created.SessionID+"/render?format=dot&issues=C,F", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}
	if !strings.Contains(rec.Body.String(), `"C" [label="C", fillcolor="lightcoral"];`) {
		t.Errorf("issue node not highlighted:\n%s", rec.Body)
	}
}

func TestRenderLowercaseIssues(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	// Labels are case-normalized, matching the CLI's input handling.
	rec := doJSON(t, h, http.MethodGet,
		"/v1/graphs/"+created.SessionID+"/render?format=dot&issues=c,%20f", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"C" [label="C", fillcolor="lightcoral"];`) {
		t.Errorf("lowercase issue not highlighted:\n%s", rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"F" [label="F", fillcolor="lightcoral"];`) {
		t.Errorf("lowercase issue not highlighted:\n%s", rec.Body)
	}
}

func TestAnalyzeLowercaseIssues(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/graphs/"+created.SessionID+"/analyze",
		analyzeRequest{IssueNodes: []string{"c", "e", "f"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Label != "E" {
		t.Errorf("candidates = %v, want E ranked first", resp.Candidates)
	}
}

func TestRenderRejectsBadFormat(t *testing.T) {
	h := testHandler(t)
	created := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/v1/graphs/"+created.SessionID+"/render?format=gif", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_FORMAT") {
		t.Errorf("body = %s, want INVALID_FORMAT code", rec.Body)
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestMetricsExposed(t *testing.T) {
	h := testHandler(t)
	createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "causemap_graphs_generated_total") {
		t.Error("metrics output missing causemap_graphs_generated_total")
	}
}
