package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/causemap/causemap/pkg/cache"
	"github.com/causemap/causemap/pkg/errors"
	"github.com/causemap/causemap/pkg/session"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	logger := log.New(io.Discard)
	return NewRunner(session.NewMemoryStore(), cache.NewNullCache(), logger)
}

func TestGenerateOpensSession(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Generate returned session without ID")
	}
	if len(sess.Graph.Nodes) != 6 {
		t.Errorf("graph has %d nodes, want 6", len(sess.Graph.Nodes))
	}
	if sess.Graph.Params.Seed != 123 {
		t.Errorf("params seed = %d, want 123", sess.Graph.Params.Seed)
	}

	stored, err := r.Store.Get(ctx, sess.ID)
	if err != nil || stored == nil {
		t.Fatalf("session not persisted: %v, %v", stored, err)
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	_, err := r.Generate(ctx, GenerateOptions{Nodes: 1, Depth: 2, Seed: 1})
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Generate(1 node) error = %v, want INVALID_PARAMETER", err)
	}
}

func TestAnalyzePersistsSelection(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	candidates, err := r.Analyze(ctx, sess.ID, []string{"C", "E", "F"})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(candidates) != 2 || candidates[0].Label != "E" || candidates[0].Count != 2 {
		t.Errorf("candidates = %v, want E:2 first", candidates)
	}

	stored, err := r.Store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if strings.Join(stored.IssueNodes, "") != "CEF" {
		t.Errorf("persisted selection = %v, want [C E F]", stored.IssueNodes)
	}
}

func TestLoadUnknownSession(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	_, _, err := r.Load(ctx, "3f1f7d2e-9f6a-4b46-9f38-0f6f9d2e1a11")
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Load(unknown) error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestLoadMalformedSessionID(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	_, _, err := r.Load(ctx, "not-a-uuid")
	if !errors.Is(err, errors.ErrCodeInvalidSession) {
		t.Errorf("Load(malformed) error = %v, want INVALID_SESSION", err)
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	data, err := r.Render(ctx, sess.ID, []string{"C"}, FormatDOT)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	dot := string(data)
	if !strings.Contains(dot, "digraph servicemap") {
		t.Errorf("DOT output malformed:\n%s", dot)
	}
	if !strings.Contains(dot, `"C" [label="C", fillcolor="lightcoral"];`) {
		t.Errorf("issue node C not highlighted:\n%s", dot)
	}
}

func TestRenderUsesPersistedSelection(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if _, err := r.Analyze(ctx, sess.ID, []string{"C", "F"}); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	// nil selection falls back to the session's persisted issue nodes.
	data, err := r.Render(ctx, sess.ID, nil, FormatDOT)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(string(data), `"F" [label="F", fillcolor="lightcoral"];`) {
		t.Errorf("persisted issue node F not highlighted:\n%s", data)
	}

	// Empty non-nil selection highlights nothing.
	data, err = r.Render(ctx, sess.ID, []string{}, FormatDOT)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(data), "lightcoral") {
		t.Errorf("empty selection still highlighted something:\n%s", data)
	}
}

func TestRenderValidation(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := r.Render(ctx, sess.ID, nil, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
	if _, err := r.Render(ctx, sess.ID, []string{"Z"}, FormatDOT); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(unknown issue) error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(session.NewMemoryStore(), fc, log.New(io.Discard))
	defer r.Close()

	sess, err := r.Generate(ctx, GenerateOptions{Nodes: 6, Depth: 2, Seed: 123})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	first, err := r.Render(ctx, sess.ID, []string{"C"}, FormatDOT)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	second, err := r.Render(ctx, sess.ID, []string{"C"}, FormatDOT)
	if err != nil {
		t.Fatalf("cached Render error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("cached render differs from first render")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats() {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%s) error = %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) error = %v, want INVALID_FORMAT", err)
	}
}
