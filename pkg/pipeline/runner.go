package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/causemap/causemap/pkg/cache"
	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/errors"
	"github.com/causemap/causemap/pkg/graph"
	"github.com/causemap/causemap/pkg/observability"
	"github.com/causemap/causemap/pkg/render/nodelink"
	"github.com/causemap/causemap/pkg/rootcause"
	"github.com/causemap/causemap/pkg/session"
	"github.com/causemap/causemap/pkg/synth"
)

// Runner encapsulates pipeline execution over a session store with render
// caching. Both CLI and API use this to avoid duplicating orchestration.
//
// The Runner is stateless except for the store, cache, and logger - it
// doesn't retain pipeline results. Multiple goroutines can safely share
// one Runner.
type Runner struct {
	Store  session.Store
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner over the given session store.
// If store is nil, an in-memory store is used.
// If c is nil, a NullCache is used (render caching disabled).
// If logger is nil, the default logger is used.
func NewRunner(store session.Store, c cache.Cache, logger *log.Logger) *Runner {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  store,
		Cache:  c,
		Logger: logger,
	}
}

// Close releases the store and cache backends.
func (r *Runner) Close() error {
	storeErr := r.Store.Close()
	cacheErr := r.Cache.Close()
	if storeErr != nil {
		return storeErr
	}
	return cacheErr
}

// Generate synthesizes a fresh dependency map and opens a session for it.
// Any previous session remains addressable by its own ID; the caller
// decides which session is "current".
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) (*session.Session, error) {
	start := time.Now()
	observability.Pipeline().OnSynthesizeStart(ctx, opts.Nodes, opts.Depth)

	g, err := synth.Synthesize(opts.Nodes, opts.Depth, opts.Seed)
	if err != nil {
		observability.Pipeline().OnSynthesizeComplete(ctx, opts.Nodes, opts.Depth, 0, time.Since(start), err)
		return nil, err
	}

	sess := session.New(graph.FromDAG(g), opts.TTL)
	if err := r.Store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	observability.Store().OnSessionSave(ctx, storeName(r.Store))
	observability.Pipeline().OnSynthesizeComplete(ctx, opts.Nodes, opts.Depth, g.EdgeCount(), time.Since(start), nil)

	r.Logger.Info("generated dependency map",
		"session", sess.ID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"layers", g.LayerCount(),
		"seed", opts.Seed,
		"duration", time.Since(start).Round(time.Millisecond))

	return sess, nil
}

// Load retrieves a session and rebuilds its graph.
// Returns a SESSION_NOT_FOUND error for unknown or expired sessions.
func (r *Runner) Load(ctx context.Context, sessionID string) (*session.Session, *dag.DAG, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return nil, nil, err
	}

	sess, err := r.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "load session %s", sessionID)
	}
	observability.Store().OnSessionLoad(ctx, storeName(r.Store), sess != nil)
	if sess == nil {
		return nil, nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", sessionID)
	}

	g, err := graph.ToDAG(sess.Graph)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "rebuild graph for session %s", sessionID)
	}
	return sess, g, nil
}

// Analyze ranks root-cause candidates for the session's graph and the
// given ordered issue-node list, then persists the selection back to the
// session so a later render highlights the same nodes.
func (r *Runner) Analyze(ctx context.Context, sessionID string, issueNodes []string) ([]rootcause.Candidate, error) {
	for _, label := range issueNodes {
		if err := errors.ValidateIssueLabel(label); err != nil {
			return nil, err
		}
	}

	sess, g, err := r.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, len(issueNodes))

	candidates, err := rootcause.Analyze(g, issueNodes)
	observability.Pipeline().OnAnalyzeComplete(ctx, len(issueNodes), len(candidates), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	sess.IssueNodes = issueNodes
	if err := r.Store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "persist issue selection")
	}
	observability.Store().OnSessionSave(ctx, storeName(r.Store))

	r.Logger.Info("analyzed root causes",
		"session", sess.ID,
		"issues", len(issueNodes),
		"candidates", len(candidates),
		"duration", time.Since(start).Round(time.Millisecond))

	return candidates, nil
}

// Render produces the session's map in the given format.
// If issueNodes is nil, the selection persisted by the last Analyze call
// is highlighted; pass an empty non-nil slice to highlight nothing.
// Rendered artifacts are cached until the session expires.
func (r *Runner) Render(ctx context.Context, sessionID string, issueNodes []string, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	sess, g, err := r.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if issueNodes == nil {
		issueNodes = sess.IssueNodes
	}
	for _, label := range issueNodes {
		if !g.HasNode(label) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "issue node %q does not exist in graph", label)
		}
	}

	graphJSON, err := json.Marshal(sess.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal graph")
	}
	key := cache.ArtifactKey(graphJSON, issueNodes, format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Store().OnCacheHit(ctx, format)
		r.Logger.Debug("render cache hit", "session", sess.ID, "format", format)
		return data, nil
	}
	observability.Store().OnCacheMiss(ctx, format)

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, format)
	data, err := renderFormat(ctx, g, issueNodes, format)
	observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}

	ttl := min(time.Until(sess.ExpiresAt), DefaultRenderTTL)
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("render cache write failed", "error", err)
	}

	r.Logger.Info("rendered map",
		"session", sess.ID,
		"format", format,
		"bytes", len(data),
		"duration", time.Since(start).Round(time.Millisecond))

	return data, nil
}

func renderFormat(ctx context.Context, g *dag.DAG, issueNodes []string, format string) ([]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{IssueNodes: issueNodes})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nodelink.RenderPNG(ctx, dot)
	}
}

func storeName(s session.Store) string {
	switch s.(type) {
	case *session.MemoryStore:
		return "memory"
	case *session.FileStore:
		return "file"
	case *session.RedisStore:
		return "redis"
	case *session.MongoStore:
		return "mongo"
	default:
		return "unknown"
	}
}
