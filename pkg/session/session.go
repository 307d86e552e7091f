// Package session manages generated graph sessions.
//
// A session owns exactly one synthesized dependency map plus the user's
// current issue-node selection. Each "generate" replaces the session's
// graph wholesale - the graph handle is never edited in place, so an
// analysis can never observe a half-regenerated map.
//
// # Backends
//
// The Store interface has four implementations:
//   - memory: in-memory storage for tests and development
//   - file: JSON files under the user config dir, for CLI usage
//   - redis: Redis-backed storage for server deployments
//   - mongo: MongoDB-backed storage for server deployments
//
// # Usage
//
// Create a session store:
//
//	// CLI
//	store, err := session.NewFileStore("")  // Uses ~/.config/causemap/sessions/
//
//	// Server
//	store, err := session.NewRedisStore(ctx, session.RedisConfig{Addr: "localhost:6379"})
//
// Manage sessions:
//
//	sess := session.New(doc, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/causemap/causemap/pkg/graph"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one generated graph and the issue nodes currently flagged
// against it. IssueNodes preserves the exact order the user selected them
// in; that order is semantically significant to the analyzer.
type Session struct {
	ID         string         `json:"id" bson:"_id"`
	Graph      graph.Document `json:"graph" bson:"graph"`
	IssueNodes []string       `json:"issue_nodes,omitempty" bson:"issue_nodes,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session wrapping a freshly generated graph document.
// IDs are UUIDv4 strings; a zero ttl uses DefaultTTL.
func New(doc graph.Document, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Graph:     doc,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any previous session with the same ID.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns all live sessions, oldest first.
	List(ctx context.Context) ([]*Session, error)

	// Close releases backend resources.
	Close() error
}
