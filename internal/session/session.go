// Package session implements per-viewer session lifecycle (§4.12):
// an opaque id mapped to the origin URL it was created against, with
// TTL-based eviction behind a pluggable in-memory or Redis backend.
package session

import (
	"context"
	"time"
)

// Session is one viewer's stitching context.
type Session struct {
	ID           string
	OriginURL    string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Expired reports whether the session has gone at least ttl without a
// touch, as of now.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastAccessed) >= ttl
}

// Manager is the session-lifecycle contract shared by both backends.
type Manager interface {
	// GetOrCreate returns the existing session for id, or creates one
	// bound to originURL if none exists yet.
	GetOrCreate(ctx context.Context, id, originURL string) (Session, error)

	// Get returns the session for id, or ok == false if it does not
	// exist or has expired.
	Get(ctx context.Context, id string) (Session, bool, error)

	// Touch refreshes a session's last-accessed time.
	Touch(ctx context.Context, id string) error

	// Remove deletes a session unconditionally.
	Remove(ctx context.Context, id string) error

	// CleanupExpired evicts every session past its TTL. A no-op for
	// backends with native expiry.
	CleanupExpired(ctx context.Context) error

	// SessionCount reports the number of live sessions, for the
	// /health active_sessions gauge.
	SessionCount(ctx context.Context) (int, error)

	// Stop halts any background work the manager owns.
	Stop()
}
