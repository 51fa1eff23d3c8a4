// Package store holds the two persistence collaborators of the analytics
// core: a fallible remote document store for authenticated sessions, and a
// synchronous key-value cache for anonymous or offline ones.
package store

import (
	"context"

	"github.com/Parthajit/Timer-Tools/internal/models"
)

// SessionStore is the hosted document-collection contract. Both operations
// may fail (network, permissions); callers are expected to degrade rather
// than propagate.
type SessionStore interface {
	// Add appends one immutable session record.
	Add(ctx context.Context, s *models.TimerSession) error
	// ByOwner fetches every session owned by ownerID, in no particular order.
	ByOwner(ctx context.Context, ownerID string) ([]models.TimerSession, error)
}

// KV is the synchronous string key-value contract backing the local cache.
// Get reports false when the key has never been set.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}
