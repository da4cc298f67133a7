// Package sessionstore keeps the client's last view of each runtime session,
// so a caller can inspect dialog state and attributes between turns without
// calling GetSession. Stores are safe for concurrent use.
package sessionstore

import (
	"context"
	"net/http"

	"github.com/tansive/lexruntime/internal/common/apperrors"
)

var (
	ErrSessionStore     = apperrors.New("session store error").SetStatusCode(http.StatusInternalServerError)
	ErrNotFound         = ErrSessionStore.New("session not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidKey       = ErrSessionStore.New("invalid session key").SetStatusCode(http.StatusBadRequest)
	ErrInvalidConfig    = ErrSessionStore.New("invalid session store configuration").SetStatusCode(http.StatusBadRequest)
	ErrInvalidStoreType = ErrInvalidConfig.New("unknown session store type")
	ErrClosed           = ErrSessionStore.New("session store closed")
)

// Store persists session snapshots.
type Store interface {
	// Get returns the snapshot for key, or ErrNotFound.
	Get(ctx context.Context, key Key) (*Snapshot, error)
	// Put merges s over the stored snapshot. It reports whether the stored
	// snapshot changed; an unchanged snapshot keeps its UpdatedAt.
	Put(ctx context.Context, s *Snapshot) (bool, error)
	// Delete removes the snapshot for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error
	Close() error
}
