package snapshot

import (
	"context"
	"fmt"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
)

// Source kinds accepted by [NewSource].
const (
	SourceCache = "cache"
	SourceLive  = "live"
)

// LiveSource is the placeholder for fetching a project's inventory straight
// from the cloud provider. Live fetching is disabled; every Load fails with
// UNSUPPORTED so callers fall back to cached snapshots.
type LiveSource struct{}

// Load always returns an UNSUPPORTED error.
func (LiveSource) Load(ctx context.Context, projectID string) (*Snapshot, error) {
	if err := errors.ValidateProjectID(projectID); err != nil {
		return nil, err
	}
	return nil, errors.New(errors.ErrCodeUnsupported,
		"live inventory fetch is disabled; load a cached snapshot for project '%s' instead", projectID)
}

// NewSource returns the source registered under kind.
func NewSource(kind string, store *Store) (Source, error) {
	switch kind {
	case "", SourceCache:
		if store == nil {
			return nil, fmt.Errorf("cache source requires a store")
		}
		return store, nil
	case SourceLive:
		return LiveSource{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown source %q (must be 'cache' or 'live')", kind)
	}
}

// Ensure LiveSource implements Source.
var _ Source = LiveSource{}
