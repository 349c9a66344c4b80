package graph

import (
	"context"

	"github.com/tracefold/graphpub/pkg/names"
)

// Searcher is the name-search collaborator. Results are keyed by normalized
// name; lookups are exact under normalization, never fuzzy. A returned error
// is fatal for the whole run: later phases assume every name has a
// definitive resolution.
type Searcher interface {
	// SearchEntities resolves entity names within a space (and any shared
	// space the implementation is configured with).
	SearchEntities(ctx context.Context, entityNames []string, spaceID ID) (map[names.Normalized]EntityMatch, error)

	// SearchTypes resolves type names.
	SearchTypes(ctx context.Context, typeNames []string) (map[names.Normalized]TypeMatch, error)

	// SearchProperties resolves property names.
	SearchProperties(ctx context.Context, propertyNames []string) (map[names.Normalized]PropertyMatch, error)
}

// DetailFetcher is the live-state collaborator. A (nil, nil) return means the
// id does not resolve to a live entity; callers that have already confirmed
// existence must treat a later nil as an API failure, not as absence.
type DetailFetcher interface {
	FetchEntityDetail(ctx context.Context, entityID, spaceID ID) (*EntityDetail, error)
}

// MediaUploader fetches an image by URL and registers it with the remote
// store, returning the resulting media id. The engine deduplicates URLs
// before calling; implementations may assume each URL is uploaded once per
// batch.
type MediaUploader interface {
	Upload(ctx context.Context, url string) (ID, error)
}
