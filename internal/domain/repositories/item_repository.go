package repositories

import (
	"context"
)

// ItemRepository abstracts the archival storage service: an immutable
// namespace of items, each holding keyed files plus flat metadata.
type ItemRepository interface {
	// Exists reports whether an item with the given identifier is already
	// present. The answer is authoritative for idempotency purposes.
	Exists(ctx context.Context, identifier string) (bool, error)

	// Upload stores one local file under the given key inside the item.
	// Metadata, when non-nil, is attached to the item with this request;
	// the storage service applies item metadata from the first file of a
	// new item. queueDerive marks the final file of the run, after which
	// the service may start deriving the item.
	Upload(ctx context.Context, identifier, key, path string, metadata map[string]string, queueDerive bool) error
}
