package storage

import "context"

// Collection names used by the registries.
const (
	CollectionOrders = "orders"
	CollectionTables = "tables"
	CollectionStaff  = "staff"
)

// Store is a durable key-value substrate holding one serialized collection
// per registry. Registries load their full collection at startup and write
// it back whole on every mutation.
type Store interface {
	// Load returns the stored payload for a collection, or nil when the
	// collection has never been written.
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
	Close() error
}
