package domain

import "context"

// Publisher places a document at its content-addressed location
type Publisher interface {
	// Publish ensures rec exists under the site root and returns its
	// relative URL
	Publish(ctx context.Context, rec *DocumentRecord) (string, error)
}

// DigestCache stores previously computed content digests
type DigestCache interface {
	// Get returns the cached digest for key or ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)
	// Set stores a digest for key
	Set(ctx context.Context, key string, digest string) error
	// Close releases cache resources
	Close() error
}

// Inspector checks a document's content before it is accepted
type Inspector interface {
	// Inspect validates the file at path and returns its page count
	Inspect(path string) (int, error)
}

// Progress receives per-item progress notifications
type Progress interface {
	Add(n int) error
	Finish() error
}
