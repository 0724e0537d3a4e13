package cache

import (
	"time"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

// Ensure BadgerCache implements domain.DigestCache
var _ domain.DigestCache = (*BadgerCache)(nil)

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
	TTL       time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
		TTL:       30 * 24 * time.Hour,
	}
}
