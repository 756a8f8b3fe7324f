// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/commitscope/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
}

// CacheStore defines the interface for the aggregated-commit snapshot cache.
// Keys are input fingerprints; values are encoded commit sets.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
