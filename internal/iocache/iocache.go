// Package iocache caches aggregated commit sets keyed by a fingerprint of
// their source data.
package iocache

import (
	"sync"

	"github.com/huangsam/commitscope/internal/contract"
)

// CacheStoreManager manages the snapshot CacheStore.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	snapshot     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot CacheStore, or nil before InitCaching.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}
