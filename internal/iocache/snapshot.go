package iocache

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
	"lukechampine.com/blake3"
)

// SnapshotVersion is bumped whenever the encoded commit layout changes.
// Entries written with another version are rebuilt.
const SnapshotVersion = 1

// Fingerprint identifies a source table together with the settings that
// shape its aggregation.
func Fingerprint(data []byte, urlPrefix string) string {
	buf := make([]byte, 0, len(data)+len(urlPrefix)+8)
	buf = strconv.AppendInt(buf, SnapshotVersion, 10)
	buf = append(buf, 0)
	buf = append(buf, urlPrefix...)
	buf = append(buf, 0)
	buf = append(buf, data...)
	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// LoadOrBuild returns the cached commits for key or builds and stores them.
// A nil store always builds. The bool reports a cache hit. Store failures
// never fail the load; they are logged and the built commits returned.
func LoadOrBuild(store contract.CacheStore, key string, build func() ([]schema.Commit, error)) ([]schema.Commit, bool, error) {
	if store != nil {
		commits, err := getSnapshot(store, key)
		switch {
		case err == nil:
			return commits, true, nil
		case !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, errStaleSnapshot):
			contract.LogWarn("reading snapshot cache", err)
		}
	}

	commits, err := build()
	if err != nil {
		return nil, false, err
	}
	if store != nil {
		if err := putSnapshot(store, key, commits); err != nil {
			contract.LogWarn("writing snapshot cache", err)
		}
	}
	return commits, false, nil
}

var errStaleSnapshot = errors.New("stale snapshot version")

func getSnapshot(store contract.CacheStore, key string) ([]schema.Commit, error) {
	data, version, _, err := store.Get(key)
	if err != nil {
		return nil, err
	}
	if version != SnapshotVersion {
		return nil, errStaleSnapshot
	}
	var commits []schema.Commit
	if err := json.Unmarshal(data, &commits); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	if commits == nil {
		commits = []schema.Commit{}
	}
	return commits, nil
}

func putSnapshot(store contract.CacheStore, key string, commits []schema.Commit) error {
	data, err := json.Marshal(commits)
	if err != nil {
		return err
	}
	return store.Set(key, data, SnapshotVersion, time.Now().Unix())
}
