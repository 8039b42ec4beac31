package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DiskCache stores fetched payloads on disk keyed by source identifier so
// that repeat fetches are idempotent and do not contact the origin again.
type DiskCache struct {
	logger log.Logger
	dir    string
}

// NewDiskCache creates the cache directory when missing and returns a cache
// rooted at dir.
func NewDiskCache(dir string, logger log.Logger) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory missing")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return &DiskCache{logger: logger, dir: dir}, nil
}

// GetOrFetch returns the cached payload for key, fetching and caching it on a
// miss. The payload is written to a temporary path and renamed into place so
// a failed fetch can never leave a partial file at the final path.
func (c *DiskCache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	path := filepath.Join(c.dir, sanitizeKey(key))

	if payload, err := os.ReadFile(path); err == nil {
		level.Debug(c.logger).Log("msg", "Cache hit", "key", key, "path", path)

		return payload, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o640); err != nil {
		return nil, fmt.Errorf("failed to write cache file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return nil, fmt.Errorf("failed to place cache file %s: %w", path, err)
	}

	level.Debug(c.logger).Log("msg", "Cached payload", "key", key, "path", path)

	return payload, nil
}

// sanitizeKey maps a cache key to a safe file name.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")

	return replacer.Replace(key)
}
