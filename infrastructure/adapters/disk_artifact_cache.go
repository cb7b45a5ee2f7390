package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

// diskArtifactCache stores artifacts content-addressed under one directory.
// A file lock per key gives at-most-once-write semantics across workers and
// across processes sharing the cache directory: the second writer for a key
// observes the first writer's artifact instead of producing it again.
type diskArtifactCache struct {
	logger outbound.LoggerPort
	dir    string
}

func NewDiskArtifactCache(logger outbound.LoggerPort, dir string) (outbound.ArtifactCachePort, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &diskArtifactCache{logger: logger, dir: dir}, nil
}

func (c *diskArtifactCache) GetOrCreate(key string, ext string, fill func() ([]byte, error)) (string, bool, error) {
	path := filepath.Join(c.dir, key+"."+ext)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	lock := flock.New(filepath.Join(c.dir, key+".lock"))
	if err := lock.Lock(); err != nil {
		return "", false, fmt.Errorf("lock cache key: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Error(err, "failed to release cache lock")
		}
	}()

	// Another writer may have filled the key while we waited on the lock.
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	data, err := fill()
	if err != nil {
		return "", false, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", false, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", false, err
	}
	return path, true, nil
}
