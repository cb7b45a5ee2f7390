package adapters

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDiskArtifactCache_FillsOnce(t *testing.T) {
	cache, err := NewDiskArtifactCache(NewZerologWrapper("error"), t.TempDir())
	if err != nil {
		t.Fatal("failed to create cache:", err)
	}

	var fills int32
	fill := func() ([]byte, error) {
		atomic.AddInt32(&fills, 1)
		return []byte("payload"), nil
	}

	path, created, err := cache.GetOrCreate("aaaa", "mp3", fill)
	if err != nil {
		t.Fatal("first GetOrCreate failed:", err)
	}
	if !created {
		t.Error("first call should create the artifact")
	}

	again, created, err := cache.GetOrCreate("aaaa", "mp3", fill)
	if err != nil {
		t.Fatal("second GetOrCreate failed:", err)
	}
	if created {
		t.Error("second call should hit the cache")
	}
	if again != path {
		t.Errorf("paths differ: %s vs %s", again, path)
	}
	if atomic.LoadInt32(&fills) != 1 {
		t.Error("fill ran more than once:", fills)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatal("failed to read cached artifact:", err)
	}
	if string(payload) != "payload" {
		t.Error("cached content mismatch:", string(payload))
	}
}

func TestDiskArtifactCache_ConcurrentCallersFillOnce(t *testing.T) {
	cache, err := NewDiskArtifactCache(NewZerologWrapper("error"), t.TempDir())
	if err != nil {
		t.Fatal("failed to create cache:", err)
	}

	var fills int32
	fill := func() ([]byte, error) {
		atomic.AddInt32(&fills, 1)
		return []byte("payload"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := cache.GetOrCreate("bbbb", "png", fill); err != nil {
				t.Error("concurrent GetOrCreate failed:", err)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&fills) != 1 {
		t.Error("concurrent callers filled more than once:", fills)
	}
}

func TestDiskArtifactCache_FailedFillWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDiskArtifactCache(NewZerologWrapper("error"), dir)
	if err != nil {
		t.Fatal("failed to create cache:", err)
	}

	_, _, err = cache.GetOrCreate("cccc", "mp3", func() ([]byte, error) {
		return nil, errors.New("provider down")
	})
	if err == nil {
		t.Fatal("failed fill should propagate the error")
	}

	// A later call with a working fill must succeed for the same key.
	_, created, err := cache.GetOrCreate("cccc", "mp3", func() ([]byte, error) {
		return []byte("payload"), nil
	})
	if err != nil {
		t.Fatal("retry after failed fill:", err)
	}
	if !created {
		t.Error("failed fill must not have cached anything")
	}
}
