package outbound

// ArtifactCachePort is the shared content-addressed store for synthesized
// audio and rendered images. Writes are at-most-once per key: a second
// caller for the same key observes the first caller's artifact instead of
// running fill again. Safe for concurrent use across workers and runs that
// share a cache directory.
type ArtifactCachePort interface {
	// GetOrCreate returns the path of the artifact for key, calling fill to
	// produce its bytes only when no artifact exists yet. created reports
	// whether fill ran in this call.
	GetOrCreate(key string, ext string, fill func() ([]byte, error)) (path string, created bool, err error)
}
