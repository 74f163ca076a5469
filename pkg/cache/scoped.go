package cache

// ScopedKeyer wraps a Keyer with a prefix so several timelines can share
// one cache backend.
//
// Example usage:
//
//	clubKeyer := NewScopedKeyer(NewDefaultKeyer(), "club:rvno:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed key for frame caching.
func (k *ScopedKeyer) FrameKey(entriesHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(entriesHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}
