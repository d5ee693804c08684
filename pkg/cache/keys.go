package cache

// Keyer generates cache keys for pipeline results.
type Keyer interface {
	// EdgesKey identifies the scored edges of one cluster. membersHash
	// must cover the member order and pixel content; params is any
	// JSON-serializable value holding every parameter that affects scores.
	EdgesKey(membersHash string, params any) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// EdgesKey implements Keyer.
func (DefaultKeyer) EdgesKey(membersHash string, params any) string {
	return hashKey("edges", membersHash, params)
}

// ScopedKeyer wraps a Keyer with a prefix, separating caches that share a
// backing store (for example one per dataset).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// EdgesKey implements Keyer.
func (k *ScopedKeyer) EdgesKey(membersHash string, params any) string {
	return k.prefix + k.inner.EdgesKey(membersHash, params)
}
