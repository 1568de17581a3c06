package cache

import "time"

// DocumentKeyOpts identifies one rendered artifact.
type DocumentKeyOpts struct {
	ModTime   time.Time // snapshot file modification time
	GraphHash string    // Hash of the snapshot's graph JSON
	Format    string    // html, svg, dot
	Options   any       // render options; must be JSON-encodable
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey returns the key for a rendered document of projectID.
	DocumentKey(projectID string, opts DocumentKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(projectID string, opts DocumentKeyOpts) string {
	return hashKey("doc:"+projectID, opts.ModTime.UTC().Format(time.RFC3339Nano),
		opts.GraphHash, opts.Format, opts.Options)
}

// ScopedKeyer prefixes every key, so caches shared between snapshot
// directories never mix entries for the same project id.
//
//	keyer := cache.NewScopedKeyer(nil, cache.Hash([]byte(snapshotDir))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey implements Keyer.
func (k *ScopedKeyer) DocumentKey(projectID string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(projectID, opts)
}
