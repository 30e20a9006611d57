package cache

// ScopedKeyer wraps a Keyer with a prefix so that different namespaces
// never share entries. The CLI scopes by [buildinfo.CacheScope].
//
// [buildinfo.CacheScope]: github.com/matzehuels/geospanner/pkg/buildinfo.CacheScope
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(args []string) string {
	return k.prefix + k.inner.ReportKey(args)
}

// InstanceKey generates a prefixed instance key.
func (k *ScopedKeyer) InstanceKey(args []string) string {
	return k.prefix + k.inner.InstanceKey(args)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
