// Package state holds the controller's persisted facts: readiness flags and
// string key/value data such as the SDN subnet. The reconciliation driver is
// the single writer; collaborator-owned flags (etcd.available,
// certificate-authority.available) are written only on its behalf when an
// event delivers them.
package state

// Store is the flag and key-value state consulted by every rule.
type Store interface {
	// SetFlag records a named boolean fact as true.
	SetFlag(name string) error
	// ClearFlag removes a flag. Clearing an absent flag is a no-op.
	ClearFlag(name string) error
	// HasFlag reports whether a flag is currently set.
	HasFlag(name string) bool
	// Flags returns all set flags in sorted order.
	Flags() []string

	// Set stores a string fact under key.
	Set(key, value string) error
	// Get returns the fact stored under key, if any.
	Get(key string) (string, bool)
}
