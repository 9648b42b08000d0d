package common

// Readiness flags. A flag is set only after the fact it names has been
// confirmed; clearing a flag makes the owning rule eligible to run again on
// the next event.
const (
	// FlagInstalled gates the one-time binary install step.
	FlagInstalled = "kube-master-components.installed"

	// FlagCAAvailable is owned by the certificate-authority collaborator and
	// only ever read here.
	FlagCAAvailable = "certificate-authority.available"

	// FlagEtcdAvailable is owned by the etcd relation and only ever read
	// here. An event carrying relation data sets it.
	FlagEtcdAvailable = "etcd.available"
)

// AvailableFlag returns the readiness flag name for a service,
// e.g. "kube-apiserver.available".
func AvailableFlag(service string) string {
	return service + ".available"
}

// --- Persisted key-value facts ---
const (
	// KeySDNSubnet is the SDN-provided subnet fact. When present it takes
	// priority over the configured CIDR for DNS address derivation.
	KeySDNSubnet = "sdn_subnet"
)
