package common

// SupportedArchitectures is the set of package architectures Kubernetes
// ships control-plane binaries for. Anything else blocks the unit.
var SupportedArchitectures = []string{"amd64", "arm", "arm64", "ppc64le"}

// IsSupportedArchitecture reports whether arch is in SupportedArchitectures.
func IsSupportedArchitecture(arch string) bool {
	for _, a := range SupportedArchitectures {
		if a == arch {
			return true
		}
	}
	return false
}
