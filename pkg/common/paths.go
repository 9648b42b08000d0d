package common

// This file defines the fixed filesystem layout produced and consumed by
// kubelift on the node it manages.

const (
	// BinDir is the executable search path the control-plane binaries are
	// installed into.
	BinDir = "/usr/local/bin"

	// SystemdUnitDir is where rendered service unit files land. A service
	// named kube-apiserver renders to /etc/systemd/system/kube-apiserver.
	SystemdUnitDir = "/etc/systemd/system"

	// DefaultsDir is the parent of per-service environment files. A service
	// named kube-apiserver renders to /etc/defaults/kube-apiserver/kube-apiserver.
	DefaultsDir = "/etc/defaults"

	// EtcdTLSDir holds the etcd client credentials materialized from the
	// etcd relation.
	EtcdTLSDir = "/etc/ssl/etcd"

	// EtcdClientCAFile, EtcdClientKeyFile and EtcdClientCertFile are the
	// fixed names of the materialized credentials under EtcdTLSDir.
	EtcdClientCAFile   = "client-ca.pem"
	EtcdClientKeyFile  = "client-key.pem"
	EtcdClientCertFile = "client-cert.pem"
)

const (
	// WorkDir is the controller's working directory on the node. The binary
	// bundle is expected at WorkDir/files/kubernetes.tar.gz before the
	// install step runs.
	WorkDir = "/var/lib/kubelift"

	// FilesDirName is the bundle staging directory under WorkDir.
	FilesDirName = "files"

	// BundleName is the archive carrying the four control-plane binaries
	// plus a version file.
	BundleName = "kubernetes.tar.gz"

	// BundleVersionFile is the file inside the extracted bundle naming the
	// Kubernetes version it was built from.
	BundleVersionFile = "version"

	// RenderedKubeDirName and RenderedManifestDirName are the working
	// directories ensured before every render pass.
	RenderedKubeDirName     = "files/kubernetes"
	RenderedManifestDirName = "files/manifests"

	// StateFileName is the persisted flag/key-value state, kept under
	// WorkDir as JSON.
	StateFileName = "state.json"
)
