// Package runner is the capability layer every side-effecting operation of
// the reconciliation core goes through: shell commands, service management,
// kubectl probes and namespace operations. Tests substitute a fake Runner
// and assert exact invocations.
package runner

import "context"

// Runner is a stateless operation library over the node.
type Runner interface {
	// Run executes cmd and returns trimmed stdout. A non-zero exit is an
	// error (a *connector.CommandError).
	Run(ctx context.Context, cmd string, sudo bool) (string, error)

	// Check executes cmd and reports exit-zero as true. Only a failure to
	// launch the command at all is an error.
	Check(ctx context.Context, cmd string, sudo bool) (bool, error)

	// Mkdirp creates path and any missing parents; no error if it exists.
	Mkdirp(ctx context.Context, path string) error

	// InstallBinary copies src into destDir with install(1), preserving the
	// executable bit.
	InstallBinary(ctx context.Context, src, destDir string) error

	// StartService starts a systemd service and reports whether the start
	// command exited successfully.
	StartService(ctx context.Context, service string) (bool, error)

	// PackageArchitecture returns the trimmed machine architecture reported
	// by the OS packaging subsystem.
	PackageArchitecture(ctx context.Context) (string, error)

	// ClusterInfo reports whether the API server answers `kubectl cluster-info`.
	ClusterInfo(ctx context.Context) bool

	// NamespaceExists reports whether `kubectl get namespace` succeeds for
	// the given name.
	NamespaceExists(ctx context.Context, namespace string) bool

	// CreateNamespace creates the namespace; an error here is fatal to the
	// enclosing operation.
	CreateNamespace(ctx context.Context, namespace string) error
}
