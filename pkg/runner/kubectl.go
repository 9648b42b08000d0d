package runner

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ClusterInfo probes the API server with `kubectl cluster-info`. Any failure
// counts as "not reachable yet"; the distinction between a refused
// connection and a missing binary is not actionable here.
func (r *defaultRunner) ClusterInfo(ctx context.Context) bool {
	ok, err := r.Check(ctx, "kubectl cluster-info", false)
	return err == nil && ok
}

// NamespaceExists checks for a namespace with `kubectl get namespace`.
// A non-zero exit means "treat as absent and create".
func (r *defaultRunner) NamespaceExists(ctx context.Context, namespace string) bool {
	ok, err := r.Check(ctx, fmt.Sprintf("kubectl get namespace %s", shellEscape(namespace)), false)
	return err == nil && ok
}

// CreateNamespace creates a namespace. The system namespace is a hard
// prerequisite for the DNS add-on, so failure propagates as fatal.
func (r *defaultRunner) CreateNamespace(ctx context.Context, namespace string) error {
	if _, err := r.Run(ctx, fmt.Sprintf("kubectl create namespace %s", shellEscape(namespace)), false); err != nil {
		return errors.Wrapf(err, "failed to create namespace %s", namespace)
	}
	return nil
}
