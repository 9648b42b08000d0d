package runner

import (
	"context"

	"github.com/pkg/errors"
)

// PackageArchitecture queries dpkg for the machine's package architecture.
// The output carries a trailing newline which is trimmed by Run.
func (r *defaultRunner) PackageArchitecture(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "dpkg --print-architecture", false)
	if err != nil {
		return "", errors.Wrap(err, "failed to query package architecture")
	}
	return out, nil
}
