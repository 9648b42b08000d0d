package render

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/status"
)

// DetectArchitecture asks the packaging subsystem for the machine
// architecture and validates it against the supported set. An unsupported
// value blocks the unit and aborts the enclosing operation; there is no
// recovering from it on this machine.
func (r *Renderer) DetectArchitecture(ctx context.Context) (string, error) {
	arch, err := r.Runner.PackageArchitecture(ctx)
	if err != nil {
		return "", err
	}
	if !common.IsSupportedArchitecture(arch) {
		msg := fmt.Sprintf("Unsupported machine architecture: %s", arch)
		r.Status.Set(status.Blocked, msg)
		return "", errors.New(msg)
	}
	return arch, nil
}
