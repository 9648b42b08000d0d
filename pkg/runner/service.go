package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// StartService runs `systemctl start <service>`. A non-zero exit means the
// service did not come up; the caller leaves its readiness flag unset so a
// later event retries.
func (r *defaultRunner) StartService(ctx context.Context, service string) (bool, error) {
	if strings.TrimSpace(service) == "" {
		return false, errors.New("service name cannot be empty")
	}
	return r.Check(ctx, fmt.Sprintf("systemctl start %s", shellEscape(service)), true)
}
