package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/kubelift/kubelift/pkg/connector"
)

type defaultRunner struct {
	conn connector.Connector
}

// New returns a Runner executing through the given connector.
func New(conn connector.Connector) Runner {
	return &defaultRunner{conn: conn}
}

func shellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

func (r *defaultRunner) Run(ctx context.Context, cmd string, sudo bool) (string, error) {
	stdout, _, err := r.conn.Exec(ctx, cmd, &connector.ExecOptions{Sudo: sudo})
	if err != nil {
		return string(stdout), errors.Wrapf(err, "command failed: %s", cmd)
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (r *defaultRunner) Check(ctx context.Context, cmd string, sudo bool) (bool, error) {
	_, _, err := r.conn.Exec(ctx, cmd, &connector.ExecOptions{Sudo: sudo})
	if err == nil {
		return true, nil
	}
	var cmdErr *connector.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode >= 0 {
		return false, nil
	}
	return false, errors.Wrapf(err, "could not run check command: %s", cmd)
}

func (r *defaultRunner) Mkdirp(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path cannot be empty for Mkdirp")
	}
	_, err := r.Run(ctx, fmt.Sprintf("mkdir -p %s", shellEscape(path)), true)
	return err
}

func (r *defaultRunner) InstallBinary(ctx context.Context, src, destDir string) error {
	if src == "" || destDir == "" {
		return errors.New("source and destination are required for InstallBinary")
	}
	_, err := r.Run(ctx, fmt.Sprintf("install %s %s", shellEscape(src), shellEscape(destDir)), true)
	return err
}
