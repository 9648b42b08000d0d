package connector

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// LocalConnector executes commands on the local node through /bin/sh.
type LocalConnector struct{}

// NewLocal returns a connector for the local node.
func NewLocal() *LocalConnector {
	return &LocalConnector{}
}

func (l *LocalConnector) Exec(ctx context.Context, cmd string, opts *ExecOptions) (stdout, stderr []byte, err error) {
	effective := ExecOptions{}
	if opts != nil {
		effective = *opts
	}

	full := cmd
	if effective.Sudo {
		full = "sudo -E -- " + cmd
	}

	runCtx := ctx
	if effective.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, effective.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, "/bin/sh", "-c", full)
	if len(effective.Env) > 0 {
		c.Env = append(os.Environ(), effective.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	if effective.Stream != nil {
		c.Stdout = io.MultiWriter(&outBuf, effective.Stream)
		c.Stderr = io.MultiWriter(&errBuf, effective.Stream)
	} else {
		c.Stdout = &outBuf
		c.Stderr = &errBuf
	}

	runErr := c.Run()
	stdout, stderr = outBuf.Bytes(), errBuf.Bytes()
	if runErr == nil {
		return stdout, stderr, nil
	}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		return stdout, stderr, &CommandError{
			Cmd: cmd, ExitCode: -1,
			Stdout: string(stdout), Stderr: string(stderr),
			Underlying: ctxErr,
		}
	}

	exitCode := -1
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	return stdout, stderr, &CommandError{
		Cmd: cmd, ExitCode: exitCode,
		Stdout: string(stdout), Stderr: string(stderr),
		Underlying: runErr,
	}
}

func (l *LocalConnector) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
