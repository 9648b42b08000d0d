// Package connector executes commands on the node kubelift manages. The
// controller always runs on that node, so the only real implementation is
// LocalConnector; the interface exists so the reconciliation logic can be
// driven against a fake recording every invocation.
package connector

import "context"

// Connector runs commands and resolves executables.
type Connector interface {
	// Exec runs cmd through the shell and returns captured stdout/stderr.
	// A non-zero exit is reported as a *CommandError.
	Exec(ctx context.Context, cmd string, opts *ExecOptions) (stdout, stderr []byte, err error)

	// LookPath resolves an executable name against PATH.
	LookPath(file string) (string, error)
}
