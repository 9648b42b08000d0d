package connector

import (
	"io"
	"time"
)

// ExecOptions adjusts a single Exec invocation.
type ExecOptions struct {
	// Sudo prefixes the command with sudo -E.
	Sudo bool
	// Timeout bounds the command; zero means no timeout. The reconciliation
	// core leaves this zero and relies on the supervising layer.
	Timeout time.Duration
	// Env is appended to the inherited environment.
	Env []string
	// Stream, when set, receives combined output as it is produced.
	Stream io.Writer
}
