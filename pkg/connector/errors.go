package connector

import "fmt"

// CommandError reports a command that ran and exited non-zero, as opposed to
// one that could not be started at all. Callers use the exit code to decide
// between "precondition not met" and "broken environment".
type CommandError struct {
	Cmd        string
	ExitCode   int
	Stdout     string
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command '%s' failed with exit code %d", e.Cmd, e.ExitCode)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s (underlying error: %v)", msg, e.Underlying)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}
