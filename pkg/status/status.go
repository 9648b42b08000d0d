// Package status publishes the unit's operator-facing status. Status is
// write-only for the reconciliation core: it is set before risky phases so
// an operator can see what is in progress, but never read back as a control
// signal.
package status

import "github.com/kubelift/kubelift/pkg/logger"

// Level is the operator-visible status level.
type Level string

const (
	Maintenance Level = "maintenance"
	Blocked     Level = "blocked"
	Active      Level = "active"
)

// Setter publishes a status message.
type Setter interface {
	Set(level Level, message string)
}

// LogSetter publishes status transitions through the logger; the dashboard
// side tails the structured log.
type LogSetter struct {
	Log *logger.Logger
}

func (s *LogSetter) Set(level Level, message string) {
	log := s.Log
	if log == nil {
		log = logger.Get()
	}
	switch level {
	case Blocked:
		log.Errorf("status blocked: %s", message)
	default:
		log.Infof("status %s: %s", level, message)
	}
}

// Recorder captures status transitions for assertions in tests.
type Recorder struct {
	Entries []Entry
}

// Entry is one recorded status transition.
type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Set(level Level, message string) {
	r.Entries = append(r.Entries, Entry{Level: level, Message: message})
}

// Last returns the most recent entry, if any.
func (r *Recorder) Last() (Entry, bool) {
	if len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[len(r.Entries)-1], true
}
