package reconcile

import (
	"context"

	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/state"
)

// Rule is one condition-gated reconciliation step. When reports whether the
// rule's preconditions hold against the current flag set; Run performs the
// step. A Run error is fatal and aborts the pass. Transient failures are
// absorbed inside Run by leaving readiness flags unset.
type Rule struct {
	Name string
	When func(s state.Store) bool
	Run  func(ctx context.Context, p *Pass) error
}

// Pass is the per-event execution context handed to each rule.
type Pass struct {
	// ID tags every log line of one driver pass.
	ID string
	// Relation carries the etcd connection descriptor when the triggering
	// event included relation data, nil otherwise.
	Relation etcd.Relation
	// Log is the pass-scoped logger.
	Log *logger.Logger
}
