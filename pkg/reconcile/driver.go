// Package reconcile is the level-triggered rule engine driving the node to
// the desired control-plane state. External events mutate the flag store;
// the driver then runs every newly-satisfied rule once, re-evaluating flags
// between rules so one event can carry the node through several phases.
package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/runner"
	"github.com/kubelift/kubelift/pkg/state"
	"github.com/kubelift/kubelift/pkg/status"
)

// BinaryInstaller is the one-time install step.
type BinaryInstaller interface {
	InstallBinaries(ctx context.Context) error
}

// FileRenderer renders the service definitions, optionally with etcd
// relation data.
type FileRenderer interface {
	RenderFiles(ctx context.Context, rel etcd.Relation) error
}

// Deps are the collaborators the rules act through.
type Deps struct {
	Store     state.Store
	Runner    runner.Runner
	Status    status.Setter
	Log       *logger.Logger
	Installer BinaryInstaller
	Renderer  FileRenderer
}

// Event is one external trigger: flags to apply plus optional relation data.
// An event carrying relation data implies the etcd relation is satisfied.
type Event struct {
	SetFlags   []string
	ClearFlags []string
	Relation   etcd.Relation
}

// Driver owns the rule list and executes one pass per event. It is
// single-threaded; each pass runs to completion before the next may start.
type Driver struct {
	deps  Deps
	rules []Rule
}

// New returns a Driver with the standard rule set.
func New(deps Deps) *Driver {
	d := &Driver{deps: deps}
	d.rules = []Rule{
		d.installRule(),
		d.startMasterRule(),
		d.launchDNSRule(),
	}
	return d
}

// NewWithRules returns a Driver with an explicit rule list, for tests.
func NewWithRules(deps Deps, rules []Rule) *Driver {
	return &Driver{deps: deps, rules: rules}
}

// HandleEvent applies the event's flag changes and runs every rule whose
// preconditions hold, each at most once. Rules are re-evaluated after each
// execution so flags set by one rule can satisfy the next within the same
// pass. A rule error is fatal: the pass aborts and the error surfaces.
func (d *Driver) HandleEvent(ctx context.Context, ev Event) error {
	pass := &Pass{
		ID:       uuid.NewString(),
		Relation: ev.Relation,
	}
	pass.Log = d.deps.Log.With("pass", pass.ID)
	pass.Log.Infof("handling event")

	for _, name := range ev.ClearFlags {
		if err := d.deps.Store.ClearFlag(name); err != nil {
			return errors.Wrapf(err, "failed to clear flag %s", name)
		}
	}
	for _, name := range ev.SetFlags {
		if err := d.deps.Store.SetFlag(name); err != nil {
			return errors.Wrapf(err, "failed to set flag %s", name)
		}
	}
	if ev.Relation != nil {
		if err := d.deps.Store.SetFlag(common.FlagEtcdAvailable); err != nil {
			return errors.Wrapf(err, "failed to set flag %s", common.FlagEtcdAvailable)
		}
	}

	executed := make(map[string]bool, len(d.rules))
	for progressed := true; progressed; {
		progressed = false
		for _, rule := range d.rules {
			if executed[rule.Name] || !rule.When(d.deps.Store) {
				continue
			}
			executed[rule.Name] = true
			progressed = true

			ruleLog := pass.Log.With("rule", rule.Name)
			ruleLog.Infof("rule satisfied, running")
			rulePass := &Pass{ID: pass.ID, Relation: pass.Relation, Log: ruleLog}
			if err := rule.Run(ctx, rulePass); err != nil {
				ruleLog.Failf("rule failed: %v", err)
				return errors.Wrapf(err, "rule %s failed", rule.Name)
			}
		}
	}

	pass.Log.Infof("pass complete, flags: %v", d.deps.Store.Flags())
	return nil
}
