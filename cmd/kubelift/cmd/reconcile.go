package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/config"
	"github.com/kubelift/kubelift/pkg/connector"
	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/install"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/reconcile"
	"github.com/kubelift/kubelift/pkg/render"
	"github.com/kubelift/kubelift/pkg/runner"
	"github.com/kubelift/kubelift/pkg/state"
	"github.com/kubelift/kubelift/pkg/status"
)

type reconcileOptions struct {
	ConfigFile   string
	StateFile    string
	RelationFile string
	SetFlags     []string
	ClearFlags   []string
}

var reconcileOpts = &reconcileOptions{}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileOpts.ConfigFile, "config", "",
		"Node configuration file (defaults apply when omitted)")
	reconcileCmd.Flags().StringVar(&reconcileOpts.StateFile, "state",
		filepath.Join(common.WorkDir, common.StateFileName),
		"Persisted flag and fact store")
	reconcileCmd.Flags().StringVar(&reconcileOpts.RelationFile, "etcd-relation", "",
		"Relation data file from the etcd collaborator; implies etcd.available")
	reconcileCmd.Flags().StringSliceVar(&reconcileOpts.SetFlags, "set", nil,
		"Flags the event sets before evaluation, e.g. certificate-authority.available")
	reconcileCmd.Flags().StringSliceVar(&reconcileOpts.ClearFlags, "clear", nil,
		"Flags the event clears before evaluation")
	rootCmd.AddCommand(reconcileCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Handle one external event and run the newly satisfied steps",
	Long: `Applies the event's flag changes to the persisted state, then runs every
reconciliation step whose preconditions hold: binary install, master service
render and start, DNS add-on launch. Transient failures leave readiness
flags unset; re-invoke on the next event to retry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()

		cfg := config.Default()
		if reconcileOpts.ConfigFile != "" {
			loaded, err := config.Load(reconcileOpts.ConfigFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if err := os.MkdirAll(filepath.Dir(reconcileOpts.StateFile), 0o755); err != nil {
			return err
		}
		store, err := state.Open(reconcileOpts.StateFile)
		if err != nil {
			return err
		}

		ev := reconcile.Event{
			SetFlags:   reconcileOpts.SetFlags,
			ClearFlags: reconcileOpts.ClearFlags,
		}
		if reconcileOpts.RelationFile != "" {
			rel, err := etcd.LoadRelation(reconcileOpts.RelationFile)
			if err != nil {
				return err
			}
			ev.Relation = rel
		}

		st := &status.LogSetter{Log: log}
		run := runner.New(connector.NewLocal())
		driver := reconcile.New(reconcile.Deps{
			Store:     store,
			Runner:    run,
			Status:    st,
			Log:       log,
			Installer: install.NewInstaller(run, log, st),
			Renderer:  render.New(run, store, cfg, st, log),
		})

		return driver.HandleEvent(cmd.Context(), ev)
	},
}
