package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/state"
)

var flagsStateFile string

func init() {
	flagsCmd.Flags().StringVar(&flagsStateFile, "state",
		filepath.Join(common.WorkDir, common.StateFileName),
		"Persisted flag and fact store")
	rootCmd.AddCommand(flagsCmd)
}

// wellKnownFlags is the full set the table reports on, so unset flags are
// visible too. Flags outside this set still show up when set.
func wellKnownFlags() []string {
	names := []string{
		common.FlagInstalled,
		common.FlagCAAvailable,
		common.FlagEtcdAvailable,
	}
	for _, svc := range common.AllComponents {
		names = append(names, common.AvailableFlag(svc))
	}
	return names
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List the readiness flags recorded in the state store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := state.Open(flagsStateFile)
		if err != nil {
			return err
		}

		known := wellKnownFlags()
		seen := make(map[string]bool, len(known))
		for _, name := range known {
			seen[name] = true
		}
		for _, name := range store.Flags() {
			if !seen[name] {
				known = append(known, name)
			}
		}

		set := color.New(color.FgGreen).SprintFunc()
		unset := color.New(color.FgYellow).SprintFunc()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"FLAG", "STATE"})
		table.SetBorder(false)
		table.SetColumnSeparator(" ")
		for _, name := range known {
			if store.HasFlag(name) {
				table.Append([]string{name, set("set")})
			} else {
				table.Append([]string{name, unset("unset")})
			}
		}
		table.Render()

		if subnet, ok := store.Get(common.KeySDNSubnet); ok {
			fmt.Printf("\n%s = %s\n", common.KeySDNSubnet, subnet)
		}
		return nil
	},
}
