package cmd

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/kubelift/kubelift/pkg/logger"
)

var (
	verboseFlag bool
	logFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kubelift",
	Short: "kubelift manages the Kubernetes control-plane services on this node.",
	Long: figure.NewFigure("kubelift", "", true).String() + `
kubelift installs the Kubernetes master binaries, renders their systemd
service definitions and drives them to a running state. It is event driven:
each invocation applies the flags the event carries and runs every
reconciliation step whose preconditions newly hold.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := logger.DefaultOptions()
		opts.ColorConsole = true
		if verboseFlag {
			opts.ConsoleLevel = logger.DebugLevel
		}
		if logFileFlag != "" {
			opts.FileOutput = true
			opts.LogFilePath = logFileFlag
		}
		logger.Init(opts)
		return nil
	},
}

// Execute runs the root command; called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Also write structured logs to this file")
}
