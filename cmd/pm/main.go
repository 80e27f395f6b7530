package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pm",
		Short: "Local project management",
		Long: `pm tracks people, projects, tasks and time entries in a local sqlite file.

Run without a subcommand to open the terminal UI.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default $XDG_CONFIG_HOME/pm/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the sqlite data file (overrides db_path)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newClearCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newTasksCmd(opts))
	cmd.AddCommand(newTimeCmd(opts))
	cmd.AddCommand(newSlotsCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pm %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
