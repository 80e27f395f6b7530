package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui"
)

// withEnv runs fn against an opened env and always closes it afterwards
func withEnv(opts *rootOptions, fn func(e *env) error) (err error) {
	e, err := openEnv(opts, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.Close()) }()
	return fn(e)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all data as JSON",
		Long:  "Writes people, projects, tasks and time entries as an indented JSON document to file, or stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runExport(cmd, e, args)
			})
		},
	}
}

func runExport(cmd *cobra.Command, e *env, args []string) error {
	text, err := e.store.ExportData()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	if err := os.WriteFile(args[0], []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	st := e.store.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d people, %d projects and %d time entries to %s\n",
		st.People, st.Projects, st.TimeEntries, args[0])
	return nil
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with an exported JSON document",
		Long: `Validates the document and, if it is well formed, replaces all current data with it.

Invalid documents leave the current data untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runImport(cmd, e, args[0])
			})
		},
	}
}

func runImport(cmd *cobra.Command, e *env, path string) error {
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}

	if err := e.store.ImportData(string(data)); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "%s is not a valid export:\n", path)
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
		}
		return err
	}

	st := e.store.Stats()
	fmt.Fprintf(out, "Imported %d people, %d projects, %d tasks and %d time entries from %s\n",
		st.People, st.Projects, st.Tasks, st.TimeEntries, path)
	if dangling := store.FindDangling(e.store.Snapshot()); dangling.Any() {
		fmt.Fprintln(out, "Warning: some records reference people, projects or tasks that do not exist.")
	}
	return nil
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset all data to the first-run state",
		Long:  "Deletes every project, task and time entry and restores the default team.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runClear(cmd, e, yes)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runClear(cmd *cobra.Command, e *env, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	if !skipConfirm && !confirmClear(cmd, e.cfg.DBPath) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	e.store.ClearAllData()
	// the remembered project no longer exists
	if err := e.db.DeleteSlot(ui.LastProjectKey); err != nil {
		e.log.Warn().Err(err).Msg("failed to reset last project")
	}
	if err := e.store.PersistStatus().LastError; err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	fmt.Fprintln(out, "All data cleared.")
	return nil
}

func confirmClear(cmd *cobra.Command, path string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all projects, tasks and time entries in %s.\n", path)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts and logged hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runStats(cmd, e)
			})
		},
	}
}

func runStats(cmd *cobra.Command, e *env) error {
	st := e.store.Stats()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "People:\t%d\n", st.People)
	fmt.Fprintf(w, "Projects:\t%d (%d active, %d completed)\n", st.Projects, st.ActiveProjects, st.CompletedProjects)
	fmt.Fprintf(w, "Tasks:\t%d (%d done)\n", st.Tasks, st.CompletedTasks)
	fmt.Fprintf(w, "Time entries:\t%d\n", st.TimeEntries)
	fmt.Fprintf(w, "Hours logged:\t%g (%g billable, %g non-billable)\n", st.TotalHours, st.BillableHours, st.NonBillableHours)
	if err := w.Flush(); err != nil {
		return err
	}

	upcoming := e.store.UpcomingDeadlines(5)
	if len(upcoming) == 0 {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nUpcoming deadlines:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, pt := range upcoming {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", pt.Task.DueDate, pt.ProjectName, pt.Task.Title)
	}
	return w.Flush()
}

func newSlotsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the values stored in the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				slots, err := e.db.ListSlots()
				if err != nil {
					return fmt.Errorf("list slots: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tBYTES\tUPDATED")
				for _, s := range slots {
					fmt.Fprintf(w, "%s\t%d\t%s\n", s.Key, s.Size, s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}
}
