package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List open tasks",
		Long:  "Lists every task that is not done. With --mine only tasks assigned to the current user are shown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runTasks(cmd, e, mine)
			})
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "only tasks assigned to the current user")
	return cmd
}

func runTasks(cmd *cobra.Command, e *env, mine bool) error {
	out := cmd.OutOrStdout()

	var tasks []store.ProjectTask
	if mine {
		if e.store.CurrentUser() == nil {
			fmt.Fprintln(out, "No current user. Pick one in the team view (press u) first.")
			return nil
		}
		tasks = e.store.MyOpenTasks()
	} else {
		tasks = e.store.OpenTasks("")
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No open tasks.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tTASK\tSTATUS\tPRIORITY\tDUE\tASSIGNED")
	for _, pt := range tasks {
		due := "-"
		if pt.Task.DueDate != nil && !pt.Task.DueDate.IsZero() {
			due = pt.Task.DueDate.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			pt.ProjectName, pt.Task.Title, pt.Task.Status, pt.Task.Priority, due, assigneeNames(e.store, pt.Task))
	}
	return w.Flush()
}

func assigneeNames(st *store.Store, task models.Task) string {
	found, missing := st.ResolveAssignees(task)
	names := make([]string, 0, len(found)+len(missing))
	for _, p := range found {
		names = append(names, p.Name)
	}
	names = append(names, missing...)
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func newTimeCmd(opts *rootOptions) *cobra.Command {
	var projectID, personID string

	cmd := &cobra.Command{
		Use:   "time",
		Short: "List logged time entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				return runTime(cmd, e, projectID, personID)
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "only entries for this project id")
	cmd.Flags().StringVar(&personID, "person", "", "only entries for this person id")
	return cmd
}

func runTime(cmd *cobra.Command, e *env, projectID, personID string) error {
	out := cmd.OutOrStdout()

	entries := slices.DeleteFunc(e.store.TimeEntries(), func(te models.TimeEntry) bool {
		return (projectID != "" && te.ProjectID != projectID) || (personID != "" && te.PersonID != personID)
	})
	if len(entries) == 0 {
		fmt.Fprintln(out, "No time entries.")
		return nil
	}
	slices.SortStableFunc(entries, func(a, b models.TimeEntry) int {
		return a.Date.Compare(b.Date.Time)
	})

	var total, billable float64
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPERSON\tPROJECT\tHOURS\tBILLABLE\tDESCRIPTION")
	for _, te := range entries {
		person := te.PersonID
		if p, ok := e.store.Person(te.PersonID); ok {
			person = p.Name
		}
		project := te.ProjectID
		if p, ok := e.store.Project(te.ProjectID); ok {
			project = p.Name
		}
		mark := "no"
		if te.Billable {
			mark = "yes"
			billable += te.Hours
		}
		total += te.Hours
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\t%s\n", te.Date, person, project, te.Hours, mark, te.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal: %g hours (%g billable)\n", total, billable)
	return nil
}
