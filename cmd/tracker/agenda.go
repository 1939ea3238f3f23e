// Agenda command renders the visible trackers for a date.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/agenda"
)

var agendaDate string

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show trackers scheduled for a date",
	Long: `Agenda shows the categories and trackers scheduled on the given
date's weekday, with completion state. Future dates show nothing.

Example:
  tracker agenda
  tracker agenda --date 2026-08-24
  tracker agenda --json`,
	Args: cobra.NoArgs,
	RunE: runAgenda,
}

func init() {
	agendaCmd.Flags().StringVar(&agendaDate, "date", "", "date to show, YYYY-MM-DD (default: today)")
}

func runAgenda(cmd *cobra.Command, args []string) error {
	date, err := parseDate(agendaDate)
	if err != nil {
		return err
	}

	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	views, err := agenda.Visible(storage, date)
	if err != nil {
		return fmt.Errorf("build agenda: %w", err)
	}

	if flagJSON {
		return printJSON(views)
	}

	if len(views) == 0 {
		fmt.Println("Nothing scheduled.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, category := range views {
		fmt.Fprintf(w, "%s\n", category.Title)
		for _, view := range category.Trackers {
			done := " "
			if view.CompletedToday {
				done = "x"
			}
			fmt.Fprintf(w, "  [%s]\t%s %s\t%d total\n",
				done, view.Tracker.Emoji, view.Tracker.Name, view.CompletionCount)
		}
	}
	return w.Flush()
}
