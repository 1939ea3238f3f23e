// Mark and unmark commands record and remove completions.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var (
	markDate   string
	unmarkDate string
)

var markCmd = &cobra.Command{
	Use:   "mark <tracker-id>",
	Short: "Mark a tracker complete for a day",
	Long: `Mark records a completion of the tracker for the given day
(default: today). Marking a future day or a day that is already marked
fails.

Example:
  tracker mark 0190b7c2-... --date 2026-08-28`,
	Args: cobra.ExactArgs(1),
	RunE: runMark,
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark <tracker-id>",
	Short: "Remove a tracker's completion for a day",
	Long: `Unmark removes the completion record for the given day
(default: today). Unmarking a day that has no record is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnmark,
}

func init() {
	markCmd.Flags().StringVar(&markDate, "date", "", "day to mark, YYYY-MM-DD (default: today)")
	unmarkCmd.Flags().StringVar(&unmarkDate, "date", "", "day to unmark, YYYY-MM-DD (default: today)")
}

func runMark(cmd *cobra.Command, args []string) error {
	date, err := parseDate(markDate)
	if err != nil {
		return err
	}

	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	record, err := storage.Records().Add(args[0], date)
	if err != nil {
		return fmt.Errorf("mark tracker: %w", err)
	}

	if flagJSON {
		return printJSON(record)
	}
	fmt.Printf("Marked %s complete for %s\n", args[0], record.Day)
	return nil
}

func runUnmark(cmd *cobra.Command, args []string) error {
	date, err := parseDate(unmarkDate)
	if err != nil {
		return err
	}

	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	if err := storage.Records().DeleteForDay(args[0], date); err != nil {
		return fmt.Errorf("unmark tracker: %w", err)
	}

	fmt.Printf("Unmarked %s for %s\n", args[0], types.DayOf(date))
	return nil
}
