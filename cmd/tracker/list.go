// List command shows all trackers.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all trackers",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	trackers, err := storage.Trackers().Fetch()
	if err != nil {
		return fmt.Errorf("fetch trackers: %w", err)
	}

	if flagJSON {
		return printJSON(trackers)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMOJI\tSCHEDULE\tCATEGORY")
	for _, t := range trackers {
		days := make([]string, len(t.Schedule))
		for i, d := range t.Schedule {
			days[i] = d.String()[:3]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.TrackerID, t.Name, t.Emoji, strings.Join(days, ","), t.CategoryTitle)
	}
	return w.Flush()
}
