// Add command creates a new tracker.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var (
	addName     string
	addEmoji    string
	addColor    string
	addSchedule string
	addCategory string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new tracker",
	Long: `Add creates a new tracker (habit) in an existing category.

The schedule is a comma-separated weekday list; names, three-letter
prefixes, and numbers (1=Sunday .. 7=Saturday) are accepted.

Example:
  tracker add --name "Morning run" --emoji "🏃" --color red --schedule mon,wed,fri
  tracker add --name "Read" --emoji "📚" --color blue --schedule 2,3,4,5,6 --category "Leisure"`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "tracker name (required)")
	addCmd.Flags().StringVar(&addEmoji, "emoji", "", "tracker emoji (required)")
	addCmd.Flags().StringVar(&addColor, "color", "", "color identifier (required)")
	addCmd.Flags().StringVar(&addSchedule, "schedule", "", "weekday schedule, e.g. mon,wed,fri (required)")
	addCmd.Flags().StringVar(&addCategory, "category", "Default", "category title")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("emoji")
	_ = addCmd.MarkFlagRequired("color")
	_ = addCmd.MarkFlagRequired("schedule")
}

func runAdd(cmd *cobra.Command, args []string) error {
	schedule, err := types.ParseSchedule(addSchedule)
	if err != nil {
		return err
	}

	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	id, err := storage.Trackers().Add(types.Tracker{
		Name:          addName,
		Emoji:         addEmoji,
		Color:         addColor,
		Schedule:      schedule,
		CategoryTitle: addCategory,
	})
	if err != nil {
		return fmt.Errorf("add tracker: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"tracker_id": id})
	}
	fmt.Println("Created tracker:", id)
	return nil
}
