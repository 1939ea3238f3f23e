// Delete command removes a tracker.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <tracker-id>",
	Short: "Delete a tracker and its completion records",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	if err := storage.Trackers().Delete(args[0]); err != nil {
		return fmt.Errorf("delete tracker: %w", err)
	}

	fmt.Println("Deleted tracker:", args[0])
	return nil
}
