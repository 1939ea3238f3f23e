// Version command for the tracker CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/tracker"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tracker version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tracker", tracker.Version)
	},
}
