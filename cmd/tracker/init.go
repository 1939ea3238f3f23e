// Init command for the tracker CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tracker storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		if err := ensureConfigDir(configDir); err != nil {
			return err
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return err
		}

		// Attach creates the data directory and seeds the default
		// category on first run.
		storage, err := attachStorage()
		if err != nil {
			return err
		}
		defer storage.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}

		fmt.Println("Tracker initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
