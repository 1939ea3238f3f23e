// Package main provides the tracker CLI: a thin consumer of the storage
// core that creates categories and trackers, marks completions, and
// renders the agenda for a date.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the CLI exit code: user errors (bad input,
// unknown entities, invariant violations) exit 1, system errors exit 2.
func exitCode(err error) int {
	userErrors := []error{
		types.ErrInvalidTitle,
		types.ErrInvalidData,
		types.ErrInvalidID,
		types.ErrInvalidWeekday,
		types.ErrDuplicateTitle,
		types.ErrCategoryNotFound,
		types.ErrTrackerNotFound,
		types.ErrDuplicateCompletion,
		types.ErrFutureDate,
	}
	for _, ue := range userErrors {
		if errors.Is(err, ue) {
			return exitUserError
		}
	}
	return exitSysError
}
