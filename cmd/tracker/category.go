// Category commands: add, list, delete.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage tracker categories",
}

var categoryAddTitle string

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new category",
	Long: `Add creates a new, empty category.

Example:
  tracker category add --title "Health"`,
	RunE: runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories and their trackers",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryDeleteTitle string

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a category and its trackers",
	Long: `Delete removes a category, its trackers, and their completion
records. Deleting a category that does not exist is a no-op.

Example:
  tracker category delete --title "Health"`,
	RunE: runCategoryDelete,
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryAddTitle, "title", "", "category title (required)")
	_ = categoryAddCmd.MarkFlagRequired("title")

	categoryDeleteCmd.Flags().StringVar(&categoryDeleteTitle, "title", "", "category title (required)")
	_ = categoryDeleteCmd.MarkFlagRequired("title")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	if err := storage.Categories().Add(types.Category{Title: categoryAddTitle}); err != nil {
		return fmt.Errorf("add category: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"title": categoryAddTitle})
	}
	fmt.Println("Created category:", categoryAddTitle)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	categories, err := storage.Categories().Fetch()
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}

	if flagJSON {
		return printJSON(categories)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tTRACKERS")
	for _, category := range categories {
		fmt.Fprintf(w, "%s\t%d\n", category.Title, len(category.Trackers))
	}
	return w.Flush()
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	if err := storage.Categories().Delete(categoryDeleteTitle); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	fmt.Println("Deleted category:", categoryDeleteTitle)
	return nil
}
