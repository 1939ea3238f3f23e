// First-run seeding for the category store.
package sqlite

import (
	"database/sql"
	"fmt"
)

// defaultCategoryTitle is the category created on first initialization so
// a fresh install always has somewhere to put a tracker.
const defaultCategoryTitle = "Default"

// seedDefaultCategory inserts the default category when the categories
// table is empty. Idempotent: a second attach, or an attach against a
// store that already has categories, changes nothing.
func seedDefaultCategory(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.Exec("INSERT INTO categories (title) VALUES (?)", defaultCategoryTitle); err != nil {
		return fmt.Errorf("inserting default category: %w", err)
	}
	return nil
}
