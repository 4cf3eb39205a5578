package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/db"
)

var (
	libraryTitle     string
	libraryAuthor    string
	libraryExtension string
	libraryListStatus string
	libraryStatus     string
	libraryProgress   int
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your reading library",
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <source-id>",
	Short: "Add a resource to the library as unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.AddToLibrary(args[0], libraryTitle, libraryAuthor, libraryExtension); err != nil {
			return fmt.Errorf("failed to add to library: %w", err)
		}
		fmt.Printf("Added to library: %s\n", args[0])
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library items, optionally by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.Library(libraryListStatus)
		if err != nil {
			return fmt.Errorf("failed to list library: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("Library is empty.")
			return nil
		}
		for i, item := range items {
			fmt.Printf("%d. %s %s (%s, %d%%)\n", i+1, sourceIcon(item.Extension), item.Title, item.Status, item.Progress)
		}
		return nil
	},
}

var libraryProgressCmd = &cobra.Command{
	Use:   "progress <source-id>",
	Short: "Update reading status and progress",
	Long:  "Set a library item's status (unread, reading, completed) and progress percentage. Completing an item forces progress to 100.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch libraryStatus {
		case db.StatusUnread, db.StatusReading, db.StatusCompleted:
		default:
			return fmt.Errorf("invalid status %q", libraryStatus)
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.UpdateProgress(args[0], libraryStatus, libraryProgress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		fmt.Printf("Updated %s: %s\n", args[0], libraryStatus)
		return nil
	},
}

var libraryNotesCmd = &cobra.Command{
	Use:   "notes <source-id> <notes>",
	Short: "Attach notes to a library item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetLibraryNotes(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set notes: %w", err)
		}
		fmt.Println("Notes saved.")
		return nil
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <source-id>",
	Short: "Show one library item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		item, err := store.LibraryItemBySource(args[0])
		if errors.Is(err, db.ErrNotFound) {
			fmt.Println("Not in library.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}

		fmt.Printf("%s by %s\n", item.Title, item.Author)
		fmt.Printf("Status: %s (%d%%)\n", item.Status, item.Progress)
		if !item.StartedAt.IsZero() {
			fmt.Printf("Started: %s\n", item.StartedAt.Format("2006-01-02"))
		}
		if !item.CompletedAt.IsZero() {
			fmt.Printf("Completed: %s\n", item.CompletedAt.Format("2006-01-02"))
		}
		if item.Notes != "" {
			fmt.Printf("Notes: %s\n", item.Notes)
		}
		return nil
	},
}

var libraryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		stats := store.ReadingStats()
		fmt.Printf("Total:     %d\n", stats.Total)
		fmt.Printf("Reading:   %d\n", stats.Reading)
		fmt.Printf("Completed: %d\n", stats.Completed)
		fmt.Printf("Unread:    %d\n", stats.Unread)
		fmt.Printf("Avg progress: %.1f%%\n", stats.AvgProgress)
		return nil
	},
}

func init() {
	libraryAddCmd.Flags().StringVarP(&libraryTitle, "title", "t", "", "Resource title")
	libraryAddCmd.Flags().StringVarP(&libraryAuthor, "author", "a", "", "Resource author")
	libraryAddCmd.Flags().StringVarP(&libraryExtension, "extension", "e", "", "Originating extension")
	libraryListCmd.Flags().StringVarP(&libraryListStatus, "status", "s", "", "Filter by status")
	libraryProgressCmd.Flags().StringVarP(&libraryStatus, "status", "s", db.StatusReading, "New status")
	libraryProgressCmd.Flags().IntVarP(&libraryProgress, "percent", "p", 0, "Progress percent")

	libraryCmd.AddCommand(libraryAddCmd, libraryListCmd, libraryProgressCmd, libraryNotesCmd, libraryShowCmd, libraryStatsCmd)
	rootCmd.AddCommand(libraryCmd)
}
