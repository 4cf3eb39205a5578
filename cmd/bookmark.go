package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/db"
)

var (
	bookmarkTitle      string
	bookmarkSource     string
	bookmarkListSource string
	bookmarkType       string
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage bookmarks",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Bookmark a resource by URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		title := bookmarkTitle
		if title == "" {
			title = url
		}
		err = store.AddBookmark(&db.Bookmark{
			Title:  title,
			URL:    url,
			Source: bookmarkSource,
			Type:   bookmarkType,
		})
		if errors.Is(err, db.ErrDuplicate) {
			fmt.Printf("Already bookmarked: %s\n", url)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to add bookmark: %w", err)
		}

		fmt.Printf("Bookmarked: %s\n", url)
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "rm <url>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.RemoveBookmark(args[0]); err != nil {
			return fmt.Errorf("failed to remove bookmark: %w", err)
		}
		fmt.Printf("Removed: %s\n", args[0])
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, optionally filtered by source",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		bookmarks, err := store.Bookmarks(bookmarkListSource)
		if err != nil {
			return fmt.Errorf("failed to list bookmarks: %w", err)
		}
		if len(bookmarks) == 0 {
			fmt.Println("No bookmarks.")
			return nil
		}
		for i, b := range bookmarks {
			fmt.Printf("%d. %s %s\n   %s\n", i+1, sourceIcon(b.Source), b.Title, b.URL)
		}
		return nil
	},
}

var bookmarkSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search saved bookmarks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		bookmarks, err := store.SearchBookmarks(args[0])
		if err != nil {
			return fmt.Errorf("bookmark search failed: %w", err)
		}
		if len(bookmarks) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for i, b := range bookmarks {
			fmt.Printf("%d. %s %s\n   %s\n", i+1, sourceIcon(b.Source), b.Title, b.URL)
		}
		return nil
	},
}

func init() {
	bookmarkAddCmd.Flags().StringVarP(&bookmarkTitle, "title", "t", "", "Bookmark title (default: the URL)")
	bookmarkAddCmd.Flags().StringVarP(&bookmarkSource, "source", "s", "manual", "Originating source")
	bookmarkAddCmd.Flags().StringVar(&bookmarkType, "type", "Web Article", "Resource type")
	bookmarkListCmd.Flags().StringVarP(&bookmarkListSource, "source", "s", "", "Filter by source")

	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkRemoveCmd, bookmarkListCmd, bookmarkSearchCmd)
	rootCmd.AddCommand(bookmarkCmd)
}
