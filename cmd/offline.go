package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var offlineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Inspect and maintain the offline library",
}

var offlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		downloads, err := store.AvailableOffline()
		if err != nil {
			return fmt.Errorf("failed to list downloads: %w", err)
		}
		if len(downloads) == 0 {
			fmt.Println("Nothing downloaded.")
			return nil
		}
		for i, d := range downloads {
			marker := " "
			if !store.ResourceAvailableOffline(d.SourceID) {
				marker = "!" // recorded but missing on disk
			}
			fmt.Printf("%d.%s %s (%s)\n   %s\n", i+1, marker, d.Title, formatSize(d.FileSize), d.FilePath)
		}
		return nil
	},
}

var offlineSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Show total offline storage used",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		size, err := store.OfflineStorageSize()
		if err != nil {
			return fmt.Errorf("failed to compute storage size: %w", err)
		}
		fmt.Println(formatSize(size))
		return nil
	},
}

var offlineCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Drop records for files deleted from disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.CleanupDeletedFiles()
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Printf("Removed %d stale record(s).\n", removed)
		return nil
	},
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func init() {
	offlineCmd.AddCommand(offlineListCmd, offlineSizeCmd, offlineCleanupCmd)
	rootCmd.AddCommand(offlineCmd)
}
