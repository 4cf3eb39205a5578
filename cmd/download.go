package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/download"
	"github.com/user/knowdock/internal/extensions"
)

var (
	downloadTitle  string
	gutenbergFmt   string
	downloadSource string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download resources for offline use",
}

func printProgress(percent float64) {
	fmt.Printf("\r%.0f%%", percent)
	if percent >= 100 {
		fmt.Println()
	}
}

var downloadResourceCmd = &cobra.Command{
	Use:   "get <extension> <resource-id>",
	Short: "Download a resource through its extension",
	Long:  "Resolve a resource id to a downloadable file via the extension and store it locally. Only extensions with download support work here.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		extName, resourceID := args[0], args[1]

		cfg, store, registry, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		ext, ok := registry.Get(extName)
		if !ok {
			return fmt.Errorf("unknown extension %q", extName)
		}
		dl, ok := ext.(extensions.Downloader)
		if !ok {
			return fmt.Errorf("extension %q does not support downloads", extName)
		}

		url, filename, err := dl.DownloadTarget(resourceID)
		if err != nil {
			return fmt.Errorf("failed to resolve download: %w", err)
		}

		mgr, err := download.NewManager(store, cfg.DownloadsDir)
		if err != nil {
			return err
		}

		title := downloadTitle
		if title == "" {
			title = filename
		}
		path, err := mgr.FetchAndRecord(cmd.Context(), url, filename, resourceID, title, extName, printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

var downloadArxivCmd = &cobra.Command{
	Use:   "arxiv <paper-id>",
	Short: "Download an arXiv paper's PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		mgr, err := download.NewManager(store, cfg.DownloadsDir)
		if err != nil {
			return err
		}
		path, err := mgr.ArxivPDF(cmd.Context(), args[0], downloadTitle, printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

var downloadGutenbergCmd = &cobra.Command{
	Use:   "gutenberg <book-id>",
	Short: "Download a Project Gutenberg book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		mgr, err := download.NewManager(store, cfg.DownloadsDir)
		if err != nil {
			return err
		}
		path, err := mgr.GutenbergBook(cmd.Context(), args[0], gutenbergFmt, downloadTitle, printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

var downloadWikipediaCmd = &cobra.Command{
	Use:   "wikipedia <article-title>",
	Short: "Download a Wikipedia article for offline reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		mgr, err := download.NewManager(store, cfg.DownloadsDir)
		if err != nil {
			return err
		}
		path, err := mgr.WikipediaArticle(cmd.Context(), args[0], printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

var downloadURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Download an arbitrary URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		mgr, err := download.NewManager(store, cfg.DownloadsDir)
		if err != nil {
			return err
		}
		title := downloadTitle
		if title == "" {
			title = args[0]
		}
		path, err := mgr.FetchAndRecord(cmd.Context(), args[0], "", args[0], title, downloadSource, printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

func init() {
	downloadCmd.PersistentFlags().StringVarP(&downloadTitle, "title", "t", "", "Title for the download record")
	downloadGutenbergCmd.Flags().StringVarP(&gutenbergFmt, "format", "f", "epub", "Book format: epub, html or txt")
	downloadURLCmd.Flags().StringVarP(&downloadSource, "source", "s", "manual", "Originating source")

	downloadCmd.AddCommand(downloadResourceCmd, downloadArxivCmd, downloadGutenbergCmd, downloadWikipediaCmd, downloadURLCmd)
	rootCmd.AddCommand(downloadCmd)
}
