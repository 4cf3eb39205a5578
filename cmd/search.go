package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/extensions"
)

var (
	jsonOutput      bool
	plaintextOutput bool
	liveSearch      bool
	searchExtension string
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search across all enabled sources",
	Long:  "Search every enabled extension for resources. Repeat queries are served from the local cache unless --live is given.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		_, store, registry, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()

		var results []extensions.Result
		switch {
		case searchExtension != "":
			resources, err := registry.Search(ctx, searchExtension, query, searchLimit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			for _, r := range resources {
				results = append(results, extensions.Result{Extension: searchExtension, Resource: r})
			}
		case liveSearch:
			results = registry.SearchAllLive(ctx, query, searchLimit)
		default:
			results = registry.SearchAll(ctx, query, searchLimit)
		}

		if jsonOutput {
			return outputJSON(results)
		}
		if plaintextOutput {
			return outputPlaintext(results)
		}
		return outputDefault(results)
	},
}

func outputJSON(results []extensions.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputPlaintext(results []extensions.Result) error {
	for _, r := range results {
		fmt.Printf("%s\t%s\t%s\n", r.Extension, r.Resource.Title, r.Resource.URL)
	}
	return nil
}

func outputDefault(results []extensions.Result) error {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		icon := sourceIcon(r.Extension)
		fmt.Printf("%d. %s %s\n   %s\n", i+1, icon, r.Resource.Title, r.Resource.URL)
		if r.Resource.Description != "" {
			fmt.Printf("   %s\n", truncate(r.Resource.Description, 100))
		}
		fmt.Println()
	}
	return nil
}

func sourceIcon(extension string) string {
	switch extension {
	case "arxiv":
		return "[A]"
	case "wikipedia":
		return "[W]"
	case "openlibrary":
		return "[O]"
	case "crossref":
		return "[C]"
	case "doaj":
		return "[D]"
	default:
		return "[?]"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	searchCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	searchCmd.Flags().BoolVarP(&plaintextOutput, "plaintext", "p", false, "Output as plaintext")
	searchCmd.Flags().BoolVar(&liveSearch, "live", false, "Bypass the result cache")
	searchCmd.Flags().StringVarP(&searchExtension, "extension", "e", "", "Search a single extension")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}
