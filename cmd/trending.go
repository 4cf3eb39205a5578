package cmd

import (
	"github.com/spf13/cobra"
)

var trendingLimit int

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending resources from all enabled sources",
	Long:  "Fetch popular or recent resources from every enabled extension. Always live; trending is never cached.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, registry, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		results := registry.TrendingAll(cmd.Context(), trendingLimit)

		if jsonOutput {
			return outputJSON(results)
		}
		return outputDefault(results)
	},
}

func init() {
	trendingCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	trendingCmd.Flags().IntVarP(&trendingLimit, "limit", "n", 20, "Maximum results")
	rootCmd.AddCommand(trendingCmd)
}
