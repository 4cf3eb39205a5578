package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var extensionCmd = &cobra.Command{
	Use:   "extension",
	Short: "Manage source extensions",
}

var extensionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, registry, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.Extensions()
		if err != nil {
			return fmt.Errorf("failed to list extensions: %w", err)
		}
		for _, info := range infos {
			state := "enabled"
			if !info.Enabled {
				state = "disabled"
			}
			fmt.Printf("%s %s v%s (%s)\n   %s\n", sourceIcon(info.Name), info.Name, info.Version, state, info.Description)
			if ext, ok := registry.Get(info.Name); ok {
				fmt.Printf("   Categories: %s\n", strings.Join(ext.Categories(), ", "))
			}
		}
		return nil
	},
}

var extensionEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnableExtension(args[0]); err != nil {
			return fmt.Errorf("failed to enable extension: %w", err)
		}
		fmt.Printf("Enabled %s\n", args[0])
		return nil
	},
}

var extensionDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable an extension",
	Long:  "Exclude an extension from searches and trending. Its cached data and bookmarks are kept.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DisableExtension(args[0]); err != nil {
			return fmt.Errorf("failed to disable extension: %w", err)
		}
		fmt.Printf("Disabled %s\n", args[0])
		return nil
	},
}

func init() {
	extensionCmd.AddCommand(extensionListCmd, extensionEnableCmd, extensionDisableCmd)
	rootCmd.AddCommand(extensionCmd)
}
