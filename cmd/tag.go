package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/db"
)

var tagColor string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag resources for cross-cutting organization",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <resource-url> <tag-name>",
	Short: "Tag a resource, creating the tag if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.AddTagToResource(args[0], args[1], tagColor); err != nil {
			return fmt.Errorf("failed to tag resource: %w", err)
		}
		fmt.Printf("Tagged %s with %q\n", args[0], args[1])
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "rm <resource-url> <tag-id>",
	Short: "Remove a tag from a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tag id %q", args[1])
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.RemoveTagFromResource(args[0], tagID); err != nil {
			return fmt.Errorf("failed to remove tag: %w", err)
		}
		fmt.Println("Tag removed.")
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		tags, err := store.Tags()
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags.")
			return nil
		}
		for _, t := range tags {
			fmt.Printf("%d. %s (%s)\n", t.ID, t.Name, t.Color)
		}
		return nil
	},
}

var tagOfCmd = &cobra.Command{
	Use:   "of <resource-url>",
	Short: "List a resource's tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		tags, err := store.TagsForResource(args[0])
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags on this resource.")
			return nil
		}
		for _, t := range tags {
			fmt.Printf("%d. %s\n", t.ID, t.Name)
		}
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <tag-id>",
	Short: "Delete a tag everywhere",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tag id %q", args[0])
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteTag(tagID); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		fmt.Println("Tag deleted.")
		return nil
	},
}

func init() {
	tagAddCmd.Flags().StringVarP(&tagColor, "color", "c", db.DefaultTagColor, "Tag color (hex)")

	tagCmd.AddCommand(tagAddCmd, tagRemoveCmd, tagListCmd, tagOfCmd, tagDeleteCmd)
	rootCmd.AddCommand(tagCmd)
}
