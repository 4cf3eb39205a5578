package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var annotationHighlight string

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Attach notes and highlights to resources",
}

var annotateAddCmd = &cobra.Command{
	Use:   "add <resource-url> <note>",
	Short: "Add an annotation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.AddAnnotation(args[0], args[1], annotationHighlight)
		if err != nil {
			return fmt.Errorf("failed to add annotation: %w", err)
		}
		fmt.Printf("Annotation %d added.\n", id)
		return nil
	},
}

var annotateListCmd = &cobra.Command{
	Use:   "list <resource-url>",
	Short: "List a resource's annotations, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		annotations, err := store.AnnotationsForResource(args[0])
		if err != nil {
			return fmt.Errorf("failed to list annotations: %w", err)
		}
		if len(annotations) == 0 {
			fmt.Println("No annotations.")
			return nil
		}
		for _, a := range annotations {
			fmt.Printf("%d. [%s] %s\n", a.ID, a.CreatedAt.Format("2006-01-02"), a.Note)
			if a.Highlight != "" {
				fmt.Printf("   > %s\n", truncate(a.Highlight, 100))
			}
		}
		return nil
	},
}

var annotateEditCmd = &cobra.Command{
	Use:   "edit <annotation-id> <note>",
	Short: "Rewrite an annotation's note",
	Long:  "Replace the note text of an annotation. The highlight is immutable once captured.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid annotation id %q", args[0])
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.UpdateAnnotation(id, args[1]); err != nil {
			return fmt.Errorf("failed to update annotation: %w", err)
		}
		fmt.Println("Annotation updated.")
		return nil
	},
}

var annotateRemoveCmd = &cobra.Command{
	Use:   "rm <annotation-id>",
	Short: "Delete an annotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid annotation id %q", args[0])
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteAnnotation(id); err != nil {
			return fmt.Errorf("failed to delete annotation: %w", err)
		}
		fmt.Println("Annotation deleted.")
		return nil
	},
}

func init() {
	annotateAddCmd.Flags().StringVarP(&annotationHighlight, "highlight", "H", "", "Highlighted passage from the resource")

	annotateCmd.AddCommand(annotateAddCmd, annotateListCmd, annotateEditCmd, annotateRemoveCmd)
	rootCmd.AddCommand(annotateCmd)
}
