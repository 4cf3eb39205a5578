package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/db"
)

var (
	projectDescription   string
	projectResourceTitle string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Organize resources into research projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.CreateProject(args[0], projectDescription)
		if errors.Is(err, db.ErrDuplicate) {
			return fmt.Errorf("project %q already exists", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		fmt.Printf("Created project %q (id %d)\n", args[0], id)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		projects, err := store.Projects()
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%d. %s (%s)\n", p.ID, p.Name, p.Status)
			if p.Description != "" {
				fmt.Printf("   %s\n", truncate(p.Description, 100))
			}
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and its resource links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		project, err := store.ProjectByName(args[0])
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no project named %q", args[0])
		}
		if err != nil {
			return err
		}
		if err := store.DeleteProject(project.ID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		fmt.Printf("Deleted project %q\n", args[0])
		return nil
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <project-name> <resource-url>",
	Short: "Add a resource to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		project, err := store.ProjectByName(args[0])
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no project named %q", args[0])
		}
		if err != nil {
			return err
		}

		title := projectResourceTitle
		if title == "" {
			title = args[1]
		}
		if err := store.AddResourceToProject(project.ID, args[1], title); err != nil {
			return fmt.Errorf("failed to add resource: %w", err)
		}
		fmt.Printf("Added to %q: %s\n", args[0], args[1])
		return nil
	},
}

var projectResourcesCmd = &cobra.Command{
	Use:   "resources <project-name>",
	Short: "List a project's resources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		project, err := store.ProjectByName(args[0])
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no project named %q", args[0])
		}
		if err != nil {
			return err
		}

		resources, err := store.ProjectResources(project.ID)
		if err != nil {
			return fmt.Errorf("failed to list resources: %w", err)
		}
		if len(resources) == 0 {
			fmt.Println("No resources.")
			return nil
		}
		for _, r := range resources {
			fmt.Printf("%d. [%s] %s\n   %s\n", r.ID, r.Status, r.Title, r.URL)
		}
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <resource-id> <status>",
	Short: "Set a project resource's workflow status",
	Long:  "Move a project resource through the research workflow: to_read, reading or synthesized.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid resource id %q", args[0])
		}
		status := args[1]
		switch status {
		case db.ResourceToRead, db.ResourceReading, db.ResourceSynthesized:
		default:
			return fmt.Errorf("invalid status %q", status)
		}

		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.UpdateProjectResourceStatus(resourceID, status); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		fmt.Printf("Resource %d is now %s\n", resourceID, status)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectAddCmd.Flags().StringVarP(&projectResourceTitle, "title", "t", "", "Resource title (default: the URL)")

	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectDeleteCmd, projectAddCmd, projectResourcesCmd, projectStatusCmd)
	rootCmd.AddCommand(projectCmd)
}
