package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tracktop/tracktop/internal/api"
	"github.com/tracktop/tracktop/internal/application/dashboard"
	"github.com/tracktop/tracktop/internal/core/eventsync"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/registry"
	"github.com/tracktop/tracktop/internal/util"
)

var (
	projectRate  float64
	projectColor string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Create, update, list and delete projects.

Project names are unique and immutable; only the hourly rate and color
can be changed after creation. Deleting a project also deletes every
event logged against it on the server.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a project's rate or color",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and all its events",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd, projectAddCmd, projectUpdateCmd, projectDeleteCmd)

	projectAddCmd.Flags().Float64Var(&projectRate, "rate", 0,
		"Hourly rate in your currency")
	projectAddCmd.Flags().StringVar(&projectColor, "color", "",
		"Calendar color as RGB hex (default "+model.DefaultProjectColor+")")
	projectAddCmd.MarkFlagRequired("rate")

	projectUpdateCmd.Flags().Float64Var(&projectRate, "rate", -1,
		"New hourly rate (unchanged if omitted)")
	projectUpdateCmd.Flags().StringVar(&projectColor, "color", "",
		"New calendar color as RGB hex (unchanged if omitted)")
}

func projectRegistry() (*registry.Registry, error) {
	cfg, err := bootstrap()
	if err != nil {
		return nil, err
	}
	return registry.New(api.NewClient(cfg.ServerURL, cfg.Token)), nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	reg, err := projectRegistry()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := reg.Refresh(ctx); err != nil {
		return err
	}

	projects := reg.Projects()
	if len(projects) == 0 {
		fmt.Println("No projects defined. Create one with: tracktop project add <name> --rate <rate>")
		return nil
	}

	fmt.Printf("  %-24s %10s  %s\n", "PROJECT", "RATE", "COLOR")
	for _, p := range projects {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■")
		fmt.Printf("%s %-24s %10s  %s\n",
			swatch,
			util.PadString(p.Name, 24, true),
			util.FormatCurrency(p.HourlyRate),
			p.Color)
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	reg, err := projectRegistry()
	if err != nil {
		return err
	}
	if err := reg.Create(context.Background(), args[0], projectRate, projectColor); err != nil {
		return err
	}
	fmt.Printf("Project %q created.\n", args[0])
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	reg, err := projectRegistry()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := reg.Refresh(ctx); err != nil {
		return err
	}

	name := args[0]
	existing, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("unknown project %q", name)
	}

	rate := existing.HourlyRate
	if cmd.Flags().Changed("rate") {
		rate = projectRate
	}
	color := existing.Color
	if projectColor != "" {
		color = projectColor
	}

	if err := reg.Update(ctx, name, rate, color); err != nil {
		return err
	}
	fmt.Printf("Project %q updated.\n", name)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	name := args[0]
	fmt.Printf("Delete project %q and ALL its logged events? (y/N): ", name)
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Delete cancelled.")
		return nil
	}

	// The server cascades the delete to the project's events, so the
	// delete goes through the refresh controller to refetch both lists.
	client := api.NewClient(cfg.ServerURL, cfg.Token)
	rc := dashboard.NewRefreshController(registry.New(client), eventsync.New(client))
	if _, _, err := rc.DeleteProject(context.Background(), name); err != nil {
		return err
	}
	fmt.Printf("Project %q deleted.\n", name)
	return nil
}
