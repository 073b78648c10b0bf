package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/version"
)

var jsonOutput bool

var generateCmd = &cobra.Command{
	Use:   "generate <brief>",
	Short: "Generate tasks and scaffold a project from a brief",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <brief>",
	Short: "Break a brief into tasks and store them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTasks,
}

func init() {
	generateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	tasksCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
}

func cliEnvelope() analytics.Envelope {
	return analytics.Envelope{Platform: "cli", AppVersion: version.Get()}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.coordinator.Run(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.recorder.Record(ctx, cliEnvelope(), res, "")

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), res.Message)
	fmt.Fprintf(out, "  project:  %s\n", res.ProjectDir)
	fmt.Fprintf(out, "  backend:  %s\n", res.BackendDir)
	fmt.Fprintf(out, "  frontend: %s\n\n", res.FrontendDir)
	printTaskList(out, res.Tasks)
	return nil
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	generated := a.generator.Generate(ctx, strings.Join(args, " "))
	stored, err := a.tasks.SaveAll(ctx, generated)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}

	props := map[string]any{"created": len(stored)}
	if err := analytics.Log(ctx, a.db, cliEnvelope(), analytics.EventTasksGenerated, props, ""); err != nil {
		a.log.Warn().Err(err).Msg("log tasks_generated event")
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stored)
	}

	fmt.Fprintf(out, "%s created %d tasks\n\n", color.GreenString("✓"), len(stored))
	printTaskList(out, generated)
	return nil
}
