package main

import (
	"os"

	"github.com/spf13/cobra"

	"project-builder-backend/internal/logging"
	"project-builder-backend/internal/mcptools"
	"project-builder-backend/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the pipeline as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; logs must stay on stderr.
		a, err := openApp(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		rec := a.recorder
		s := mcptools.NewServer(&mcptools.Tools{
			Generator:   a.generator,
			Coordinator: a.coordinator,
			Recorder:    &rec,
			Client:      a.client,
			Version:     version.Get(),
			Log:         logging.Component(a.log, "mcp"),
		})
		return mcptools.ServeStdio(s)
	},
}
