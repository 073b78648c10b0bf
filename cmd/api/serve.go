package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"project-builder-backend/internal/ai"
	"project-builder-backend/internal/config"
	"project-builder-backend/internal/logging"
	"project-builder-backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API on ADDR (default :8000).

When --config names a YAML file, edits to it are picked up without a restart:
the model backend, keys, models and URLs switch on the next request.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	if configPath != "" {
		watchLog := logging.Component(a.log, "config")
		err := config.Watch(configPath, func(cfg *config.Config) {
			a.client.Reconfigure(ai.SettingsFromConfig(cfg))
			watchLog.Info().Str("backend", cfg.LLMBackend).Msg("config reloaded")
		}, func(err error) {
			watchLog.Warn().Err(err).Msg("config reload failed, keeping previous settings")
		})
		if err != nil {
			return err
		}
	}

	h := server.NewHandler(server.Deps{
		Config:      a.cfg,
		DB:          a.db,
		Client:      a.client,
		Generator:   a.generator,
		Tasks:       a.tasks,
		Coordinator: a.coordinator,
		Projects:    a.projects,
		Documents:   a.documents,
		Extractor:   a.extractor,
		Log:         logging.Component(a.log, "http"),
	})

	return server.Serve(ctx, a.cfg.Addr, h, a.cfg.MaxConnections, a.log)
}
